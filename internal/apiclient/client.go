// Package apiclient talks to a running Nesshub service: it submits scan
// exports and fetches the rendered PDF.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client submits scan exports to a Nesshub service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an API client for the given service URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// SubmitResult holds the service's response to a submitted export.
type SubmitResult struct {
	ReportID      string `json:"report_id"`
	TotalFindings int    `json:"total_findings"`
	AffectedHosts int    `json:"affected_hosts"`
	PDFURL        string `json:"pdf_url"`
}

// SubmitOptions carries the report metadata sent with the upload.
type SubmitOptions struct {
	ReportName string
	Customer   string
	ScanDate   string
}

// Submit uploads a .nessus export to POST /generate and returns the
// generated report's identity.
func (c *Client) Submit(path string, opts SubmitOptions) (*SubmitResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	fields := map[string]string{
		"report_name": opts.ReportName,
		"customer":    opts.Customer,
		"scan_date":   opts.ScanDate,
	}
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/generate", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit export: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp["detail"]
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("API error: %s", msg)
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.ReportID == "" {
		return nil, fmt.Errorf("API response carries no report id")
	}

	return &result, nil
}

// FetchPDF downloads the rendered PDF for a report id.
func (c *Client) FetchPDF(reportID string) ([]byte, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/reports/"+reportID+".pdf", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pdf: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("report %s not found (the service keeps a bounded cache)", reportID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (HTTP %d)", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return data, nil
}

// Health checks the service's /healthz endpoint.
func (c *Client) Health() error {
	req, err := http.NewRequest("GET", c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service unhealthy (HTTP %d)", resp.StatusCode)
	}
	return nil
}
