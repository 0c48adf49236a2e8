package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeService mimics the upload service endpoints submit talks to.
func fakeService(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /generate", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("report_name"); got != "q1-scan" {
			t.Errorf("report_name = %q, want %q", got, "q1-scan")
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"report_id":      "abc123",
			"total_findings": 2,
			"affected_hosts": 1,
			"pdf_url":        "/reports/abc123.pdf",
		})
	})
	mux.HandleFunc("GET /reports/{file}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.7 fake"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSubmitDownloadsPDF(t *testing.T) {
	withTestConfig(t, nil)
	srv := fakeService(t)
	exportPath := writeSampleExport(t)
	outPath := filepath.Join(t.TempDir(), "report.pdf")

	oldServer, oldOut, oldName := submitServer, submitOut, submitName
	t.Cleanup(func() { submitServer, submitOut, submitName = oldServer, oldOut, oldName })
	submitServer = srv.URL
	submitOut = outPath
	submitName = ""

	out := captureStdout(t, func() {
		if err := runSubmit(submitCmd, []string{exportPath}); err != nil {
			t.Errorf("runSubmit: %v", err)
		}
	})

	if !strings.Contains(out, "Report abc123 generated") {
		t.Errorf("output missing report id\n%s", out)
	}
	if !strings.Contains(out, "Findings: 2") {
		t.Errorf("output missing findings count\n%s", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read PDF: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("downloaded file is not a PDF: %q", data)
	}
}

func TestRunSubmitSkipsPDF(t *testing.T) {
	withTestConfig(t, nil)
	srv := fakeService(t)
	exportPath := writeSampleExport(t)

	oldServer, oldNoPDF := submitServer, submitNoPDF
	t.Cleanup(func() { submitServer, submitNoPDF = oldServer, oldNoPDF })
	submitServer = srv.URL
	submitNoPDF = true

	out := captureStdout(t, func() {
		if err := runSubmit(submitCmd, []string{exportPath}); err != nil {
			t.Errorf("runSubmit: %v", err)
		}
	})

	if strings.Contains(out, "PDF:") {
		t.Errorf("output should not mention a PDF\n%s", out)
	}
}

func TestRunSubmitServiceDown(t *testing.T) {
	withTestConfig(t, nil)
	exportPath := writeSampleExport(t)

	oldServer := submitServer
	t.Cleanup(func() { submitServer = oldServer })
	submitServer = "http://127.0.0.1:1"

	if err := runSubmit(submitCmd, []string{exportPath}); err == nil {
		t.Error("expected error when service is unreachable")
	}
}
