package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/nesshub/internal/engine"
	"github.com/ppiankov/nesshub/internal/models"
	"github.com/ppiankov/nesshub/internal/reporter"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadPage.Execute(w, nil); err != nil {
		s.logf("render upload page: %v", err)
	}
}

// handleGenerate accepts a multipart upload and renders the report preview.
// Clients that prefer JSON get the report ID instead of the HTML page.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.metrics.ReportsFailed.WithLabelValues("upload").Inc()
		s.writeError(w, r, http.StatusBadRequest, "Please upload a valid .nessus export.")
		return
	}
	defer file.Close()

	if header.Filename == "" || !strings.HasSuffix(strings.ToLower(header.Filename), ".nessus") {
		s.metrics.ReportsFailed.WithLabelValues("filename").Inc()
		s.writeError(w, r, http.StatusBadRequest, "Please upload a valid .nessus export.")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.metrics.ReportsFailed.WithLabelValues("upload").Inc()
		s.writeError(w, r, http.StatusBadRequest, "Failed to read the uploaded file.")
		return
	}
	s.metrics.UploadBytes.Add(float64(len(content)))

	metadata := models.ReportMetadata{
		Name:     r.FormValue("report_name"),
		Customer: r.FormValue("customer"),
		ScanDate: r.FormValue("scan_date"),
	}

	details, err := engine.BuildReport(metadata, content)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoFindings):
			s.metrics.ReportsFailed.WithLabelValues("empty").Inc()
			s.writeError(w, r, http.StatusBadRequest, err.Error())
		case models.IsInvalidFile(err):
			s.metrics.ReportsFailed.WithLabelValues("invalid").Inc()
			s.logf("failed to parse upload %q: %v", header.Filename, err)
			s.writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			s.metrics.ReportsFailed.WithLabelValues("internal").Inc()
			s.logf("report build failed: %v", err)
			s.writeError(w, r, http.StatusInternalServerError, "Something went wrong while generating the report.")
		}
		return
	}

	bundle, err := reporter.BuildBundle(details)
	if err != nil {
		s.metrics.ReportsFailed.WithLabelValues("render").Inc()
		s.logf("report render failed: %v", err)
		s.writeError(w, r, http.StatusInternalServerError, "Something went wrong while generating the report.")
		return
	}

	s.cache.Put(bundle)
	s.metrics.ReportsGenerated.Inc()
	s.metrics.GenerateSeconds.Observe(time.Since(started).Seconds())
	s.logf("generated report %s: %d findings across %d hosts",
		bundle.ID, details.Aggregates.TotalFindings, details.Aggregates.AffectedHosts)

	if prefersJSON(r) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"report_id":      bundle.ID,
			"total_findings": details.Aggregates.TotalFindings,
			"affected_hosts": details.Aggregates.AffectedHosts,
			"pdf_url":        "/reports/" + bundle.ID + ".pdf",
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(bundle.HTML)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	id, found := strings.CutSuffix(file, ".pdf")
	if !found || id == "" {
		s.writeError(w, r, http.StatusNotFound, "Report not found")
		return
	}
	bundle, ok := s.cache.Get(id)
	if !ok {
		s.writeError(w, r, http.StatusNotFound, "Report not found")
		return
	}

	s.metrics.PDFDownloads.Inc()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=nessus-report-"+id+".pdf")
	w.Write(bundle.PDF)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError renders the error as JSON or as the error page, depending on
// what the client accepts.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if prefersJSON(r) {
		writeJSON(w, status, map[string]string{"detail": message})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := errorPage.Execute(w, struct {
		StatusCode int
		Message    string
	}{status, message})
	if err != nil {
		s.logf("render error page: %v", err)
	}
}

// prefersJSON reports whether the client asked for JSON without also
// accepting HTML. Browsers send both, API clients send only JSON.
func prefersJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
