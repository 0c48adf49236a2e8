package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/nesshub/internal/engine"
	"github.com/ppiankov/nesshub/internal/models"
)

const sampleExport = `<?xml version="1.0" ?>
<NessusClientData_v2>
  <Report name="scan">
    <ReportHost name="10.0.0.5">
      <HostProperties>
        <tag name="host-fqdn">web01.example.com</tag>
        <tag name="host-ip">10.0.0.5</tag>
      </HostProperties>
      <ReportItem severity="4" pluginID="151465" pluginName="Apache Log4j RCE" pluginFamily="CGI abuses" port="8080" protocol="tcp" svc_name="http">
        <risk_factor>Critical</risk_factor>
        <cve>CVE-2021-44228</cve>
        <cvss3_base_score>10.0</cvss3_base_score>
        <description>Remote code execution via JNDI lookup.</description>
      </ReportItem>
      <ReportItem severity="2" pluginID="42873" pluginName="SSL Medium Strength Ciphers" pluginFamily="General" port="443" protocol="tcp">
        <risk_factor>Medium</risk_factor>
        <cvss_base_score>5.0</cvss_base_score>
      </ReportItem>
    </ReportHost>
  </Report>
</NessusClientData_v2>`

// writeSampleExport writes the fixture export into a temp dir and
// returns its path.
func writeSampleExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "q1-scan.nessus")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return path
}

func sampleReportDetails(t *testing.T) *models.ReportDetails {
	t.Helper()
	details, err := engine.BuildReport(models.ReportMetadata{Name: "Q1 Scan"}, []byte(sampleExport))
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	return details
}

// --- outputFileName tests ---

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		path   string
		format string
		want   string
	}{
		{"scan.nessus", "html", "scan.html"},
		{"/data/exports/q1-scan.nessus", "pdf", "q1-scan.pdf"},
		{"scan.nessus", "json", "scan.json"},
		{"scan.nessus", "text", "scan.txt"},
		{"noext", "html", "noext.html"},
	}

	for _, tt := range tests {
		if got := outputFileName(tt.path, tt.format); got != tt.want {
			t.Errorf("outputFileName(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

// --- metadataFor tests ---

func TestMetadataForDefaultsToFileName(t *testing.T) {
	md := metadataFor("/data/exports/q1-scan.nessus", "", "Acme", "2026-03-01")

	if md.Name != "q1-scan" {
		t.Errorf("Name = %q, want %q", md.Name, "q1-scan")
	}
	if md.Customer != "Acme" {
		t.Errorf("Customer = %q, want %q", md.Customer, "Acme")
	}
	if md.ScanDate != "2026-03-01" {
		t.Errorf("ScanDate = %q, want %q", md.ScanDate, "2026-03-01")
	}
}

func TestMetadataForExplicitName(t *testing.T) {
	md := metadataFor("scan.nessus", "Quarterly Audit", "", "")
	if md.Name != "Quarterly Audit" {
		t.Errorf("Name = %q, want %q", md.Name, "Quarterly Audit")
	}
}

// --- format parsing ---

func TestSplitFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"html", []string{"html"}},
		{"html,pdf,json", []string{"html", "pdf", "json"}},
		{" html , pdf ", []string{"html", "pdf"}},
		{"", nil},
	}

	for _, tt := range tests {
		got := splitFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitFormats(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestValidRenderFormat(t *testing.T) {
	for _, format := range []string{"html", "pdf", "json", "text"} {
		if !validRenderFormat(format) {
			t.Errorf("validRenderFormat(%q) = false, want true", format)
		}
	}
	for _, format := range []string{"", "xml", "HTML", "markdown"} {
		if validRenderFormat(format) {
			t.Errorf("validRenderFormat(%q) = true, want false", format)
		}
	}
}

// --- resolvePolicy tests ---

func TestResolvePolicyFailOn(t *testing.T) {
	pol, err := resolvePolicy("", "high")
	if err != nil {
		t.Fatalf("resolvePolicy: %v", err)
	}
	if pol == nil {
		t.Fatal("resolvePolicy with fail-on returned nil policy")
	}
	if pol.Rules.MaxHigh == nil || *pol.Rules.MaxHigh != 0 {
		t.Error("fail-on high should set MaxHigh to 0")
	}
}

func TestResolvePolicyFailOnInvalid(t *testing.T) {
	if _, err := resolvePolicy("", "apocalyptic"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestResolvePolicyMissingFile(t *testing.T) {
	if _, err := resolvePolicy(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Error("expected error for missing policy file")
	}
}

func TestResolvePolicyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	content := "rules:\n  max_critical: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	pol, err := resolvePolicy(path, "")
	if err != nil {
		t.Fatalf("resolvePolicy: %v", err)
	}
	if pol == nil || pol.Rules.MaxCritical == nil {
		t.Fatal("policy file not loaded")
	}
}

// --- writeReport tests ---

func TestWriteReportFormats(t *testing.T) {
	details := sampleReportDetails(t)
	dir := t.TempDir()

	tests := []struct {
		format string
		file   string
		marker []byte
	}{
		{"html", "out.html", []byte("<!DOCTYPE html>")},
		{"pdf", "out.pdf", []byte("%PDF-")},
		{"json", "out.json", []byte(`"total_findings"`)},
		{"text", "out.txt", []byte("Q1 Scan")},
	}

	for _, tt := range tests {
		outPath := filepath.Join(dir, tt.file)
		if err := writeReport(outPath, tt.format, details); err != nil {
			t.Fatalf("writeReport(%s): %v", tt.format, err)
		}
		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("read %s: %v", tt.file, err)
		}
		if !bytes.Contains(data, tt.marker) {
			t.Errorf("%s output missing marker %q", tt.format, tt.marker)
		}
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	details := sampleReportDetails(t)
	if err := writeReport(filepath.Join(t.TempDir(), "out"), "xml", details); err == nil {
		t.Error("expected error for unknown format")
	}
}

// --- renderExport tests ---

func TestRenderExportWritesFile(t *testing.T) {
	withTestConfig(t, nil)
	path := writeSampleExport(t)
	outDir := t.TempDir()

	if err := renderExport(path, outDir, []string{"json", "text"}, nil); err != nil {
		t.Fatalf("renderExport: %v", err)
	}

	for _, name := range []string{"q1-scan.json", "q1-scan.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected output file %s: %v", name, err)
		}
	}
}

func TestRenderExportInvalidInput(t *testing.T) {
	withTestConfig(t, nil)
	path := filepath.Join(t.TempDir(), "bad.nessus")
	if err := os.WriteFile(path, []byte("not xml at all"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	err := renderExport(path, t.TempDir(), []string{"json"}, nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("renderExport error = %v, want ValidationError", err)
	}
}

func TestRenderExportPolicyGate(t *testing.T) {
	withTestConfig(t, nil)
	path := writeSampleExport(t)
	outDir := t.TempDir()

	pol, err := resolvePolicy("", "critical")
	if err != nil {
		t.Fatalf("resolvePolicy: %v", err)
	}

	renderErr := captureStderrErr(t, func() error {
		return renderExport(path, outDir, []string{"json"}, pol)
	})

	var pErr *PolicyFailError
	if !errors.As(renderErr, &pErr) {
		t.Fatalf("renderExport error = %v, want PolicyFailError", renderErr)
	}

	// The report is still written even when the gate fails.
	if _, err := os.Stat(filepath.Join(outDir, "q1-scan.json")); err != nil {
		t.Errorf("expected output file despite policy failure: %v", err)
	}
}

// captureStderrErr runs fn while swallowing stderr and returns its error.
func captureStderrErr(t *testing.T, fn func() error) error {
	t.Helper()
	var err error
	_ = captureStderr(t, func() { err = fn() })
	return err
}

func TestRenderExportMissingFile(t *testing.T) {
	withTestConfig(t, nil)
	err := renderExport(filepath.Join(t.TempDir(), "gone.nessus"), t.TempDir(), []string{"json"}, nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		t.Error("missing file should be a runtime error, not a validation error")
	}
}
