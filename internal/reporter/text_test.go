package reporter

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextReporter_Generate(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextReporter(&buf).Generate(sampleDetails()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Nesshub Scan Report",
		"Report:   Quarterly Assessment",
		"Customer: Acme Corp",
		"Total Findings: 3",
		"Affected Hosts: 2",
		"Average CVSS:   7.55",
		"Findings by Severity:",
		"Findings by Risk Factor:",
		"Top Hosts:",
		"Top Plugin Families:",
		"Host Severity Breakdown:",
		"web01.acme.test",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestTextReporter_SeverityBars(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextReporter(&buf).Generate(sampleDetails()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "█") {
		t.Error("non-zero severities should draw a bar")
	}
	// Zero-count rows still appear, just without a bar.
	if !strings.Contains(out, "High") || !strings.Contains(out, "Low") {
		t.Error("zero-count severities must still be listed")
	}
}

func TestTextReporter_NoAverage(t *testing.T) {
	details := sampleDetails()
	details.Aggregates.AverageCVSS = nil

	var buf bytes.Buffer
	if err := NewTextReporter(&buf).Generate(details); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(buf.String(), "Average CVSS:   n/a") {
		t.Error("absent average should be shown as n/a")
	}
}

func TestTextReporter_MissingIPShownAsDash(t *testing.T) {
	details := sampleDetails()
	details.HostSummaries[0].IPAddress = ""

	var buf bytes.Buffer
	if err := NewTextReporter(&buf).Generate(details); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	line := ""
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, "web01.acme.test") && !strings.Contains(l, "Top") {
			line = l
		}
	}
	if line == "" || !strings.Contains(line, "-") {
		t.Errorf("host row without IP should show a dash, got %q", line)
	}
}
