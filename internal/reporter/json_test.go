package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONReporter_Generate(t *testing.T) {
	details := sampleDetails()

	var buf bytes.Buffer
	if err := NewJSONReporter(&buf, false).Generate(details); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"metadata", "findings", "host_summaries", "aggregates", "generated_at"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("output missing %q key", key)
		}
	}

	findings, ok := decoded["findings"].([]interface{})
	if !ok || len(findings) != 3 {
		t.Fatalf("findings = %v, want 3 entries", decoded["findings"])
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("output should end with a newline")
	}
}

func TestJSONReporter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONReporter(&buf, true).Generate(sampleDetails()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("pretty output should be indented")
	}
}

func TestJSONReporter_SummaryOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONReporter(&buf, false).GenerateSummaryOnly(sampleDetails()); err != nil {
		t.Fatalf("GenerateSummaryOnly: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["findings"]; ok {
		t.Error("summary output must not carry the finding list")
	}
	if _, ok := decoded["aggregates"]; !ok {
		t.Error("summary output missing aggregates")
	}
}

func TestJSONReporter_NilAverageOmitted(t *testing.T) {
	details := sampleDetails()
	details.Aggregates.AverageCVSS = nil

	var buf bytes.Buffer
	if err := NewJSONReporter(&buf, false).Generate(details); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(buf.String(), "average_cvss") {
		t.Error("absent average should be omitted, not rendered as 0")
	}
}
