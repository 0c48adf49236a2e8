package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/nesshub/internal/models"
)

const sampleExport = `<?xml version="1.0" ?>
<NessusClientData_v2>
  <Report name="scan">
    <ReportHost name="10.0.0.5">
      <HostProperties>
        <tag name="host-fqdn">web01.example.com</tag>
        <tag name="host-ip">10.0.0.5</tag>
        <tag name="operating-system" value="Linux Kernel 5.15"/>
        <tag>orphan value</tag>
      </HostProperties>
      <ReportItem severity="4" pluginID="151465" pluginName="Apache Log4j RCE" pluginFamily="CGI abuses" port="8080" protocol="tcp" svc_name="http">
        <risk_factor>CRITICAL</risk_factor>
        <cve>CVE-2021-44228</cve>
        <cve>CVE-2021-45046</cve>
        <cvss_base_score>9.3</cvss_base_score>
        <cvss3_base_score>10.0</cvss3_base_score>
        <description>  Remote code execution via JNDI lookup.  </description>
        <solution>Upgrade Log4j.</solution>
        <plugin_output>Vulnerable jar found.</plugin_output>
      </ReportItem>
      <ReportItem severity="2" pluginID="42873" pluginName="SSL Medium Strength Ciphers" pluginFamily="General" port="443" protocol="tcp">
        <risk_factor>medium</risk_factor>
        <cvss_base_score>5.0</cvss_base_score>
      </ReportItem>
    </ReportHost>
    <ReportHost name="10.0.0.9">
      <HostProperties>
        <tag name="host-ip">10.0.0.9</tag>
      </HostProperties>
      <ReportItem severity="0" pluginID="19506" pluginName="Nessus Scan Information" pluginFamily="Settings" port="0" protocol="tcp"/>
    </ReportHost>
  </Report>
</NessusClientData_v2>`

func TestParseFindingsRecordCount(t *testing.T) {
	findings, err := ParseFindings([]byte(sampleExport))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}
	if len(findings) != 3 {
		t.Fatalf("ParseFindings() returned %d records, want 3", len(findings))
	}
}

func TestParseFindingsNormalization(t *testing.T) {
	findings, err := ParseFindings([]byte(sampleExport))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}

	first := findings[0]
	if first.Host != "web01.example.com" {
		t.Errorf("Host = %q, want fqdn fallback %q", first.Host, "web01.example.com")
	}
	if first.IPAddress != "10.0.0.5" {
		t.Errorf("IPAddress = %q, want 10.0.0.5", first.IPAddress)
	}
	if first.Port != "8080/http" {
		t.Errorf("Port = %q, want 8080/http", first.Port)
	}
	if first.Severity != 4 || first.SeverityLabel != models.SeverityCritical {
		t.Errorf("severity = (%d, %q), want (4, Critical)", first.Severity, first.SeverityLabel)
	}
	if first.RiskFactor != "Critical" {
		t.Errorf("RiskFactor = %q, want Critical", first.RiskFactor)
	}
	if first.CVSSBase == nil || *first.CVSSBase != 10.0 {
		t.Errorf("CVSSBase = %v, want v3 score 10.0", first.CVSSBase)
	}
	if len(first.CVEs) != 2 || first.CVEs[0] != "CVE-2021-44228" {
		t.Errorf("CVEs = %v, want both entries in order", first.CVEs)
	}
	if first.Description != "Remote code execution via JNDI lookup." {
		t.Errorf("Description not trimmed: %q", first.Description)
	}

	second := findings[1]
	if second.Port != "443" {
		t.Errorf("Port without service = %q, want bare 443", second.Port)
	}
	if second.CVSSBase == nil || *second.CVSSBase != 5.0 {
		t.Errorf("CVSSBase = %v, want v2 fallback 5.0", second.CVSSBase)
	}
	if second.RiskFactor != "Medium" {
		t.Errorf("RiskFactor = %q, want Medium", second.RiskFactor)
	}
}

func TestParseFindingsHostLevelItem(t *testing.T) {
	findings, err := ParseFindings([]byte(sampleExport))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}

	third := findings[2]
	if third.Port != "" {
		t.Errorf("port 0 should yield empty port, got %q", third.Port)
	}
	if third.Host != "10.0.0.9" {
		t.Errorf("Host = %q, want raw host name when no fqdn/host-name", third.Host)
	}
	if third.CVSSBase != nil {
		t.Errorf("CVSSBase = %v, want nil when both scores absent", *third.CVSSBase)
	}
	if third.SeverityLabel != models.SeverityInfo {
		t.Errorf("SeverityLabel = %q, want Info", third.SeverityLabel)
	}
	if third.RiskFactor != "None" {
		t.Errorf("RiskFactor = %q, want None when absent", third.RiskFactor)
	}
}

func TestParseFindingsDefaults(t *testing.T) {
	const export = `<NessusClientData_v2><Report>
		<ReportHost><ReportItem/></ReportHost>
	</Report></NessusClientData_v2>`

	findings, err := ParseFindings([]byte(export))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}

	f := findings[0]
	if f.Host != "Unknown Host" {
		t.Errorf("Host = %q, want Unknown Host", f.Host)
	}
	if f.PluginID != "0" || f.PluginName != "Unnamed Plugin" || f.PluginFamily != "Uncategorized" {
		t.Errorf("plugin defaults = (%q, %q, %q)", f.PluginID, f.PluginName, f.PluginFamily)
	}
	if f.Severity != 0 || f.SeverityLabel != "Info" {
		t.Errorf("severity defaults = (%d, %q), want (0, Info)", f.Severity, f.SeverityLabel)
	}
}

func TestParseFindingsUnknownSeverityMapsToInfo(t *testing.T) {
	const export = `<NessusClientData_v2><Report>
		<ReportHost name="h"><ReportItem severity="9"/></ReportHost>
	</Report></NessusClientData_v2>`

	findings, err := ParseFindings([]byte(export))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}
	if findings[0].SeverityLabel != models.SeverityInfo {
		t.Errorf("SeverityLabel = %q, want Info for unmapped severity", findings[0].SeverityLabel)
	}
}

func TestParseFindingsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"malformed xml", "<NessusClientData_v2><Report>"},
		{"wrong root", "<html><body>not nessus</body></html>"},
		{"missing report node", "<NessusClientData_v2></NessusClientData_v2>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFindings([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var invalid *models.InvalidFileError
			if !errors.As(err, &invalid) {
				t.Errorf("error = %v, want InvalidFileError", err)
			}
		})
	}
}

func TestExtractHostProperties(t *testing.T) {
	host := reportHost{
		Properties: hostProperties{Tags: []propertyTag{
			{Name: "host-fqdn", Text: "db01.example.com"},
			{Name: "operating-system", Value: "Linux"},
			{Name: "netbios-name", Text: "  "},
			{Text: "nameless"},
		}},
	}

	props := extractHostProperties(host)
	if props["host-fqdn"] != "db01.example.com" {
		t.Errorf("inline text not extracted: %q", props["host-fqdn"])
	}
	if props["operating-system"] != "Linux" {
		t.Errorf("value attribute not extracted: %q", props["operating-system"])
	}
	if v, ok := props["netbios-name"]; !ok || v != "" {
		t.Errorf("present-but-empty tag should store \"\", got (%q, %v)", v, ok)
	}
	if len(props) != 3 {
		t.Errorf("nameless tag should be skipped, got %d props", len(props))
	}
}

func TestSingleElementDecodesLikeList(t *testing.T) {
	// The schema quirk: a host with exactly one ReportItem and one cve must
	// behave the same as one with many.
	const export = `<NessusClientData_v2><Report>
		<ReportHost name="solo">
			<ReportItem severity="3" pluginID="1" pluginName="p" pluginFamily="f">
				<cve>CVE-2024-1234</cve>
			</ReportItem>
		</ReportHost>
	</Report></NessusClientData_v2>`

	findings, err := ParseFindings([]byte(export))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if len(findings[0].CVEs) != 1 || findings[0].CVEs[0] != "CVE-2024-1234" {
		t.Errorf("CVEs = %v, want single entry", findings[0].CVEs)
	}
}

func TestParseFindingsZeroItemsIsNotAnError(t *testing.T) {
	// Zero findings is the orchestrator's call (ErrNoFindings), not a parse
	// failure: the document is structurally valid.
	const export = `<NessusClientData_v2><Report name="empty"></Report></NessusClientData_v2>`

	findings, err := ParseFindings([]byte(export))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0", len(findings))
	}
}

func TestExtractPortTable(t *testing.T) {
	tests := []struct {
		name string
		port string
		svc  string
		want string
	}{
		{"port with service", "80", "http", "80/http"},
		{"port without service", "443", "", "443"},
		{"port zero is host-level", "0", "general", ""},
		{"absent port", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := reportItem{Port: tt.port, SvcName: tt.svc}
			if got := extractPort(item); got != tt.want {
				t.Errorf("extractPort(port=%q, svc=%q) = %q, want %q", tt.port, tt.svc, got, tt.want)
			}
		})
	}
}

func TestParseFindingsLargeDocumentOrder(t *testing.T) {
	// Records come back in document order; the orchestrator sorts later.
	var b strings.Builder
	b.WriteString("<NessusClientData_v2><Report>")
	for i := 0; i < 4; i++ {
		b.WriteString(`<ReportHost name="h"><ReportItem severity="1" pluginID="`)
		b.WriteString(string(rune('a' + i)))
		b.WriteString(`"/></ReportHost>`)
	}
	b.WriteString("</Report></NessusClientData_v2>")

	findings, err := ParseFindings([]byte(b.String()))
	if err != nil {
		t.Fatalf("ParseFindings() error = %v", err)
	}
	for i, f := range findings {
		want := string(rune('a' + i))
		if f.PluginID != want {
			t.Errorf("findings[%d].PluginID = %q, want %q", i, f.PluginID, want)
		}
	}
}
