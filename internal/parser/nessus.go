// Package parser decodes Nessus XML exports and normalizes their
// irregular, list-or-scalar structure into flat finding records.
package parser

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/ppiankov/nesshub/internal/models"
)

// Defaults applied when a report item omits a required field.
const (
	defaultPluginID     = "0"
	defaultPluginName   = "Unnamed Plugin"
	defaultPluginFamily = "Uncategorized"
	defaultHostName     = "Unknown Host"
)

// clientData mirrors the NessusClientData_v2 document shell. Fields the
// schema declares multi-valued decode into slices whether the export
// carries one element or many; an absent element decodes to nil, so every
// consumer iterates nil-safely.
type clientData struct {
	XMLName xml.Name    `xml:"NessusClientData_v2"`
	Report  *reportNode `xml:"Report"`
}

type reportNode struct {
	Hosts []reportHost `xml:"ReportHost"`
}

type reportHost struct {
	Name       string         `xml:"name,attr"`
	Properties hostProperties `xml:"HostProperties"`
	Items      []reportItem   `xml:"ReportItem"`
}

type hostProperties struct {
	Tags []propertyTag `xml:"tag"`
}

// propertyTag carries its value either as inline text or a value attribute.
type propertyTag struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

type reportItem struct {
	Severity     string   `xml:"severity,attr"`
	PluginID     string   `xml:"pluginID,attr"`
	PluginName   string   `xml:"pluginName,attr"`
	PluginFamily string   `xml:"pluginFamily,attr"`
	Port         string   `xml:"port,attr"`
	Protocol     string   `xml:"protocol,attr"`
	SvcName      string   `xml:"svc_name,attr"`
	RiskFactor   string   `xml:"risk_factor"`
	CVEs         []string `xml:"cve"`
	CVSSBase     string   `xml:"cvss_base_score"`
	CVSS3Base    string   `xml:"cvss3_base_score"`
	Description  string   `xml:"description"`
	Solution     string   `xml:"solution"`
	PluginOutput string   `xml:"plugin_output"`
}

// ParseFindings decodes a Nessus export and returns one finding record per
// report item, in document order. Structural failures (empty input,
// malformed XML, missing Report nesting) short-circuit before any per-host
// work; per-field anomalies never fail.
func ParseFindings(xmlBytes []byte) ([]models.FindingRecord, error) {
	if len(bytes.TrimSpace(xmlBytes)) == 0 {
		return nil, &models.InvalidFileError{Reason: "The uploaded file is empty."}
	}

	var doc clientData
	if err := xml.Unmarshal(xmlBytes, &doc); err != nil {
		return nil, &models.InvalidFileError{Reason: "Unable to parse Nessus XML."}
	}
	if doc.Report == nil {
		return nil, &models.InvalidFileError{Reason: "The file is not a valid Nessus export."}
	}

	var findings []models.FindingRecord
	for _, host := range doc.Report.Hosts {
		props := extractHostProperties(host)
		display, hostname, ip := resolveHostIdentity(host, props)

		for _, item := range host.Items {
			findings = append(findings, normalizeFinding(item, display, hostname, ip))
		}
	}

	return findings, nil
}

// extractHostProperties flattens the HostProperties tag collection into a
// name-to-value map. Tags without a name are skipped. A tag that is present
// but empty is stored as "", distinguished from an absent property.
func extractHostProperties(host reportHost) map[string]string {
	props := make(map[string]string, len(host.Properties.Tags))
	for _, tag := range host.Properties.Tags {
		if tag.Name == "" {
			continue
		}
		value := strings.TrimSpace(tag.Text)
		if value == "" {
			value = tag.Value
		}
		props[tag.Name] = value
	}
	return props
}

// resolveHostIdentity picks the host's display name, hostname, and IP from
// its property table. Display name prefers the fqdn, then the host-name
// property, then the raw ReportHost name attribute, then a literal fallback.
func resolveHostIdentity(host reportHost, props map[string]string) (display, hostname, ip string) {
	hostname = props["host-name"]
	ip = props["host-ip"]

	display = props["host-fqdn"]
	if display == "" {
		display = hostname
	}
	if display == "" {
		display = host.Name
	}
	if display == "" {
		display = defaultHostName
	}
	return display, hostname, ip
}

// normalizeFinding maps one raw report item plus its owning host's resolved
// identity into exactly one finding record. It never fails: every field has
// a defined default.
func normalizeFinding(item reportItem, display, hostname, ip string) models.FindingRecord {
	severity := toInt(item.Severity, 0)

	pluginID := strings.TrimSpace(item.PluginID)
	if pluginID == "" {
		pluginID = defaultPluginID
	}
	pluginName := strings.TrimSpace(item.PluginName)
	if pluginName == "" {
		pluginName = defaultPluginName
	}
	pluginFamily := strings.TrimSpace(item.PluginFamily)
	if pluginFamily == "" {
		pluginFamily = defaultPluginFamily
	}

	// Prefer the CVSSv3 base score, fall back to v2, else absent.
	cvss := toFloat(item.CVSS3Base)
	if cvss == nil {
		cvss = toFloat(item.CVSSBase)
	}

	return models.FindingRecord{
		Host:          display,
		Hostname:      hostname,
		IPAddress:     ip,
		Port:          extractPort(item),
		Protocol:      item.Protocol,
		PluginID:      pluginID,
		PluginName:    pluginName,
		PluginFamily:  pluginFamily,
		Severity:      severity,
		SeverityLabel: models.SeverityLabelFor(severity),
		RiskFactor:    normalizeRiskFactor(item.RiskFactor),
		CVSSBase:      cvss,
		CVEs:          cleanCVEs(item.CVEs),
		Description:   normalizeText(item.Description),
		Solution:      normalizeText(item.Solution),
		PluginOutput:  normalizeText(item.PluginOutput),
	}
}

// extractPort composes the port/service display string. Port "0" means
// "host-level finding, no specific port" and yields an empty string.
func extractPort(item reportItem) string {
	port := strings.TrimSpace(item.Port)
	if port == "" || port == "0" {
		return ""
	}
	if svc := strings.TrimSpace(item.SvcName); svc != "" {
		return port + "/" + svc
	}
	return port
}
