package tui

import (
	"fmt"
	"strings"

	"github.com/ppiankov/nesshub/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 6

// renderDetail produces the detail view for a selected finding.
func renderDetail(f *models.FindingRecord, width int) string {
	if f == nil {
		return styleDetailPanel.Width(width).Render("No finding selected")
	}

	var b strings.Builder

	sevStyled := severityStyle(f.SeverityLabel).Render(strings.ToUpper(f.SeverityLabel))
	b.WriteString(fmt.Sprintf("%s  %s (plugin %s)\n", sevStyled, f.PluginName, f.PluginID))

	location := f.Host
	if f.Port != "" {
		location += ":" + f.Port
	}
	b.WriteString(fmt.Sprintf("Host: %s  Family: %s", location, f.PluginFamily))
	if f.CVSSBase != nil {
		b.WriteString(fmt.Sprintf("  CVSS: %s", formatCVSS(f.CVSSBase)))
	}
	b.WriteString("\n")

	if len(f.CVEs) > 0 {
		b.WriteString("CVEs: " + strings.Join(f.CVEs, ", ") + "\n")
	}
	if f.Description != "" {
		b.WriteString(firstLine(f.Description, 160))
	}

	return styleDetailPanel.Width(width).Render(b.String())
}

// firstLine collapses multi-line text to one truncated line.
func firstLine(s string, limit int) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if len(s) > limit {
		s = s[:limit-3] + "..."
	}
	return s
}
