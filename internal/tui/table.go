package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/nesshub/internal/models"
)

var tableColumns = []table.Column{
	{Title: "Severity", Width: 9},
	{Title: "Host", Width: 24},
	{Title: "Port", Width: 10},
	{Title: "Plugin", Width: 38},
	{Title: "Family", Width: 18},
	{Title: "CVSS", Width: 5},
}

// buildRows converts findings to table rows.
func buildRows(findings []models.FindingRecord) []table.Row {
	rows := make([]table.Row, 0, len(findings))
	for i := range findings {
		f := &findings[i]
		rows = append(rows, table.Row{
			f.SeverityLabel,
			truncate(f.Host, tableColumns[1].Width),
			f.Port,
			truncate(f.PluginName, tableColumns[3].Width),
			truncate(f.PluginFamily, tableColumns[4].Width),
			formatCVSS(f.CVSSBase),
		})
	}
	return rows
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return s[:maxLen]
	}
	return s[:maxLen-len(ellipsis)] + ellipsis
}

// newTable creates a bubbles table with standard columns and styling.
func newTable(rows []table.Row, height int) table.Model {
	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorAccent).
		Bold(false)
	t.SetStyles(s)

	return t
}
