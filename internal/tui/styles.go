package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ppiankov/nesshub/internal/models"
)

// Severity colors, matching the report palette.
var (
	colorCritical = lipgloss.Color("#B90E0A")
	colorHigh     = lipgloss.Color("#D6453D")
	colorMedium   = lipgloss.Color("#F0A202")
	colorLow      = lipgloss.Color("#4DA1A9")
	colorInfo     = lipgloss.Color("#67ACE1")
	colorMuted    = lipgloss.Color("#888888")
	colorAccent   = lipgloss.Color("#4DA1A9")
	colorBorder   = lipgloss.Color("#444444")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)
)

// severityStyle returns the lipgloss style for a severity label.
func severityStyle(label string) lipgloss.Style {
	switch label {
	case models.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case models.SeverityHigh:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case models.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	case models.SeverityLow:
		return lipgloss.NewStyle().Foreground(colorLow)
	case models.SeverityInfo:
		return lipgloss.NewStyle().Foreground(colorInfo)
	default:
		return lipgloss.NewStyle()
	}
}
