package reporter

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/nesshub/internal/models"
)

// Report palette. Severity colors follow the classic Nessus scheme.
var severityColors = map[string]string{
	models.SeverityCritical: "#B90E0A",
	models.SeverityHigh:     "#D6453D",
	models.SeverityMedium:   "#F0A202",
	models.SeverityLow:      "#4DA1A9",
	models.SeverityInfo:     "#67ACE1",
}

const (
	accentColor     = "#263746"
	backgroundColor = "#efefef"
	textColor       = "#263746"
)

// pieColors cycles over wedges in the risk distribution chart.
var pieColors = []string{"#D6453D", "#F0A202", "#4DA1A9", "#67ACE1", "#B0BEC5"}

// SeverityBarChart renders the 5-entry severity histogram as a bar chart.
func SeverityBarChart(data []models.LabelCount) string {
	colors := make([]string, len(data))
	for i, lc := range data {
		color, ok := severityColors[lc.Label]
		if !ok {
			color = accentColor
		}
		colors[i] = color
	}
	return barChart(data, colors, "Findings by Severity")
}

// TopHostsChart renders the top-hosts list as horizontal bars.
func TopHostsChart(data []models.LabelCount) string {
	return horizontalBarChart(data, accentColor, "Top Hosts by Findings")
}

// TopFamiliesChart renders the top plugin families as horizontal bars.
func TopFamiliesChart(data []models.LabelCount) string {
	return horizontalBarChart(data, "#67ACE1", "Top Plugin Families")
}

// RiskFactorChart renders the risk-factor distribution as a pie chart.
func RiskFactorChart(data []models.LabelCount) string {
	total := 0
	for _, lc := range data {
		total += lc.Count
	}
	if total == 0 {
		return emptyChart("No risk factor data")
	}

	const (
		w, h   = 420.0, 420.0
		cx, cy = 210.0, 200.0
		radius = 140.0
	)

	var b strings.Builder
	svgOpen(&b, w, h)
	svgTitle(&b, w, "Risk Factor Distribution")

	angle := -math.Pi / 2 // start at 12 o'clock
	for i, lc := range data {
		if lc.Count == 0 {
			continue
		}
		frac := float64(lc.Count) / float64(total)
		next := angle + frac*2*math.Pi

		color := pieColors[i%len(pieColors)]
		if frac >= 0.99999 {
			// Single-wedge pie: a full arc degenerates, draw a circle.
			fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="white"/>`,
				cx, cy, radius, color)
		} else {
			x1, y1 := cx+radius*math.Cos(angle), cy+radius*math.Sin(angle)
			x2, y2 := cx+radius*math.Cos(next), cy+radius*math.Sin(next)
			largeArc := 0
			if frac > 0.5 {
				largeArc = 1
			}
			fmt.Fprintf(&b, `<path d="M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d 1 %.1f,%.1f Z" fill="%s" stroke="white"/>`,
				cx, cy, x1, y1, radius, radius, largeArc, x2, y2, color)
		}

		// Percentage label at the wedge midpoint.
		mid := (angle + next) / 2
		lx, ly := cx+radius*0.62*math.Cos(mid), cy+radius*0.62*math.Sin(mid)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="13" font-weight="bold" fill="white">%.0f%%</text>`,
			lx, ly, frac*100)

		angle = next
	}

	// Legend row under the pie.
	lx := 20.0
	for i, lc := range data {
		if lc.Count == 0 {
			continue
		}
		color := pieColors[i%len(pieColors)]
		fmt.Fprintf(&b, `<rect x="%.1f" y="385" width="10" height="10" fill="%s"/>`, lx, color)
		fmt.Fprintf(&b, `<text x="%.1f" y="394" font-size="11" fill="%s">%s</text>`, lx+14, textColor, escapeXML(lc.Label))
		lx += 14 + 7*float64(len(lc.Label)) + 16
	}

	b.WriteString("</svg>")
	return encodeSVG(b.String())
}

// barChart draws vertical bars with count labels above each bar.
func barChart(data []models.LabelCount, colors []string, title string) string {
	if !hasCounts(data) {
		return emptyChart("No findings available")
	}

	const (
		w, h          = 600.0, 320.0
		marginL       = 40.0
		marginBottom  = 40.0
		plotTop       = 50.0
		labelFontSize = 12
	)
	plotH := h - plotTop - marginBottom
	maxCount := maxOf(data)

	var b strings.Builder
	svgOpen(&b, w, h)
	svgTitle(&b, w, title)

	slot := (w - marginL - 20) / float64(len(data))
	barW := slot * 0.6
	for i, lc := range data {
		barH := plotH * float64(lc.Count) / float64(maxCount)
		x := marginL + float64(i)*slot + (slot-barW)/2
		y := plotTop + plotH - barH

		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			x, y, barW, barH, colors[i])
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%d" fill="%s">%d</text>`,
			x+barW/2, y-6, labelFontSize, textColor, lc.Count)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-size="%d" fill="%s">%s</text>`,
			x+barW/2, h-18, labelFontSize, textColor, escapeXML(lc.Label))
	}

	b.WriteString("</svg>")
	return encodeSVG(b.String())
}

// horizontalBarChart draws one left-to-right bar per entry, longest on top
// (the input is already sorted descending).
func horizontalBarChart(data []models.LabelCount, color, title string) string {
	if !hasCounts(data) {
		return emptyChart("No findings available")
	}

	const (
		w       = 600.0
		rowH    = 28.0
		plotTop = 50.0
		labelW  = 180.0
	)
	h := plotTop + rowH*float64(len(data)) + 20
	maxCount := maxOf(data)
	barSpace := w - labelW - 60

	var b strings.Builder
	svgOpen(&b, w, h)
	svgTitle(&b, w, title)

	for i, lc := range data {
		y := plotTop + float64(i)*rowH
		barLen := barSpace * float64(lc.Count) / float64(maxCount)

		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="end" font-size="12" fill="%s">%s</text>`,
			labelW-8, y+rowH/2+4, textColor, escapeXML(truncateLabel(lc.Label, 26)))
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			labelW, y+5, barLen, rowH-10, color)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="12" fill="%s">%d</text>`,
			labelW+barLen+6, y+rowH/2+4, textColor, lc.Count)
	}

	b.WriteString("</svg>")
	return encodeSVG(b.String())
}

// emptyChart is the placeholder shown when every count is zero.
func emptyChart(message string) string {
	var b strings.Builder
	svgOpen(&b, 600, 200)
	fmt.Fprintf(&b, `<text x="300" y="105" text-anchor="middle" font-size="16" fill="#8a9ba8">%s</text>`,
		escapeXML(message))
	b.WriteString("</svg>")
	return encodeSVG(b.String())
}

func svgOpen(b *strings.Builder, w, h float64) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`, w, h, w, h)
	fmt.Fprintf(b, `<rect width="%.0f" height="%.0f" fill="%s"/>`, w, h, backgroundColor)
}

func svgTitle(b *strings.Builder, w float64, title string) {
	fmt.Fprintf(b, `<text x="%.1f" y="28" text-anchor="middle" font-size="15" font-weight="bold" fill="%s">%s</text>`,
		w/2, textColor, escapeXML(title))
}

func encodeSVG(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

func hasCounts(data []models.LabelCount) bool {
	for _, lc := range data {
		if lc.Count > 0 {
			return true
		}
	}
	return false
}

func maxOf(data []models.LabelCount) int {
	max := 1
	for _, lc := range data {
		if lc.Count > max {
			max = lc.Count
		}
	}
	return max
}

func truncateLabel(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-1] + "…"
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
