package reporter

import (
	"bytes"
	"fmt"
	"strings"

	gofpdf "github.com/go-pdf/fpdf"
	"github.com/ppiankov/nesshub/internal/models"
)

// pdfSeverityColors is the severity palette as RGB triples.
var pdfSeverityColors = map[string][]int{
	models.SeverityCritical: {185, 14, 10},
	models.SeverityHigh:     {214, 69, 61},
	models.SeverityMedium:   {240, 162, 2},
	models.SeverityLow:      {77, 161, 169},
	models.SeverityInfo:     {103, 172, 225},
}

// accentRGB is the dark slate used for headers and labels.
var accentRGB = []int{38, 55, 70}

// RenderPDF builds the paginated report document: cover, summary,
// severity distribution, top tables, host breakdown, and one detail
// block per finding.
func RenderPDF(details *models.ReportDetails) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)

	addCover(pdf, details)
	addSummaryCards(pdf, details)
	addSeverityDistribution(pdf, details.Aggregates.SeverityCounts)
	addTopTable(pdf, "Top Hosts by Findings", details.Aggregates.TopHosts)
	addTopTable(pdf, "Top Plugin Families", details.Aggregates.TopFamilies)
	addHostBreakdown(pdf, details.HostSummaries)
	addFindingDetails(pdf, details.Findings)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func addCover(pdf *gofpdf.Fpdf, details *models.ReportDetails) {
	pdf.AddPage()

	pdf.SetFillColor(accentRGB[0], accentRGB[1], accentRGB[2])
	pdf.Rect(0, 0, 210, 70, "F")

	pdf.SetY(24)
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(0, 12, details.Metadata.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(184, 196, 205)
	if details.Metadata.Customer != "" {
		pdf.CellFormat(0, 8, "Prepared for "+details.Metadata.Customer, "", 1, "C", false, 0, "")
	}
	line := "Generated " + details.GeneratedAt.Format("2006-01-02 15:04 MST")
	if details.Metadata.ScanDate != "" {
		line = "Scan date " + details.Metadata.ScanDate + "  |  " + line
	}
	pdf.CellFormat(0, 8, line, "", 1, "C", false, 0, "")

	pdf.SetY(82)
}

func addSummaryCards(pdf *gofpdf.Fpdf, details *models.ReportDetails) {
	agg := details.Aggregates
	avg := "n/a"
	if agg.AverageCVSS != nil {
		avg = fmt.Sprintf("%.2f", *agg.AverageCVSS)
	}
	critical := 0
	for _, lc := range agg.SeverityCounts {
		if lc.Label == models.SeverityCritical {
			critical = lc.Count
		}
	}

	cards := []struct {
		value string
		label string
	}{
		{fmt.Sprintf("%d", agg.TotalFindings), "Findings"},
		{fmt.Sprintf("%d", agg.AffectedHosts), "Affected Hosts"},
		{fmt.Sprintf("%d", critical), "Critical"},
		{avg, "Avg CVSS"},
	}

	cardW := 42.0
	gap := 4.0
	x := (210 - cardW*float64(len(cards)) - gap*float64(len(cards)-1)) / 2
	y := pdf.GetY()

	for i, card := range cards {
		cx := x + float64(i)*(cardW+gap)
		pdf.SetFillColor(245, 247, 248)
		pdf.Rect(cx, y, cardW, 22, "F")

		pdf.SetXY(cx, y+3)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(accentRGB[0], accentRGB[1], accentRGB[2])
		pdf.CellFormat(cardW, 9, card.value, "", 0, "C", false, 0, "")

		pdf.SetXY(cx, y+12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(93, 111, 125)
		pdf.CellFormat(cardW, 6, strings.ToUpper(card.label), "", 0, "C", false, 0, "")
	}

	pdf.SetY(y + 30)
}

// addSeverityDistribution draws a labeled horizontal bar per severity.
func addSeverityDistribution(pdf *gofpdf.Fpdf, counts []models.LabelCount) {
	addSectionHeader(pdf, "Severity Distribution")

	max := 1
	for _, lc := range counts {
		if lc.Count > max {
			max = lc.Count
		}
	}

	barSpace := 120.0
	for _, lc := range counts {
		color := pdfSeverityColors[lc.Label]
		if color == nil {
			color = accentRGB
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.CellFormat(26, 8, lc.Label, "", 0, "L", false, 0, "")

		barLen := barSpace * float64(lc.Count) / float64(max)
		y := pdf.GetY()
		pdf.SetFillColor(color[0], color[1], color[2])
		if barLen > 0.5 {
			pdf.Rect(38, y+1.5, barLen, 5, "F")
		}

		pdf.SetXY(38+barLen+2, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", lc.Count), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addTopTable(pdf *gofpdf.Fpdf, title string, entries []models.LabelCount) {
	if len(entries) == 0 {
		return
	}
	ensureRoom(pdf, 16+7*float64(len(entries)))
	addSectionHeader(pdf, title)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(accentRGB[0], accentRGB[1], accentRGB[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(130, 7, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Findings", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for i, lc := range entries {
		if i%2 == 0 {
			pdf.SetFillColor(247, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(130, 7, truncateLabel(lc.Label, 70), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", lc.Count), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(6)
}

func addHostBreakdown(pdf *gofpdf.Fpdf, summaries []models.HostSeveritySummary) {
	if len(summaries) == 0 {
		return
	}
	ensureRoom(pdf, 16+6*float64(min(len(summaries), 10)))
	addSectionHeader(pdf, "Host Severity Breakdown")

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(accentRGB[0], accentRGB[1], accentRGB[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(52, 7, "Host", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "IP", "1", 0, "L", true, 0, "")
	for _, label := range models.SeverityOrder {
		pdf.CellFormat(17, 7, label, "1", 0, "C", true, 0, "")
	}
	pdf.CellFormat(17, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for i, row := range summaries {
		if i%2 == 0 {
			pdf.SetFillColor(247, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		ip := row.IPAddress
		if ip == "" {
			ip = "-"
		}
		pdf.SetTextColor(60, 60, 60)
		pdf.CellFormat(52, 6, truncateLabel(row.Host, 32), "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 6, ip, "1", 0, "L", true, 0, "")
		for _, label := range models.SeverityOrder {
			pdf.CellFormat(17, 6, fmt.Sprintf("%d", row.SeverityTotals[label]), "1", 0, "C", true, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(17, 6, fmt.Sprintf("%d", row.TotalFindings), "1", 1, "C", true, 0, "")
		pdf.SetFont("Helvetica", "", 8)
	}
	pdf.Ln(6)
}

// addFindingDetails renders one block per finding, most severe first
// (the finding list is already sorted).
func addFindingDetails(pdf *gofpdf.Fpdf, findings []models.FindingRecord) {
	pdf.AddPage()
	addSectionHeader(pdf, "Finding Details")

	for i := range findings {
		f := &findings[i]

		// Each block needs roughly 30mm; break early instead of splitting
		// the block header from its body.
		ensureRoom(pdf, 30)

		color := pdfSeverityColors[f.SeverityLabel]
		if color == nil {
			color = accentRGB
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.CellFormat(24, 7, strings.ToUpper(f.SeverityLabel), "", 0, "L", false, 0, "")

		pdf.SetTextColor(accentRGB[0], accentRGB[1], accentRGB[2])
		pdf.CellFormat(0, 7, fmt.Sprintf("%s (plugin %s)", f.PluginName, f.PluginID), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(93, 111, 125)
		location := f.Host
		if f.Port != "" {
			location += " : " + f.Port
		}
		meta := location + "  |  " + f.PluginFamily
		if f.CVSSBase != nil {
			meta += fmt.Sprintf("  |  CVSS %.1f", *f.CVSSBase)
		}
		if len(f.CVEs) > 0 {
			meta += "  |  " + strings.Join(f.CVEs, ", ")
		}
		pdf.MultiCell(0, 5, meta, "", "L", false)

		if f.Description != "" {
			pdf.SetTextColor(80, 80, 80)
			pdf.MultiCell(0, 4.5, truncateLabel(f.Description, 600), "", "L", false)
		}
		if f.Solution != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(22, 101, 116)
			pdf.MultiCell(0, 4.5, "Solution: "+truncateLabel(f.Solution, 400), "", "L", false)
		}

		pdf.Ln(3)
	}
}

func addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(accentRGB[0], accentRGB[1], accentRGB[2])
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// ensureRoom starts a new page when less than need millimeters remain.
func ensureRoom(pdf *gofpdf.Fpdf, need float64) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+need > pageH-20 {
		pdf.AddPage()
	}
}
