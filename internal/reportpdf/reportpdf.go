// Package reportpdf renders a report.Report as an A4 PDF document.
package reportpdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/csheth/indicure/internal/report"
)

const (
	Title  = "IndiCure AI - Drug Repurposing Report"
	Author = "IndiCure AI"

	margin     = 14.0
	lineHeight = 5.2
)

// The core fonts only cover cp1252, so the glyphs the payload uses outside it
// are spelled out before translation.
var glyphs = strings.NewReplacer(
	"↑", "up",
	"↓", "down",
	"→", "->",
	"′", "'",
	"⁺", "+",
	"₂", "2",
	"✓", "v",
)

type writer struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

// Build renders r and returns the PDF bytes.
func Build(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("reportpdf: nil report")
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetAuthor(Author, true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	w := &writer{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: pageWidth - 2*margin,
	}

	w.title(Title)
	w.muted(r.Subtitle())
	w.pdf.Ln(4)

	w.heading("Executive Summary")
	w.paragraph(r.ExecutiveSummary)

	w.heading("Signal Dashboard")
	rows := make([][]string, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		rows = append(rows, []string{m.Name, m.Rating, m.Rationale})
	}
	w.table([]string{"Metric", "Rating", "Rationale"}, []float64{0.24, 0.16, 0.60}, rows)

	w.heading("Clinical Evidence (Key Outcomes)")
	rows = rows[:0]
	for _, o := range r.Outcomes {
		rows = append(rows, []string{o.Parameter, o.Result, o.PValue})
	}
	w.table([]string{"Parameter", "Result", "p-value"}, []float64{0.28, 0.52, 0.20}, rows)

	w.heading("Key Charts")
	w.paragraph("Figure 1. LVEDV Improvement (ml)")
	w.barChart(r.LVEDVChange)

	w.heading("Feasibility")
	w.bullets(r.Feasibility)

	w.heading("Recommendation")
	w.paragraph(r.Recommendation)

	w.heading("Conclusion")
	w.paragraph(r.Conclusion)

	w.heading("Limitations and Assumptions")
	w.bullets(r.Limitations)

	w.heading("Key References")
	w.references(r.References)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("reportpdf: render: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("reportpdf: output: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *writer) text(s string) string {
	return w.tr(glyphs.Replace(s))
}

func (w *writer) title(s string) {
	w.pdf.SetFont("Helvetica", "B", 18)
	w.pdf.SetTextColor(20, 20, 20)
	w.pdf.MultiCell(w.width, 9, w.text(s), "", "L", false)
}

func (w *writer) muted(s string) {
	w.pdf.SetFont("Helvetica", "", 9)
	w.pdf.SetTextColor(85, 85, 85)
	w.pdf.MultiCell(w.width, 4.5, w.text(s), "", "L", false)
	w.pdf.SetTextColor(20, 20, 20)
}

func (w *writer) heading(s string) {
	w.pdf.Ln(3)
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.MultiCell(w.width, 8, w.text(s), "", "L", false)
	w.pdf.Ln(1)
}

func (w *writer) paragraph(s string) {
	w.pdf.SetFont("Helvetica", "", 10.5)
	w.pdf.MultiCell(w.width, lineHeight, w.text(s), "", "L", false)
	w.pdf.Ln(2)
}

func (w *writer) bullets(items []string) {
	w.pdf.SetFont("Helvetica", "", 10.5)
	indent := 5.0
	for _, item := range items {
		left := w.pdf.GetX()
		w.pdf.CellFormat(indent, lineHeight, w.text("•"), "", 0, "L", false, 0, "")
		w.pdf.MultiCell(w.width-indent, lineHeight, w.text(item), "", "L", false)
		w.pdf.SetX(left)
	}
	w.pdf.Ln(2)
}

func (w *writer) references(refs []report.Reference) {
	if len(refs) == 0 {
		w.paragraph("No references available.")
		return
	}
	w.pdf.SetFont("Helvetica", "", 10.5)
	for _, ref := range refs {
		w.pdf.SetTextColor(0, 0, 200)
		w.pdf.WriteLinkString(lineHeight+0.8, w.text("• "+ref.Title), ref.URL)
		w.pdf.Ln(lineHeight + 0.8)
	}
	w.pdf.SetTextColor(20, 20, 20)
}

// table draws a grid with wrapped cells. fractions split the usable width.
func (w *writer) table(headers []string, fractions []float64, rows [][]string) {
	widths := make([]float64, len(fractions))
	for i, f := range fractions {
		widths[i] = f * w.width
	}
	w.pdf.SetFont("Helvetica", "B", 9.5)
	w.pdf.SetFillColor(230, 230, 230)
	w.row(headers, widths, true)
	w.pdf.SetFont("Helvetica", "", 9.5)
	for _, cells := range rows {
		w.row(cells, widths, false)
	}
	w.pdf.Ln(3)
}

func (w *writer) row(cells []string, widths []float64, fill bool) {
	const cellLine = 4.6
	const pad = 1.5

	lines := 1
	wrapped := make([]string, len(cells))
	for i, cell := range cells {
		wrapped[i] = w.text(cell)
		n := len(w.pdf.SplitLines([]byte(wrapped[i]), widths[i]-2*pad))
		if n > lines {
			lines = n
		}
	}
	height := float64(lines)*cellLine + 2*pad

	_, pageHeight := w.pdf.GetPageSize()
	if w.pdf.GetY()+height > pageHeight-margin {
		w.pdf.AddPage()
	}

	x, y := w.pdf.GetXY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i, cell := range wrapped {
		w.pdf.SetDrawColor(128, 128, 128)
		w.pdf.Rect(x, y, widths[i], height, style)
		w.pdf.SetXY(x+pad, y+pad)
		w.pdf.MultiCell(widths[i]-2*pad, cellLine, cell, "", "L", false)
		x += widths[i]
	}
	w.pdf.SetXY(margin, y+height)
}

func (w *writer) barChart(bars []report.ChartBar) {
	if len(bars) == 0 {
		return
	}
	const chartHeight = 45.0
	const barWidth = 30.0

	peak := 0.0
	for _, b := range bars {
		if b.Value > peak {
			peak = b.Value
		}
	}
	if peak == 0 {
		peak = 1
	}
	scale := chartHeight / (peak * 1.25)

	_, pageHeight := w.pdf.GetPageSize()
	if w.pdf.GetY()+chartHeight+12 > pageHeight-margin {
		w.pdf.AddPage()
	}
	left, top := w.pdf.GetXY()
	base := top + chartHeight

	w.pdf.SetDrawColor(90, 90, 90)
	w.pdf.Line(left, base, left+w.width*0.7, base)
	w.pdf.SetFillColor(31, 119, 180)
	w.pdf.SetFont("Helvetica", "", 9)
	gap := (w.width*0.7 - float64(len(bars))*barWidth) / float64(len(bars)+1)
	x := left + gap
	for _, b := range bars {
		h := b.Value * scale
		if h > 0 {
			w.pdf.Rect(x, base-h, barWidth, h, "F")
		}
		w.pdf.SetXY(x, base-h-5)
		w.pdf.CellFormat(barWidth, 5, fmt.Sprintf("%.2f", b.Value), "", 0, "C", false, 0, "")
		w.pdf.SetXY(x, base+1)
		w.pdf.CellFormat(barWidth, 5, w.text(b.Label), "", 0, "C", false, 0, "")
		x += barWidth + gap
	}
	w.pdf.SetXY(left, base+8)
}
