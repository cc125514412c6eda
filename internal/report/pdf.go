// Package report renders the exportable documents: the five-section
// landscape PDF report and the full XLSX dump of the ledger.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"paintpro/internal/calendar"
	"paintpro/internal/model"
)

// Sections are the five report views, one landscape page each, in the fixed
// order the app's tabs render them.
var Sections = [5]string{"Dashboard", "Zakázky", "Kalendář", "Reporty", "Nastavení"}

// ExportData is everything the PDF needs; the exporter consumes the already
// loaded data and never talks to the gateway itself.
type ExportData struct {
	Profile     model.PublicProfile
	Jobs        []model.Job
	Projection  calendar.Projection
	GeneratedAt time.Time
}

// FileName builds the download name, e.g. "PaintPro_11.06.2025.pdf".
func FileName(now time.Time) string {
	return fmt.Sprintf("PaintPro_%s.pdf", now.Format("02.01.2006"))
}

// BuildPDF renders the five-section report as one landscape page per section.
func BuildPDF(data ExportData) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	// Core fonts are cp1252; Czech labels need the cp1250 translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1250")
	pdf.SetAutoPageBreak(true, 15)

	for i, section := range Sections {
		pdf.AddPage()
		pageHeader(pdf, tr, section, data.GeneratedAt)
		switch i {
		case 0:
			dashboardPage(pdf, tr, data.Jobs)
		case 1:
			jobsPage(pdf, tr, data.Jobs)
		case 2:
			calendarPage(pdf, tr, data.Projection)
		case 3:
			reportsPage(pdf, tr, data.Jobs)
		case 4:
			settingsPage(pdf, tr, data.Profile, len(data.Jobs))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pageHeader(pdf *fpdf.Fpdf, tr func(string) string, title string, generated time.Time) {
	pdf.SetFillColor(31, 31, 83)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 14, tr("PaintPro — "+title), "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 130)
	pdf.CellFormat(0, 6, tr("Export: "+generated.Format("02.01.2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)
}

func dashboardPage(pdf *fpdf.Fpdf, tr func(string) string, jobs []model.Job) {
	var revenue, profit decimal.Decimal
	perCategory := map[model.Category]decimal.Decimal{}
	for _, j := range jobs {
		revenue = revenue.Add(j.Price)
		profit = profit.Add(j.Profit)
		perCategory[j.Category] = perCategory[j.Category].Add(j.Profit)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Přehled"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Počet zakázek: %d", len(jobs))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Celkové tržby: "+money(revenue)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Celkový zisk: "+money(profit)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Zisk podle kategorie"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, cat := range model.Categories() {
		pdf.CellFormat(0, 7, tr(fmt.Sprintf("%s: %s", cat, money(perCategory[cat]))), "", 1, "L", false, 0, "")
	}
}

func jobsPage(pdf *fpdf.Fpdf, tr func(string) string, jobs []model.Job) {
	headers := []string{"Datum", "Klient", "Druh", "Číslo", "Částka", "Zisk"}
	widths := []float64{30, 70, 35, 35, 45, 45}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, j := range jobs {
		cells := []string{
			j.Date.String(),
			j.Client,
			string(j.Category),
			j.JobNumber,
			money(j.Price),
			money(j.Profit),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func calendarPage(pdf *fpdf.Fpdf, tr func(string) string, projection calendar.Projection) {
	s := projection.Summary
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Příchozí zakázky: %d", s.IncomingCount)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Celková hodnota příchozích: "+money(s.TotalIncoming)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Realizováno celkem: "+money(s.TotalCompleted)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("Události"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, e := range projection.Events {
		line := fmt.Sprintf("%s – %s  %s  %s", e.Start, e.End, e.Client, money(e.Price))
		if e.Status == model.JobStatusCompleted {
			line += tr("  (realizováno)")
		}
		pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
}

func reportsPage(pdf *fpdf.Fpdf, tr func(string) string, jobs []model.Job) {
	type rollup struct {
		count   int
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	perCategory := map[model.Category]*rollup{}
	for _, cat := range model.Categories() {
		perCategory[cat] = &rollup{}
	}
	for _, j := range jobs {
		r, ok := perCategory[j.Category]
		if !ok {
			r = &rollup{}
			perCategory[j.Category] = r
		}
		r.count++
		r.revenue = r.revenue.Add(j.Price)
		r.profit = r.profit.Add(j.Profit)
	}

	headers := []string{"Kategorie", "Zakázek", "Tržby", "Zisk"}
	widths := []float64{60, 40, 60, 60}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, cat := range model.Categories() {
		r := perCategory[cat]
		cells := []string{string(cat), fmt.Sprintf("%d", r.count), money(r.revenue), money(r.profit)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func settingsPage(pdf *fpdf.Fpdf, tr func(string) string, profile model.PublicProfile, jobCount int) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Profil: "+profile.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Avatar: "+profile.Avatar), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Barva: "+profile.Color), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Zakázek celkem: %d", jobCount)), "", 1, "L", false, 0, "")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(0) + " Kč"
}
