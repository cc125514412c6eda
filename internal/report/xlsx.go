package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"paintpro/internal/model"
)

// XLSXFileName builds the download name, e.g. "PaintPro_11.06.2025.xlsx".
func XLSXFileName(now time.Time) string {
	return fmt.Sprintf("PaintPro_%s.xlsx", now.Format("02.01.2006"))
}

// BuildXLSX returns an XLSX workbook (as bytes) holding the full ledger.
func BuildXLSX(jobs []model.Job) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Zakázky"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Datum",
		"Druh",
		"Klient",
		"Číslo zakázky",
		"Částka",
		"Fee",
		"Fee OFF",
		"Materiál",
		"Pomocník",
		"Palivo",
		"Zisk",
		"Adresa",
		"Telefon",
		"Stav",
		"Poznámky",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, j := range jobs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, j.Date.String())
		write(2, string(j.Category))
		write(3, j.Client)
		write(4, j.JobNumber)
		write(5, decimalCell(j.Price))
		write(6, decimalCell(j.Fee))
		write(7, decimalCell(j.FeeOff))
		write(8, decimalCell(j.MaterialCost))
		write(9, decimalCell(j.HelperCost))
		write(10, decimalCell(j.FuelCost))
		write(11, decimalCell(j.Profit))

		status := j.Status
		if status == "" {
			status = model.JobStatusIncoming
		}
		write(12, j.Address)
		write(13, j.Telephone)
		write(14, string(status))
		write(15, j.Notes)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14) // date
	_ = f.SetColWidth(sheet, "B", "B", 12) // category
	_ = f.SetColWidth(sheet, "C", "C", 28) // client
	_ = f.SetColWidth(sheet, "D", "D", 16) // job number
	_ = f.SetColWidth(sheet, "E", "K", 12) // money columns
	_ = f.SetColWidth(sheet, "L", "L", 36) // address
	_ = f.SetColWidth(sheet, "M", "M", 16) // telephone
	_ = f.SetColWidth(sheet, "O", "O", 48) // notes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// decimalCell stores money as a plain number so Excel can sum the column.
func decimalCell(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
