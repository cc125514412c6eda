package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"paintpro/internal/calendar"
	"paintpro/internal/model"
)

func exportJobs() []model.Job {
	date, _ := model.ParseCzechDate("5. 6. 2025")
	job := model.Job{
		ID:             3,
		OwnerProfileID: 1,
		Date:           date,
		Category:       model.CategoryAdam,
		Client:         "XY",
		JobNumber:      "95105",
		Price:          decimal.NewFromInt(11800),
		Fee:            decimal.NewFromInt(2964),
		MaterialCost:   decimal.NewFromInt(700),
		HelperCost:     decimal.NewFromInt(2000),
		FuelCost:       decimal.NewFromInt(300),
		Telephone:      "555-1234",
	}
	job.RecomputeProfit()
	return []model.Job{job}
}

func TestFileNames(t *testing.T) {
	now := time.Date(2025, time.June, 11, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "PaintPro_11.06.2025.pdf", FileName(now))
	assert.Equal(t, "PaintPro_11.06.2025.xlsx", XLSXFileName(now))
}

func TestBuildPDF(t *testing.T) {
	jobs := exportJobs()
	data := ExportData{
		Profile:     model.DefaultProfile().Public(),
		Jobs:        jobs,
		Projection:  calendar.Project(jobs),
		GeneratedAt: time.Date(2025, time.June, 11, 15, 0, 0, 0, time.UTC),
	}

	pdfBytes, err := BuildPDF(data)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
	assert.Greater(t, len(pdfBytes), 1000)
}

func TestBuildXLSX(t *testing.T) {
	xlsxBytes, err := BuildXLSX(exportJobs())
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(xlsxBytes))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Zakázky")
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Datum", rows[0][0])

	assert.Equal(t, "5. 6. 2025", rows[1][0])
	assert.Equal(t, "Adam", rows[1][1])
	assert.Equal(t, "XY", rows[1][2])
	assert.Equal(t, "95105", rows[1][3])
	assert.Equal(t, "11800", rows[1][4])
	assert.Equal(t, "5836", rows[1][10])
}
