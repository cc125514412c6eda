package calendar

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"paintpro/internal/model"
)

func calendarJob(id int64, price int64, status model.JobStatus) model.Job {
	date, _ := model.ParseCzechDate("10. 7. 2025")
	return model.Job{
		ID:             id,
		OwnerProfileID: 1,
		Date:           date,
		Category:       model.CategoryOther,
		Client:         "Novák",
		JobNumber:      "CAL-1751875200000",
		Price:          decimal.NewFromInt(price),
		Status:         status,
		CalendarOrigin: true,
	}
}

func ledgerJob(id int64, price int64) model.Job {
	date, _ := model.ParseCzechDate("5. 6. 2025")
	return model.Job{
		ID:             id,
		OwnerProfileID: 1,
		Date:           date,
		Category:       model.CategoryAdam,
		Client:         "XY",
		JobNumber:      "95105",
		Price:          decimal.NewFromInt(price),
	}
}

func TestProject_SummaryCountsOnlyCalendarJobs(t *testing.T) {
	jobs := []model.Job{
		ledgerJob(1, 11800),
		calendarJob(2, 5000, model.JobStatusIncoming),
		calendarJob(3, 7000, model.JobStatusCompleted),
		calendarJob(4, 2000, ""),
	}

	projection := Project(jobs)

	// Every job becomes an event, ledger ones included.
	assert.Len(t, projection.Events, 4)

	s := projection.Summary
	assert.Equal(t, 3, s.TotalCalendarJobs)
	assert.Equal(t, 2, s.IncomingCount)
	assert.True(t, s.TotalIncoming.Equal(decimal.NewFromInt(7000)), "incoming: %s", s.TotalIncoming)
	assert.True(t, s.TotalCompleted.Equal(decimal.NewFromInt(7000)), "completed: %s", s.TotalCompleted)
}

func TestProject_StatusFlipMovesPriceBetweenTotals(t *testing.T) {
	job := calendarJob(2, 5000, model.JobStatusIncoming)

	before := Project([]model.Job{job}).Summary
	assert.Equal(t, 1, before.IncomingCount)
	assert.True(t, before.TotalIncoming.Equal(decimal.NewFromInt(5000)))
	assert.True(t, before.TotalCompleted.IsZero())

	job.Status = model.JobStatusCompleted
	after := Project([]model.Job{job}).Summary
	assert.Equal(t, 0, after.IncomingCount)
	assert.True(t, after.TotalIncoming.IsZero())
	assert.True(t, after.TotalCompleted.Equal(decimal.NewFromInt(5000)))
}

func TestProject_OrderIndependentTotals(t *testing.T) {
	jobs := []model.Job{
		calendarJob(1, 1000, model.JobStatusIncoming),
		calendarJob(2, 2000, model.JobStatusCompleted),
		calendarJob(3, 3000, model.JobStatusIncoming),
	}
	reversed := []model.Job{jobs[2], jobs[1], jobs[0]}

	a := Project(jobs).Summary
	b := Project(reversed).Summary
	assert.Equal(t, a.IncomingCount, b.IncomingCount)
	assert.True(t, a.TotalIncoming.Equal(b.TotalIncoming))
	assert.True(t, a.TotalCompleted.Equal(b.TotalCompleted))
}

func TestProject_Idempotent(t *testing.T) {
	jobs := []model.Job{
		ledgerJob(1, 11800),
		calendarJob(2, 5000, model.JobStatusIncoming),
	}

	first := Project(jobs)
	second := Project(jobs)
	assert.Equal(t, first, second)
}

func TestProject_LegacyAddressSplit(t *testing.T) {
	job := calendarJob(2, 5000, model.JobStatusIncoming)
	job.Address = "Main St 1 | Tel: 555-1234"

	event := Project([]model.Job{job}).Events[0]
	assert.Equal(t, "Main St 1", event.Address)
	assert.Equal(t, "555-1234", event.Telephone)

	// A first-class telephone wins over the legacy encoding.
	job.Telephone = "777-0000"
	event = Project([]model.Job{job}).Events[0]
	assert.Equal(t, "Main St 1 | Tel: 555-1234", event.Address)
	assert.Equal(t, "777-0000", event.Telephone)
}

func TestProject_Defaults(t *testing.T) {
	job := ledgerJob(1, 11800)

	event := Project([]model.Job{job}).Events[0]
	assert.Equal(t, model.JobStatusIncoming, event.Status)
	assert.False(t, event.CalendarOrigin)
	// Single-day jobs span exactly their start date.
	assert.Equal(t, event.Start, event.End)
	assert.NotEmpty(t, event.Color)
}

func TestColorFor_StableUnderReordering(t *testing.T) {
	job := ledgerJob(42, 1000)

	alone := Project([]model.Job{job}).Events[0].Color
	crowded := Project([]model.Job{ledgerJob(1, 1), ledgerJob(7, 2), job}).Events[2].Color
	assert.Equal(t, alone, crowded)

	// A stored color always wins.
	job.Color = "#123456"
	assert.Equal(t, "#123456", Project([]model.Job{job}).Events[0].Color)
}
