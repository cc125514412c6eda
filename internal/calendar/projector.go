// Package calendar projects the job ledger into calendar-displayable events
// and the financial rollups shown above the calendar. Projection is a pure
// transformation: it is re-derived from scratch on every change and persists
// nothing.
package calendar

import (
	"hash/fnv"
	"strconv"

	"github.com/shopspring/decimal"

	"paintpro/internal/model"
)

// palette is the fixed color cycle for events without a stored color.
var palette = [...]string{
	"#4F46E5", "#EF4444", "#10B981", "#F59E0B", "#8B5CF6",
	"#06B6D4", "#84CC16", "#F97316", "#EC4899", "#6366F1",
	"#14B8A6", "#F59E0B", "#8B5CF6", "#3B82F6", "#10B981",
}

// Event is one calendar entry derived from a job.
type Event struct {
	JobID          int64           `json:"jobId"`
	Title          string          `json:"title"`
	Start          model.CzechDate `json:"start"`
	End            model.CzechDate `json:"end"`
	Client         string          `json:"client"`
	Address        string          `json:"address"`
	Telephone      string          `json:"telephone"`
	Price          decimal.Decimal `json:"price"`
	Color          string          `json:"color"`
	Status         model.JobStatus `json:"status"`
	CalendarOrigin bool            `json:"calendarOrigin"`
}

// Summary is the financial rollup over calendar-origin events only.
type Summary struct {
	IncomingCount     int             `json:"incomingCount"`
	TotalIncoming     decimal.Decimal `json:"totalIncoming"`
	TotalCompleted    decimal.Decimal `json:"totalCompleted"`
	TotalCalendarJobs int             `json:"totalCalendarJobs"`
}

// Projection is the full result of one projection pass.
type Projection struct {
	Events  []Event `json:"events"`
	Summary Summary `json:"summary"`
}

// Project converts the job collection into calendar events plus the
// financial summary. Ledger-created jobs appear as events too; only
// calendar-origin jobs enter the summary.
func Project(jobs []model.Job) Projection {
	events := make([]Event, 0, len(jobs))
	summary := Summary{
		TotalIncoming:  decimal.Zero,
		TotalCompleted: decimal.Zero,
	}

	for i := range jobs {
		event := projectOne(&jobs[i])
		events = append(events, event)

		if !event.CalendarOrigin {
			continue
		}
		summary.TotalCalendarJobs++
		switch event.Status {
		case model.JobStatusCompleted:
			summary.TotalCompleted = summary.TotalCompleted.Add(event.Price)
		default:
			summary.IncomingCount++
			summary.TotalIncoming = summary.TotalIncoming.Add(event.Price)
		}
	}
	return Projection{Events: events, Summary: summary}
}

func projectOne(job *model.Job) Event {
	// Records written by older clients carry the telephone folded into the
	// address string; split it out so the event always has clean parts.
	address, telephone := job.Address, job.Telephone
	if telephone == "" {
		address, telephone = model.SplitLegacyAddress(job.Address)
	}

	status := job.Status
	if status == "" {
		status = model.JobStatusIncoming
	}

	return Event{
		JobID:          job.ID,
		Title:          job.Client,
		Start:          job.Date,
		End:            job.EffectiveEndDate(),
		Client:         job.Client,
		Address:        address,
		Telephone:      telephone,
		Price:          job.Price,
		Color:          colorFor(job),
		Status:         status,
		CalendarOrigin: job.IsCalendarOrigin(),
	}
}

// colorFor prefers the stored color and otherwise hashes the job id into the
// palette. Hashing keeps a job's color stable under reordering and filtering,
// unlike the old position-index assignment.
func colorFor(job *model.Job) string {
	if job.Color != "" {
		return job.Color
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(job.ID, 10)))
	return palette[h.Sum32()%uint32(len(palette))]
}
