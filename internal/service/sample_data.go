package service

import (
	"time"

	"github.com/shopspring/decimal"

	"paintpro/internal/model"
)

// SampleJobs is the built-in demo ledger handed to a first-run user when
// neither the remote backend nor the cache has any data for the seed profile.
// Profit is derived, not copied, so the invariant holds even for the samples.
func SampleJobs(ownerID int64) []model.Job {
	rows := []struct {
		id       int64
		date     string
		category model.Category
		number   string
		price    int64
		fee      int64
		material int64
		helper   int64
		fuel     int64
	}{
		{1, "11. 6. 2025", model.CategoryAdam, "202501", 4000, 1040, 0, 0, 0},
		{2, "9. 6. 2025", model.CategoryMVC, "104470", 7200, 1872, 700, 2000, 0},
		{3, "5. 6. 2025", model.CategoryAdam, "95105", 11800, 2964, 700, 2000, 300},
		{4, "14. 5. 2025", model.CategoryAdam, "80067", 7600, 1976, 700, 2000, 300},
		{5, "13. 5. 2025", model.CategoryAdam, "87470", 6400, 1664, 700, 2000, 300},
		{6, "10. 5. 2025", model.CategoryAdam, "91353", 24000, 6240, 0, 15780, 0},
		{7, "24. 4. 2025", model.CategoryKoralek, "90660", 13200, 3432, 0, 0, 0},
		{8, "22. 4. 2025", model.CategoryAdam, "95247", 17800, 4628, 300, 700, 0},
		{9, "19. 4. 2025", model.CategoryAdam, "91510", 10600, 2756, 200, 1000, 2500},
		{10, "16. 4. 2025", model.CategoryAdam, "91417", 8600, 2184, 500, 1000, 1500},
		{11, "15. 3. 2025", model.CategoryOther, "18001", 5700, 1462, 300, 1000, 0},
		{12, "26. 2. 2025", model.CategoryAdam, "14974", 5600, 1456, 300, 400, 0},
		{13, "23. 2. 2025", model.CategoryAdam, "13161", 8400, 1684, 300, 400, 0},
		{14, "27. 1. 2025", model.CategoryAdam, "14347", 8700, 1743, 300, 1000, 0},
	}

	now := time.Now()
	jobs := make([]model.Job, 0, len(rows))
	for i, r := range rows {
		date, _ := model.ParseCzechDate(r.date)
		job := model.Job{
			ID:             r.id,
			OwnerProfileID: ownerID,
			Date:           date,
			Category:       r.category,
			Client:         "XY",
			JobNumber:      r.number,
			Price:          decimal.NewFromInt(r.price),
			Fee:            decimal.NewFromInt(r.fee),
			MaterialCost:   decimal.NewFromInt(r.material),
			HelperCost:     decimal.NewFromInt(r.helper),
			FuelCost:       decimal.NewFromInt(r.fuel),
			DurationDays:   1,
			Attachments:    model.Attachments{},
			// Keep the remote's newest-first ordering stable.
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		job.RecomputeProfit()
		jobs = append(jobs, job)
	}
	return jobs
}
