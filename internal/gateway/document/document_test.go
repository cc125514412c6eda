package document

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	apperrors "paintpro/internal/errors"
	"paintpro/internal/model"
)

func openTestGateway(t *testing.T) *Gateway {
	t.Helper()
	gw, err := Open(":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { _ = gw.Close() })
	return gw
}

func sampleJob(ownerID int64, number string, price int64) model.Job {
	date, _ := model.ParseCzechDate("5. 6. 2025")
	job := model.Job{
		OwnerProfileID: ownerID,
		Date:           date,
		Category:       model.CategoryAdam,
		Client:         "XY",
		JobNumber:      number,
		Price:          decimal.NewFromInt(price),
		DurationDays:   1,
		Attachments:    model.Attachments{},
	}
	job.RecomputeProfit()
	return job
}

func TestProfileRecords_CRUD(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	profiles, err := gw.Profiles().List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, profiles)

	profile := model.DefaultProfile()
	profile.ID = 0
	assert.NoError(t, gw.Profiles().Insert(ctx, &profile))
	assert.Equal(t, int64(1), profile.ID)

	profiles, err = gw.Profiles().List(ctx)
	assert.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, "Hlavní uživatel", profiles[0].Name)
	assert.Equal(t, "123456", profiles[0].PIN)

	profile.Name = "Malíř"
	assert.NoError(t, gw.Profiles().Update(ctx, &profile))
	profiles, _ = gw.Profiles().List(ctx)
	assert.Equal(t, "Malíř", profiles[0].Name)

	missing := model.Profile{ID: 99, Name: "Nikdo"}
	assert.ErrorIs(t, gw.Profiles().Update(ctx, &missing), apperrors.ErrProfileNotFound)

	assert.NoError(t, gw.Profiles().Delete(ctx, profile.ID))
	profiles, _ = gw.Profiles().List(ctx)
	assert.Empty(t, profiles)
}

func TestProfileRecords_InsertKeepsExplicitID(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	profile := model.DefaultProfile() // carries ID 1
	assert.NoError(t, gw.Profiles().Insert(ctx, &profile))
	assert.Equal(t, int64(1), profile.ID)

	profiles, err := gw.Profiles().List(ctx)
	assert.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, int64(1), profiles[0].ID)
}

func TestJobRecords_NewestFirst(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	older := sampleJob(1, "95105", 11800)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := sampleJob(1, "95247", 18200)

	assert.NoError(t, gw.Jobs().Insert(ctx, &older))
	assert.NoError(t, gw.Jobs().Insert(ctx, &newer))

	jobs, err := gw.Jobs().ListByOwner(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.Equal(t, "95247", jobs[0].JobNumber)
	assert.Equal(t, "95105", jobs[1].JobNumber)
}

func TestJobRecords_OwnerScoping(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	mine := sampleJob(1, "95105", 11800)
	theirs := sampleJob(2, "80067", 7600)
	assert.NoError(t, gw.Jobs().Insert(ctx, &mine))
	assert.NoError(t, gw.Jobs().Insert(ctx, &theirs))

	// Updating with the wrong owner must not touch the record.
	hijack := mine
	hijack.OwnerProfileID = 2
	hijack.Client = "Z"
	assert.ErrorIs(t, gw.Jobs().Update(ctx, &hijack), apperrors.ErrJobNotFound)

	assert.ErrorIs(t, gw.Jobs().Delete(ctx, 2, mine.ID), apperrors.ErrJobNotFound)

	jobs, err := gw.Jobs().ListByOwner(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, "XY", jobs[0].Client)
}

func TestJobRecords_UpdateAndDelete(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	job := sampleJob(1, "95105", 11800)
	assert.NoError(t, gw.Jobs().Insert(ctx, &job))

	job.Price = decimal.NewFromInt(12000)
	job.RecomputeProfit()
	assert.NoError(t, gw.Jobs().Update(ctx, &job))

	jobs, err := gw.Jobs().ListByOwner(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, jobs[0].Price.Equal(decimal.NewFromInt(12000)))

	assert.NoError(t, gw.Jobs().Delete(ctx, 1, job.ID))
	jobs, err = gw.Jobs().ListByOwner(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestJobRecords_DeleteByOwner(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	for _, number := range []string{"95105", "95247", "80067"} {
		job := sampleJob(1, number, 1000)
		assert.NoError(t, gw.Jobs().Insert(ctx, &job))
	}
	other := sampleJob(2, "91353", 24000)
	assert.NoError(t, gw.Jobs().Insert(ctx, &other))

	assert.NoError(t, gw.Jobs().DeleteByOwner(ctx, 1))

	jobs, err := gw.Jobs().ListByOwner(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, jobs)

	jobs, err = gw.Jobs().ListByOwner(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestWatch_PushesSnapshots(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	seed := sampleJob(1, "95105", 11800)
	assert.NoError(t, gw.Jobs().Insert(ctx, &seed))

	snapshots, cancel, err := gw.Watch(ctx, 1)
	assert.NoError(t, err)
	defer cancel()

	// The current list arrives without any write.
	initial := receiveSnapshot(t, snapshots)
	assert.Len(t, initial, 1)

	job := sampleJob(1, "95247", 18200)
	assert.NoError(t, gw.Jobs().Insert(ctx, &job))
	afterInsert := receiveSnapshot(t, snapshots)
	assert.Len(t, afterInsert, 2)

	assert.NoError(t, gw.Jobs().Delete(ctx, 1, job.ID))
	afterDelete := receiveSnapshot(t, snapshots)
	assert.Len(t, afterDelete, 1)
}

func TestWatch_IgnoresOtherOwners(t *testing.T) {
	gw := openTestGateway(t)
	ctx := context.Background()

	snapshots, cancel, err := gw.Watch(ctx, 1)
	assert.NoError(t, err)
	defer cancel()

	// Drain the initial (empty) snapshot.
	receiveSnapshot(t, snapshots)

	other := sampleJob(2, "91353", 24000)
	assert.NoError(t, gw.Jobs().Insert(ctx, &other))

	select {
	case jobs := <-snapshots:
		t.Fatalf("unexpected snapshot for another owner: %v", jobs)
	case <-time.After(100 * time.Millisecond):
	}
}

func receiveSnapshot(t *testing.T, ch <-chan []model.Job) []model.Job {
	t.Helper()
	select {
	case jobs := <-ch:
		return jobs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}
