package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"paintpro/internal/cache"
	"paintpro/internal/errors"
	"paintpro/internal/gateway"
	"paintpro/internal/model"
	"paintpro/internal/storage"
)

const (
	// maxAttachmentSize is the per-file upload limit.
	maxAttachmentSize = 5 << 20
	// maxAttachmentName is the file-name length limit.
	maxAttachmentName = 100
)

// seedOwnerID is the default profile; its empty ledger is materialized with
// the built-in sample dataset exactly once.
const seedOwnerID = 1

// JobService is the job ledger: CRUD scoped to one owning profile, with the
// derived profit recomputed on every write and a silent fallback onto the
// local cache when the remote gateway fails. Every mutation returns the
// refreshed full list of the owner's jobs.
type JobService interface {
	List(ctx context.Context, ownerID int64) ([]model.Job, Source, error)
	Create(ctx context.Context, ownerID int64, input JobInput) ([]model.Job, Source, error)
	Update(ctx context.Context, ownerID, jobID int64, input JobInput) ([]model.Job, Source, error)
	SetStatus(ctx context.Context, ownerID, jobID int64, status model.JobStatus) ([]model.Job, Source, error)
	Delete(ctx context.Context, ownerID, jobID int64) ([]model.Job, Source, error)
	CreateFromCalendar(ctx context.Context, ownerID int64, input CalendarEventInput) ([]model.Job, Source, error)
	AttachFile(ctx context.Context, ownerID, jobID int64, upload FileUpload) ([]model.Job, Source, error)
	RemoveAttachment(ctx context.Context, ownerID, jobID int64, attachmentID string) ([]model.Job, Source, error)
}

// JobInput carries the caller-editable job fields. Profit is deliberately
// absent: it is always derived.
type JobInput struct {
	Date           model.CzechDate
	EndDate        model.CzechDate
	Category       model.Category
	Client         string
	JobNumber      string
	Address        string
	Telephone      string
	Price          decimal.Decimal
	Fee            decimal.Decimal
	FeeOff         decimal.Decimal
	MaterialCost   decimal.Decimal
	HelperCost     decimal.Decimal
	FuelCost       decimal.Decimal
	DurationDays   int
	Notes          string
	Color          string
	Status         model.JobStatus
	CalendarOrigin bool
}

// CalendarEventInput is the reduced field set captured by the calendar's
// day-click editor.
type CalendarEventInput struct {
	Client    string
	Address   string
	Telephone string
	Price     decimal.Decimal
	Date      model.CzechDate
	EndDate   model.CzechDate
	Color     string
	Status    model.JobStatus
}

// FileUpload is one attachment submitted for a job.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

type jobService struct {
	gw    gateway.Gateway
	cache cache.Store
	blobs storage.Store
}

// NewJobService creates a new job service.
func NewJobService(gw gateway.Gateway, cacheStore cache.Store, blobs storage.Store) JobService {
	return &jobService{
		gw:    gw,
		cache: cacheStore,
		blobs: blobs,
	}
}

func (s *jobService) List(ctx context.Context, ownerID int64) ([]model.Job, Source, error) {
	jobs, err := s.gw.Jobs().ListByOwner(ctx, ownerID)
	if err == nil {
		s.mirrorJobs(ctx, ownerID, jobs)
		return jobs, SourceRemote, nil
	}
	log.Printf("jobs: remote list failed for owner %d, using cache: %v", ownerID, err)

	if cached, ok := s.cachedJobs(ctx, ownerID); ok {
		return cached, SourceCache, nil
	}
	if ownerID == seedOwnerID {
		// First run with no reachable backend: give the default profile the
		// demo ledger so the app is not empty.
		jobs := SampleJobs(ownerID)
		s.mirrorJobs(ctx, ownerID, jobs)
		return jobs, SourceCache, nil
	}
	return []model.Job{}, SourceCache, nil
}

func (s *jobService) Create(ctx context.Context, ownerID int64, input JobInput) ([]model.Job, Source, error) {
	job := input.toJob(ownerID)
	job.RecomputeProfit()

	if err := s.gw.Jobs().Insert(ctx, &job); err != nil {
		log.Printf("jobs: remote create failed for owner %d, keeping local copy: %v", ownerID, err)
		return s.fallbackCreate(ctx, ownerID, job)
	}
	// Remote truth: no optimistic patching, re-read the whole list.
	return s.List(ctx, ownerID)
}

func (s *jobService) Update(ctx context.Context, ownerID, jobID int64, input JobInput) ([]model.Job, Source, error) {
	existing, src, err := s.find(ctx, ownerID, jobID)
	if err != nil {
		return nil, src, err
	}

	updated := input.applyTo(*existing)
	updated.RecomputeProfit()

	if src == SourceRemote {
		err := s.gw.Jobs().Update(ctx, &updated)
		if err == nil {
			return s.List(ctx, ownerID)
		}
		if goerrors.Is(err, errors.ErrJobNotFound) {
			return nil, SourceRemote, err
		}
		log.Printf("jobs: remote update failed for owner %d, keeping local copy: %v", ownerID, err)
	}
	return s.fallbackReplace(ctx, ownerID, updated)
}

func (s *jobService) SetStatus(ctx context.Context, ownerID, jobID int64, status model.JobStatus) ([]model.Job, Source, error) {
	existing, src, err := s.find(ctx, ownerID, jobID)
	if err != nil {
		return nil, src, err
	}
	updated := *existing
	updated.Status = status

	if src == SourceRemote {
		err := s.gw.Jobs().Update(ctx, &updated)
		if err == nil {
			return s.List(ctx, ownerID)
		}
		if goerrors.Is(err, errors.ErrJobNotFound) {
			return nil, SourceRemote, err
		}
		log.Printf("jobs: remote status update failed for owner %d, keeping local copy: %v", ownerID, err)
	}
	return s.fallbackReplace(ctx, ownerID, updated)
}

func (s *jobService) Delete(ctx context.Context, ownerID, jobID int64) ([]model.Job, Source, error) {
	err := s.gw.Jobs().Delete(ctx, ownerID, jobID)
	if err == nil {
		return s.List(ctx, ownerID)
	}
	if goerrors.Is(err, errors.ErrJobNotFound) {
		return nil, SourceRemote, err
	}
	log.Printf("jobs: remote delete failed for owner %d, patching local copy: %v", ownerID, err)

	cached, ok := s.cachedJobs(ctx, ownerID)
	if !ok {
		return nil, SourceCache, errors.ErrJobNotFound
	}
	out := cached[:0]
	found := false
	for _, j := range cached {
		if j.ID == jobID {
			found = true
			continue
		}
		out = append(out, j)
	}
	if !found {
		return nil, SourceCache, errors.ErrJobNotFound
	}
	s.mirrorJobs(ctx, ownerID, out)
	return out, SourceCache, nil
}

func (s *jobService) CreateFromCalendar(ctx context.Context, ownerID int64, input CalendarEventInput) ([]model.Job, Source, error) {
	status := input.Status
	if status == "" {
		status = model.JobStatusIncoming
	}
	job := JobInput{
		Date:           input.Date,
		EndDate:        input.EndDate,
		Category:       model.CategoryOther,
		Client:         input.Client,
		JobNumber:      fmt.Sprintf("%s%d", model.CalendarJobNumberPrefix, time.Now().UnixMilli()),
		Address:        input.Address,
		Telephone:      input.Telephone,
		Price:          input.Price,
		DurationDays:   input.durationDays(),
		Color:          input.Color,
		Status:         status,
		CalendarOrigin: true,
	}
	return s.Create(ctx, ownerID, job)
}

func (s *jobService) AttachFile(ctx context.Context, ownerID, jobID int64, upload FileUpload) ([]model.Job, Source, error) {
	if len(upload.Data) > maxAttachmentSize {
		return nil, "", errors.ErrFileTooLarge
	}
	if len(upload.Name) > maxAttachmentName {
		return nil, "", errors.ErrFileNameTooLong
	}

	existing, src, err := s.find(ctx, ownerID, jobID)
	if err != nil {
		return nil, src, err
	}

	fileID := fmt.Sprintf("%d_%d", jobID, time.Now().UnixMilli())
	attachment := model.Attachment{
		ID:          fileID,
		Name:        upload.Name,
		UploadedAt:  time.Now(),
		Size:        int64(len(upload.Data)),
		ContentType: upload.ContentType,
	}

	if _, err := s.blobs.Upload(ctx, storage.JobFilesBucket, fileID, bytes.NewReader(upload.Data)); err != nil {
		if goerrors.Is(err, errors.ErrFileTooLarge) {
			return nil, src, err
		}
		// Bucket unreachable: keep the blob in the cache as a data URL so the
		// attachment still opens.
		log.Printf("jobs: blob upload failed for %s, keeping cached copy: %v", fileID, err)
		attachment.URL = "data:" + upload.ContentType + ";base64," + base64.StdEncoding.EncodeToString(upload.Data)
		if meta, err := json.Marshal(attachment); err == nil {
			_ = s.cache.Set(ctx, cache.FileKey(fileID), meta, 0)
		}
	} else {
		attachment.URL = s.blobs.PublicURL(storage.JobFilesBucket, fileID)
	}

	updated := *existing
	updated.Attachments = append(append(model.Attachments{}, existing.Attachments...), attachment)
	return s.writeBack(ctx, ownerID, src, updated)
}

func (s *jobService) RemoveAttachment(ctx context.Context, ownerID, jobID int64, attachmentID string) ([]model.Job, Source, error) {
	existing, src, err := s.find(ctx, ownerID, jobID)
	if err != nil {
		return nil, src, err
	}

	kept := make(model.Attachments, 0, len(existing.Attachments))
	removed := false
	for _, a := range existing.Attachments {
		if a.ID == attachmentID {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return nil, src, errors.ErrJobNotFound
	}
	_ = s.blobs.Remove(ctx, storage.JobFilesBucket, attachmentID)
	_ = s.cache.Delete(ctx, cache.FileKey(attachmentID))

	updated := *existing
	updated.Attachments = kept
	return s.writeBack(ctx, ownerID, src, updated)
}

// find locates one job in the owner's list, remote-first.
func (s *jobService) find(ctx context.Context, ownerID, jobID int64) (*model.Job, Source, error) {
	jobs, src, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, src, err
	}
	for i := range jobs {
		if jobs[i].ID == jobID {
			return &jobs[i], src, nil
		}
	}
	return nil, src, errors.ErrJobNotFound
}

// writeBack persists an already-merged job through the remote path when the
// read came from the remote, with the usual local fallback.
func (s *jobService) writeBack(ctx context.Context, ownerID int64, src Source, job model.Job) ([]model.Job, Source, error) {
	if src == SourceRemote {
		err := s.gw.Jobs().Update(ctx, &job)
		if err == nil {
			return s.List(ctx, ownerID)
		}
		if goerrors.Is(err, errors.ErrJobNotFound) {
			return nil, SourceRemote, err
		}
		log.Printf("jobs: remote write failed for owner %d, keeping local copy: %v", ownerID, err)
	}
	return s.fallbackReplace(ctx, ownerID, job)
}

// fallbackCreate appends the job to the cached list with a synthesized id.
func (s *jobService) fallbackCreate(ctx context.Context, ownerID int64, job model.Job) ([]model.Job, Source, error) {
	cached, _ := s.cachedJobs(ctx, ownerID)
	job.ID = maxJobID(cached) + 1
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	// Newest-first, matching the remote ordering.
	out := append([]model.Job{job}, cached...)
	s.mirrorJobs(ctx, ownerID, out)
	return out, SourceCache, nil
}

// fallbackReplace swaps the job into the cached list in place.
func (s *jobService) fallbackReplace(ctx context.Context, ownerID int64, job model.Job) ([]model.Job, Source, error) {
	cached, ok := s.cachedJobs(ctx, ownerID)
	if !ok {
		cached = []model.Job{}
	}
	job.UpdatedAt = time.Now()
	replaced := false
	for i := range cached {
		if cached[i].ID == job.ID {
			cached[i] = job
			replaced = true
			break
		}
	}
	if !replaced {
		cached = append([]model.Job{job}, cached...)
	}
	s.mirrorJobs(ctx, ownerID, cached)
	return cached, SourceCache, nil
}

func (s *jobService) mirrorJobs(ctx context.Context, ownerID int64, jobs []model.Job) {
	payload, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, cache.JobsKey(ownerID), payload, 0)
}

func (s *jobService) cachedJobs(ctx context.Context, ownerID int64) ([]model.Job, bool) {
	data, err := s.cache.Get(ctx, cache.JobsKey(ownerID))
	if err != nil || data == nil {
		return nil, false
	}
	var jobs []model.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, false
	}
	return jobs, true
}

func (in JobInput) toJob(ownerID int64) model.Job {
	duration := in.DurationDays
	if duration <= 0 {
		duration = 1
	}
	return model.Job{
		OwnerProfileID: ownerID,
		Date:           in.Date,
		EndDate:        in.EndDate,
		Category:       in.Category,
		Client:         in.Client,
		JobNumber:      in.JobNumber,
		Address:        in.Address,
		Telephone:      in.Telephone,
		Price:          in.Price,
		Fee:            in.Fee,
		FeeOff:         in.FeeOff,
		MaterialCost:   in.MaterialCost,
		HelperCost:     in.HelperCost,
		FuelCost:       in.FuelCost,
		DurationDays:   duration,
		Notes:          in.Notes,
		Color:          in.Color,
		Status:         in.Status,
		CalendarOrigin: in.CalendarOrigin,
	}
}

// applyTo merges the input onto an existing job, preserving identity,
// attachments and creation metadata.
func (in JobInput) applyTo(job model.Job) model.Job {
	merged := in.toJob(job.OwnerProfileID)
	merged.ID = job.ID
	merged.CreatedAt = job.CreatedAt
	merged.Attachments = job.Attachments
	if merged.Status == "" {
		merged.Status = job.Status
	}
	if merged.Color == "" {
		merged.Color = job.Color
	}
	if !merged.CalendarOrigin {
		merged.CalendarOrigin = job.CalendarOrigin
	}
	return merged
}

func (in CalendarEventInput) durationDays() int {
	if in.Date.IsZero() || in.EndDate.IsZero() {
		return 1
	}
	days := int(in.EndDate.Sub(in.Date.Time).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

func maxJobID(jobs []model.Job) int64 {
	var max int64
	for _, j := range jobs {
		if j.ID > max {
			max = j.ID
		}
	}
	return max
}
