package gateway

import (
	"context"

	"paintpro/internal/model"
)

// Gateway is the remote persistence boundary: row/document CRUD over the
// profiles and zakázky collections. Two concrete backends exist (Postgres
// rows, sqlite JSON documents); exactly one is active per deployment and the
// business services never know which.
type Gateway interface {
	Profiles() ProfileRecords
	Jobs() JobRecords
}

// ProfileRecords is CRUD over the profile collection.
type ProfileRecords interface {
	List(ctx context.Context) ([]model.Profile, error)
	// Insert stores the profile and fills in its assigned ID.
	Insert(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	Delete(ctx context.Context, id int64) error
}

// JobRecords is CRUD over the job collection, always scoped to one owner.
type JobRecords interface {
	// ListByOwner returns the owner's jobs newest-first by creation order.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Job, error)
	// Insert stores the job and fills in its assigned ID.
	Insert(ctx context.Context, job *model.Job) error
	// Update writes the job scoped by both its ID and owner, so one profile
	// can never mutate another's records.
	Update(ctx context.Context, job *model.Job) error
	Delete(ctx context.Context, ownerID, jobID int64) error
	// DeleteByOwner removes every job of one owner (profile-deletion cascade).
	DeleteByOwner(ctx context.Context, ownerID int64) error
}

// Watcher is implemented by backends with live subscriptions. Each push
// carries the full refreshed job list of the watched owner.
type Watcher interface {
	Watch(ctx context.Context, ownerID int64) (<-chan []model.Job, func(), error)
}
