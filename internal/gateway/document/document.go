// Package document is the document-database backend of the remote data
// gateway: records are stored as JSON documents in an embedded sqlite file
// and job-list changes are pushed to live subscribers, mirroring the hosted
// document store's snapshot listeners.
package document

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	apperrors "paintpro/internal/errors"
	"paintpro/internal/gateway"
	"paintpro/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	body TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS zakazky (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	body       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_zakazky_profile ON zakazky(profile_id);
`

// Gateway is the sqlite document implementation of gateway.Gateway.
type Gateway struct {
	db       *sql.DB
	hub      *hub
	profiles *profileRecords
	jobs     *jobRecords
}

var (
	_ gateway.Gateway = (*Gateway)(nil)
	_ gateway.Watcher = (*Gateway)(nil)
)

// Open opens (or creates) the document store at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Gateway, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open document store: %w", err)
	}
	// A single connection keeps :memory: stores alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init document store: %w", err)
	}
	g := &Gateway{db: db, hub: newHub()}
	g.profiles = &profileRecords{db: db}
	g.jobs = &jobRecords{db: db, gw: g}
	return g, nil
}

// Close closes the underlying store.
func (g *Gateway) Close() error { return g.db.Close() }

// Profiles returns the profile collection.
func (g *Gateway) Profiles() gateway.ProfileRecords { return g.profiles }

// Jobs returns the job collection.
func (g *Gateway) Jobs() gateway.JobRecords { return g.jobs }

// Watch subscribes to the job list of one owner. The current list is pushed
// immediately, then again after every write touching the owner. The returned
// cancel func must be called to release the subscription.
func (g *Gateway) Watch(ctx context.Context, ownerID int64) (<-chan []model.Job, func(), error) {
	jobs, err := g.jobs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := g.hub.subscribe(ownerID)
	select {
	case ch <- jobs:
	default:
	}
	return ch, cancel, nil
}

// notify pushes the refreshed job list of one owner to its subscribers.
func (g *Gateway) notify(ownerID int64) {
	if !g.hub.hasSubscribers(ownerID) {
		return
	}
	jobs, err := g.jobs.ListByOwner(context.Background(), ownerID)
	if err != nil {
		return
	}
	g.hub.publish(ownerID, jobs)
}

type profileRecords struct {
	db *sql.DB
}

func (r *profileRecords) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, body FROM profiles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var id int64
		var body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var profile model.Profile
		if err := json.Unmarshal([]byte(body), &profile); err != nil {
			return nil, fmt.Errorf("decode profile %d: %w", id, err)
		}
		profile.ID = id
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *profileRecords) Insert(ctx context.Context, profile *model.Profile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if profile.ID == 0 {
		res, err := r.db.ExecContext(ctx, `INSERT INTO profiles(body) VALUES('{}')`)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		profile.ID = id
	}
	body, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO profiles(id, body) VALUES(?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
		profile.ID, string(body))
	return err
}

func (r *profileRecords) Update(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	body, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET body = ? WHERE id = ?`, string(body), profile.ID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

func (r *profileRecords) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}

type jobRecords struct {
	db *sql.DB
	gw *Gateway
}

func (r *jobRecords) ListByOwner(ctx context.Context, ownerID int64) ([]model.Job, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, body FROM zakazky WHERE profile_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var id int64
		var body string
		if err := rows.Scan(&id, &body); err != nil {
			return nil, err
		}
		var job model.Job
		if err := json.Unmarshal([]byte(body), &job); err != nil {
			return nil, fmt.Errorf("decode job %d: %w", id, err)
		}
		job.ID = id
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *jobRecords) Insert(ctx context.Context, job *model.Job) error {
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	createdAt := job.CreatedAt.Format(time.RFC3339Nano)
	if job.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO zakazky(profile_id, created_at, body) VALUES(?, ?, '{}')`,
			job.OwnerProfileID, createdAt)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		job.ID = id
	}
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO zakazky(id, profile_id, created_at, body) VALUES(?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
		job.ID, job.OwnerProfileID, createdAt, string(body)); err != nil {
		return err
	}
	r.gw.notify(job.OwnerProfileID)
	return nil
}

func (r *jobRecords) Update(ctx context.Context, job *model.Job) error {
	job.UpdatedAt = time.Now().UTC()
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE zakazky SET body = ? WHERE id = ? AND profile_id = ?`,
		string(body), job.ID, job.OwnerProfileID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrJobNotFound
	}
	r.gw.notify(job.OwnerProfileID)
	return nil
}

func (r *jobRecords) Delete(ctx context.Context, ownerID, jobID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM zakazky WHERE id = ? AND profile_id = ?`, jobID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrJobNotFound
	}
	r.gw.notify(ownerID)
	return nil
}

func (r *jobRecords) DeleteByOwner(ctx context.Context, ownerID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM zakazky WHERE profile_id = ?`, ownerID); err != nil {
		return err
	}
	r.gw.notify(ownerID)
	return nil
}
