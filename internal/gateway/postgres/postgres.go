// Package postgres is the row-level CRUD backend of the remote data gateway.
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "paintpro/internal/errors"
	"paintpro/internal/gateway"
	"paintpro/internal/model"
)

// Gateway is the GORM/Postgres implementation of gateway.Gateway.
type Gateway struct {
	profiles *profileRecords
	jobs     *jobRecords
}

var _ gateway.Gateway = (*Gateway)(nil)

// New creates the Postgres gateway.
func New(db *gorm.DB) *Gateway {
	return &Gateway{
		profiles: &profileRecords{db: db},
		jobs:     &jobRecords{db: db},
	}
}

// Migrate creates or updates the profiles and zakazky tables.
func (g *Gateway) Migrate() error {
	return g.profiles.db.AutoMigrate(&model.Profile{}, &model.Job{})
}

// Profiles returns the profile collection.
func (g *Gateway) Profiles() gateway.ProfileRecords { return g.profiles }

// Jobs returns the job collection.
func (g *Gateway) Jobs() gateway.JobRecords { return g.jobs }

type profileRecords struct {
	db *gorm.DB
}

func (r *profileRecords) List(ctx context.Context) ([]model.Profile, error) {
	var profiles []model.Profile
	if err := r.db.WithContext(ctx).Order("id").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRecords) Insert(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRecords) Update(ctx context.Context, profile *model.Profile) error {
	res := r.db.WithContext(ctx).Save(profile)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

func (r *profileRecords) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Profile{}, id).Error
}

type jobRecords struct {
	db *gorm.DB
}

func (r *jobRecords) ListByOwner(ctx context.Context, ownerID int64) ([]model.Job, error) {
	var jobs []model.Job
	if err := r.db.WithContext(ctx).
		Where("profile_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRecords) Insert(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRecords) Update(ctx context.Context, job *model.Job) error {
	res := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ? AND profile_id = ?", job.ID, job.OwnerProfileID).
		Select("*").
		Omit("id", "profile_id", "created_at").
		Updates(job)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

func (r *jobRecords) Delete(ctx context.Context, ownerID, jobID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", jobID, ownerID).
		Delete(&model.Job{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

func (r *jobRecords) DeleteByOwner(ctx context.Context, ownerID int64) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", ownerID).
		Delete(&model.Job{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
