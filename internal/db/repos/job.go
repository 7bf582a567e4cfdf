package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
)

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *JobRepository) WithTx(tx *gorm.DB) *JobRepository {
	return &JobRepository{db: tx}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Save persists all fields of an existing job
func (r *JobRepository) Save(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// GetByID retrieves a live (non-deleted) job by its ID
func (r *JobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// Delete soft-deletes a job
func (r *JobRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Job{}, id).Error
}

// ListPublic returns verified, non-deleted jobs for public listing
func (r *JobRepository) ListPublic(ctx context.Context, status models.JobStatus, opts *models.ListOptions) ([]models.Job, error) {
	opts.Normalize()
	var jobs []models.Job
	qry := &models.Job{IsVerified: true}
	if status != "" {
		qry.Status = status
	}
	err := r.db.WithContext(ctx).
		Where(qry).
		Limit(opts.Limit).Offset(opts.Offset).
		Order(models.JobCreatedAtField + " DESC").
		Find(&jobs).Error
	return jobs, err
}

// ListByClient returns a client's own jobs, verified or not
func (r *JobRepository) ListByClient(ctx context.Context, clientID uint, opts *models.ListOptions) ([]models.Job, error) {
	opts.Normalize()
	var jobs []models.Job
	err := r.db.WithContext(ctx).
		Where(&models.Job{ClientID: clientID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order(models.JobCreatedAtField + " DESC").
		Find(&jobs).Error
	return jobs, err
}

// CountPublic returns the number of verified, non-deleted jobs
func (r *JobRepository) CountPublic(ctx context.Context, status models.JobStatus) (int64, error) {
	var count int64
	qry := &models.Job{IsVerified: true}
	if status != "" {
		qry.Status = status
	}
	err := r.db.WithContext(ctx).Model(&models.Job{}).Where(qry).Count(&count).Error
	return count, err
}

// SetEngaged moves a job into the engaged status with the hired worker
// set, but only if it is still open. It returns false when the guard
// did not match, which callers treat as a lost race.
func (r *JobRepository) SetEngaged(ctx context.Context, jobID, workerID uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.JobStatusOpen).
		Updates(map[string]interface{}{
			"status":          models.JobStatusInProgress,
			"hired_worker_id": workerID,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to engage job: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// SetStatus updates the job status unconditionally. Internal to the
// contract engine; public callers never reach it.
func (r *JobRepository) SetStatus(ctx context.Context, jobID uint, status models.JobStatus) error {
	return r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", jobID).
		Update("status", status).Error
}

// Release reverts a job to open and clears the hired worker, used when
// its contract is cancelled.
func (r *JobRepository) Release(ctx context.Context, jobID uint) error {
	return r.db.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":          models.JobStatusOpen,
			"hired_worker_id": nil,
		}).Error
}
