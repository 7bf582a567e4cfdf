package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
)

// ApplicationRepository provides access to application-related database operations
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository instance
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ApplicationRepository) WithTx(tx *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: tx}
}

// Create inserts a new application. The (job_id, worker_id) unique
// index rejects a duplicate application at the store level.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// Save persists all fields of an existing application
func (r *ApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// GetByID retrieves a live application by its ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// ExistsForJobWorker reports whether the worker already applied to the job
func (r *ApplicationRepository) ExistsForJobWorker(ctx context.Context, jobID, workerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where(&models.Application{JobID: jobID, WorkerID: workerID}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count applications: %w", err)
	}
	return count > 0, nil
}

// ListByJob returns the applications submitted to a job
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uint, opts *models.ListOptions) ([]models.Application, error) {
	opts.Normalize()
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where(&models.Application{JobID: jobID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// ListByWorker returns the applications a worker has submitted
func (r *ApplicationRepository) ListByWorker(ctx context.Context, workerID uint, opts *models.ListOptions) ([]models.Application, error) {
	opts.Normalize()
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where(&models.Application{WorkerID: workerID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}
