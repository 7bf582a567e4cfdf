package services

import (
	"context"
	"fmt"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/types"
)

// JobService owns job postings and their lifecycle status. After
// posting, job status is written only by the contract engine; the one
// public status write is owner cancellation while the job is open.
type JobService struct {
	jobRepo      *repos.JobRepository
	categoryRepo *repos.CategoryRepository
}

// NewJobService creates a new job service instance
func NewJobService(jobRepo *repos.JobRepository, categoryRepo *repos.CategoryRepository) *JobService {
	return &JobService{jobRepo: jobRepo, categoryRepo: categoryRepo}
}

// Create posts a new job for a verified client. The job starts open and
// unverified; it appears in public listings only after admin approval.
func (s *JobService) Create(ctx context.Context, actor types.Actor, req *types.CreateJobRequest) (*models.Job, error) {
	if err := requireVerified(actor, types.RoleClient); err != nil {
		return nil, err
	}
	if err := s.validateFields(ctx, req.Title, req.Description, req.Price, req.CategoryID); err != nil {
		return nil, err
	}

	job := &models.Job{
		ClientID:    actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		Status:      models.JobStatusOpen,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// Update edits a job. Allowed only for the owner and only while the job
// has not been verified yet.
func (s *JobService) Update(ctx context.Context, actor types.Actor, jobID uint, req *types.UpdateJobRequest) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}
	if job.IsVerified {
		return nil, types.NewAuthorizationError("verified jobs can no longer be edited")
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Price != nil {
		job.Price = *req.Price
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.CategoryID != nil {
		job.CategoryID = *req.CategoryID
	}
	if err := s.validateFields(ctx, job.Title, job.Description, job.Price, job.CategoryID); err != nil {
		return nil, err
	}

	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// Cancel terminally cancels an unhired job. Owner only.
func (s *JobService) Cancel(ctx context.Context, actor types.Actor, jobID uint) (*models.Job, error) {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, types.NewConflictError("only open jobs can be cancelled", string(job.Status))
	}

	job.Status = models.JobStatusCancelled
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to cancel job: %w", err)
	}
	return job, nil
}

// Delete soft-deletes a job. Owner only.
func (s *JobService) Delete(ctx context.Context, actor types.Actor, jobID uint) error {
	job, err := s.ownedJob(ctx, actor, jobID)
	if err != nil {
		return err
	}
	return s.jobRepo.Delete(ctx, job.ID)
}

// Verify marks a job as admin-approved so it appears in public listings.
func (s *JobService) Verify(ctx context.Context, actor types.Actor, jobID uint) (*models.Job, error) {
	if !actor.IsAdmin() {
		return nil, types.NewAuthorizationError("only admins can verify jobs")
	}
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, types.NewNotFoundError("job", jobID)
	}

	job.IsVerified = true
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to verify job: %w", err)
	}
	return job, nil
}

// Get retrieves a live job by id.
func (s *JobService) Get(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, types.NewNotFoundError("job", jobID)
	}
	return job, nil
}

// ListPublic lists verified jobs, optionally filtered by status.
func (s *JobService) ListPublic(ctx context.Context, status models.JobStatus, opts *models.ListOptions) ([]models.Job, int64, error) {
	jobs, err := s.jobRepo.ListPublic(ctx, status, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.jobRepo.CountPublic(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListOwn lists all jobs of the calling client, verified or not.
func (s *JobService) ListOwn(ctx context.Context, actor types.Actor, opts *models.ListOptions) ([]models.Job, error) {
	return s.jobRepo.ListByClient(ctx, actor.ID, opts)
}

func (s *JobService) ownedJob(ctx context.Context, actor types.Actor, jobID uint) (*models.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, types.NewNotFoundError("job", jobID)
	}
	if job.ClientID != actor.ID {
		return nil, types.NewAuthorizationError("only the job owner may do this")
	}
	return job, nil
}

func (s *JobService) validateFields(ctx context.Context, title, description string, price float64, categoryID uint) error {
	if title == "" {
		return types.NewValidationError("title", "must not be empty")
	}
	if l := len(description); l < models.MinDescriptionLen || l > models.MaxDescriptionLen {
		return types.NewValidationError("description",
			fmt.Sprintf("length must be between %d and %d characters", models.MinDescriptionLen, models.MaxDescriptionLen))
	}
	if price < 0 || price > models.MaxJobPrice {
		return types.NewValidationError("price",
			fmt.Sprintf("must be between 0 and %d", models.MaxJobPrice))
	}
	exists, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return types.NewValidationError("category_id", "unknown category")
	}
	return nil
}

// requireVerified checks the caller acts in the expected role and is
// verified and not blocked. Every mutating operation runs this before
// touching any record.
func requireVerified(actor types.Actor, role types.Role) error {
	if actor.Role != role {
		return types.NewAuthorizationError(fmt.Sprintf("operation requires the %s role", role))
	}
	if actor.Blocked {
		return types.NewAuthorizationError("actor is blocked")
	}
	if !actor.Verified {
		return types.NewAuthorizationError("actor is not verified")
	}
	return nil
}
