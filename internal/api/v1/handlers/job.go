package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/services"
	"github.com/workbridge/workbridge/internal/types"
)

// JobHandler handles HTTP requests for job operations
type JobHandler struct {
	jobService *services.JobService
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(s *services.JobService) *JobHandler {
	return &JobHandler{jobService: s}
}

// CreateJob handles the request to post a new job
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	var req types.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c, ErrMsgInvalidReqFormat)
	}

	job, err := h.jobService.Create(c.Context(), middleware.Actor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(job))
}

// ListJobs handles the request for the public job listing
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	var status models.JobStatus
	if statusStr := c.Query("status"); statusStr != "" {
		var err error
		status, err = models.ParseJobStatus(statusStr)
		if err != nil {
			return invalidInput(c, ErrMsgInvalidJobStatus)
		}
	}

	opts := getListOptions(c)
	jobs, total, err := h.jobService.ListPublic(c.Context(), status, opts)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(types.ListResponse[models.Job]{
		Rows: jobs,
		Pagination: types.PaginationResponse{
			Total:  int(total),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// ListOwnJobs handles the request for the caller's own postings
func (h *JobHandler) ListOwnJobs(c *fiber.Ctx) error {
	opts := getListOptions(c)
	jobs, err := h.jobService.ListOwn(c.Context(), middleware.Actor(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types.ListResponse[models.Job]{
		Rows: jobs,
		Pagination: types.PaginationResponse{
			Total:  len(jobs),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetJob handles the request to get a job
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	job, err := h.jobService.Get(c.Context(), jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(job))
}

// UpdateJob handles the request to edit an unverified job
func (h *JobHandler) UpdateJob(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	var req types.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c, ErrMsgInvalidReqFormat)
	}

	job, err := h.jobService.Update(c.Context(), middleware.Actor(c), jobID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(job))
}

// DeleteJob handles the request to soft delete a job
func (h *JobHandler) DeleteJob(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	if err := h.jobService.Delete(c.Context(), middleware.Actor(c), jobID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(nil))
}

// CancelJob handles the owner's request to cancel an open job
func (h *JobHandler) CancelJob(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	job, err := h.jobService.Cancel(c.Context(), middleware.Actor(c), jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(job))
}

// VerifyJob handles the admin request to approve a job for public
// listing
func (h *JobHandler) VerifyJob(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	job, err := h.jobService.Verify(c.Context(), middleware.Actor(c), jobID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(job))
}
