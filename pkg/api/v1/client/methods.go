package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/types"
)

// Job endpoints

// CreateJob posts a new job
func (c *APIClient) CreateJob(ctx context.Context, req *types.CreateJobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.executeRequest(ctx, http.MethodPost, "/api/v1/jobs", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs fetches a page of the public job listing
func (c *APIClient) ListJobs(ctx context.Context, page int) (*types.ListResponse[models.Job], error) {
	var resp types.ListResponse[models.Job]
	endpoint := fmt.Sprintf("/api/v1/jobs?page=%d", page)
	if err := c.executeList(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetJob fetches a single job
func (c *APIClient) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := c.executeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob edits an unverified job
func (c *APIClient) UpdateJob(ctx context.Context, id uint, req *types.UpdateJobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.executeRequest(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/jobs/%d", id), req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob soft deletes a job
func (c *APIClient) DeleteJob(ctx context.Context, id uint) error {
	return c.executeRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/jobs/%d", id), nil, nil)
}

// CancelJob cancels an open job
func (c *APIClient) CancelJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := c.executeRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/cancel", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// VerifyJob approves a job for public listing. Admin identity required.
func (c *APIClient) VerifyJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := c.executeRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/verify", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Application endpoints

// Apply submits an application to a job
func (c *APIClient) Apply(ctx context.Context, jobID uint, req *types.ApplyRequest) (*models.Application, error) {
	var app models.Application
	endpoint := fmt.Sprintf("/api/v1/jobs/%d/applications", jobID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// GetApplication fetches a single application
func (c *APIClient) GetApplication(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := c.executeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/applications/%d", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// ApplicationAction runs one of the offer transitions (discussion,
// agreement, reject, withdraw) on an application
func (c *APIClient) ApplicationAction(ctx context.Context, id uint, action string) (*models.Application, error) {
	var app models.Application
	endpoint := fmt.Sprintf("/api/v1/applications/%d/%s", id, action)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// AcceptApplication accepts a mutually agreed application
func (c *APIClient) AcceptApplication(ctx context.Context, id uint) (*AcceptResult, error) {
	var result AcceptResult
	endpoint := fmt.Sprintf("/api/v1/applications/%d/accept", id)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AcceptResult is the payload returned by the accept endpoints.
type AcceptResult struct {
	Application *models.Application `json:"application,omitempty"`
	Invitation  *models.Invitation  `json:"invitation,omitempty"`
	Contract    *models.Contract    `json:"contract"`
}

// Invitation endpoints

// Invite invites a worker to a job
func (c *APIClient) Invite(ctx context.Context, jobID uint, req *types.InviteRequest) (*models.Invitation, error) {
	var inv models.Invitation
	endpoint := fmt.Sprintf("/api/v1/jobs/%d/invitations", jobID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, req, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvitations fetches a page of the caller's invitations
func (c *APIClient) ListInvitations(ctx context.Context, page int) (*types.ListResponse[models.Invitation], error) {
	var resp types.ListResponse[models.Invitation]
	endpoint := fmt.Sprintf("/api/v1/invitations?page=%d", page)
	if err := c.executeList(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetInvitation fetches a single invitation
func (c *APIClient) GetInvitation(ctx context.Context, id uint) (*models.Invitation, error) {
	var inv models.Invitation
	if err := c.executeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/invitations/%d", id), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvitationAction runs one of the offer transitions on an invitation
func (c *APIClient) InvitationAction(ctx context.Context, id uint, action string) (*models.Invitation, error) {
	var inv models.Invitation
	endpoint := fmt.Sprintf("/api/v1/invitations/%d/%s", id, action)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// AcceptInvitation accepts a mutually agreed invitation
func (c *APIClient) AcceptInvitation(ctx context.Context, id uint) (*AcceptResult, error) {
	var result AcceptResult
	endpoint := fmt.Sprintf("/api/v1/invitations/%d/accept", id)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Contract endpoints

// ListContracts fetches a page of the caller's contracts
func (c *APIClient) ListContracts(ctx context.Context, page int) (*types.ListResponse[models.Contract], error) {
	var resp types.ListResponse[models.Contract]
	endpoint := fmt.Sprintf("/api/v1/contracts?page=%d", page)
	if err := c.executeList(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetContract fetches a single contract
func (c *APIClient) GetContract(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	if err := c.executeRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1/contracts/%d", id), nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ContractAction runs one of the contract transitions (start, complete,
// confirm, cancel, dispute)
func (c *APIClient) ContractAction(ctx context.Context, id uint, action string) (*models.Contract, error) {
	var contract models.Contract
	endpoint := fmt.Sprintf("/api/v1/contracts/%d/%s", id, action)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// Feedback endpoints

// SubmitFeedback rates the other party of a completed contract
func (c *APIClient) SubmitFeedback(ctx context.Context, contractID uint, req *types.SubmitFeedbackRequest) (*models.Feedback, error) {
	var fb models.Feedback
	endpoint := fmt.Sprintf("/api/v1/contracts/%d/feedback", contractID)
	if err := c.executeRequest(ctx, http.MethodPost, endpoint, req, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

// WorkerFeedback is the payload of the worker feedback endpoint.
type WorkerFeedback struct {
	Rows          []models.Feedback `json:"rows"`
	AverageRating float64           `json:"average_rating"`
}

// GetWorkerFeedback fetches the ratings a worker has received
func (c *APIClient) GetWorkerFeedback(ctx context.Context, workerID uint) (*WorkerFeedback, error) {
	var fb WorkerFeedback
	endpoint := fmt.Sprintf("/api/v1/workers/%d/feedback", workerID)
	if err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}
