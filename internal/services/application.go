package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/types"
)

// ApplicationService tracks worker-initiated applications to open jobs
// and runs the agreement protocol on them.
type ApplicationService struct {
	db              *gorm.DB
	applicationRepo *repos.ApplicationRepository
	jobRepo         *repos.JobRepository
	contracts       *ContractService
	limiter         AdmissionLimiter
	dispatcher      notifications.Dispatcher
}

// NewApplicationService creates a new application service instance
func NewApplicationService(db *gorm.DB, applicationRepo *repos.ApplicationRepository, jobRepo *repos.JobRepository, contracts *ContractService, limiter AdmissionLimiter, dispatcher notifications.Dispatcher) *ApplicationService {
	return &ApplicationService{
		db:              db,
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		contracts:       contracts,
		limiter:         limiter,
		dispatcher:      dispatcher,
	}
}

// Apply creates a pending application from a verified worker to an
// open, verified job. A worker may not apply twice to the same job.
func (s *ApplicationService) Apply(ctx context.Context, actor types.Actor, jobID uint, req *types.ApplyRequest) (*models.Application, error) {
	if err := requireVerified(actor, types.RoleWorker); err != nil {
		return nil, err
	}
	if err := s.limiter.Allow(ActorKey(actor.ID), PolicyApplication); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	// unverified jobs are not publicly visible, so they are not
	// applicable either
	if job == nil || !job.IsVerified {
		return nil, types.NewNotFoundError("job", jobID)
	}
	if job.Status != models.JobStatusOpen {
		return nil, types.NewConflictError("job is not open for applications", string(job.Status))
	}

	exists, err := s.applicationRepo.ExistsForJobWorker(ctx, jobID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.NewConflictError("worker already applied to this job", "")
	}

	app := &models.Application{
		JobID:        jobID,
		WorkerID:     actor.ID,
		ClientID:     job.ClientID,
		Message:      req.Message,
		ProposedRate: req.ProposedRate,
		Negotiation:  models.Negotiation{Status: models.OfferStatusPending},
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		// the unique index is the authoritative duplicate check under
		// concurrent submissions
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewConflictError("worker already applied to this job", "")
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	event := notifications.NewEvent(notifications.EventApplicationReceived, []uint{job.ClientID})
	event.NewStatus = string(app.Status)
	event.Data["job_title"] = job.Title
	event.Data["proposed_rate"] = app.ProposedRate
	publishEvent(s.dispatcher, event)

	return app, nil
}

// StartDiscussion moves a pending application into discussion. Either
// party may start it; repeating the call is a no-op.
func (s *ApplicationService) StartDiscussion(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, error) {
	app, _, err := s.partyApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}

	changed, err := startDiscussion(&app.Negotiation, time.Now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.applicationRepo.Save(ctx, app); err != nil {
			return nil, fmt.Errorf("failed to update application: %w", err)
		}
	}
	return app, nil
}

// MarkAgreement flags agreement for the calling party. Idempotent per
// role; once both parties agree the status becomes both_agreed.
func (s *ApplicationService) MarkAgreement(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, error) {
	app, role, err := s.partyApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}

	changed, err := markAgreement(&app.Negotiation, role)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.applicationRepo.Save(ctx, app); err != nil {
			return nil, fmt.Errorf("failed to update application: %w", err)
		}
	}
	return app, nil
}

// Accept promotes a mutually agreed application into a contract. Client
// only. The origin re-check, the contract creation, the job engagement,
// and the application's move to accepted commit as one transaction.
func (s *ApplicationService) Accept(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, *models.Contract, error) {
	if err := s.limiter.Allow(ActorKey(actor.ID), PolicyContract); err != nil {
		return nil, nil, err
	}

	var app *models.Application
	var contract *models.Contract
	var jobTitle string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		// re-fetch inside the transaction: the application may have
		// been rejected or withdrawn since the caller last saw it
		app, err = s.applicationRepo.WithTx(tx).GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if app == nil {
			return types.NewNotFoundError("application", applicationID)
		}
		if actor.ID != app.ClientID {
			return types.NewAuthorizationError("only the client can accept an application")
		}
		if app.Status.Terminal() {
			return types.NewConflictError("application is in a terminal state", string(app.Status))
		}
		if app.Status != models.OfferStatusBothAgreed {
			return types.NewConflictError("both parties must agree before acceptance", string(app.Status))
		}

		job, err := s.jobRepo.WithTx(tx).GetByID(ctx, app.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return types.NewNotFoundError("job", app.JobID)
		}
		jobTitle = job.Title

		rate := app.ProposedRate
		if rate <= 0 {
			rate = job.Price
		}
		description := app.Message
		if description == "" {
			description = job.Description
		}

		contract, err = s.contracts.promoteTx(ctx, tx, promotion{
			JobID:       app.JobID,
			ClientID:    app.ClientID,
			WorkerID:    app.WorkerID,
			OriginType:  models.OriginApplication,
			OriginID:    app.ID,
			Rate:        rate,
			Description: description,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		app.Status = models.OfferStatusAccepted
		app.AgreementCompletedAt = &now
		app.RespondedAt = &now
		if err := s.applicationRepo.WithTx(tx).Save(ctx, app); err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	event := notifications.NewEvent(notifications.EventOfferAccepted, []uint{app.WorkerID})
	event.NewStatus = string(app.Status)
	event.Data["job_title"] = jobTitle
	event.Data["rate"] = contract.Rate
	publishEvent(s.dispatcher, event)
	s.contracts.announceCreated(contract, jobTitle)

	return app, contract, nil
}

// Reject terminally rejects an application. Client only, allowed from
// any pre-terminal state.
func (s *ApplicationService) Reject(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, error) {
	app, role, err := s.partyApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if role != types.RoleClient {
		return nil, types.NewAuthorizationError("only the client can reject an application")
	}

	if err := closeOffer(&app.Negotiation, models.OfferStatusRejected, time.Now()); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	event := notifications.NewEvent(notifications.EventOfferRejected, []uint{app.WorkerID})
	event.NewStatus = string(app.Status)
	publishEvent(s.dispatcher, event)

	return app, nil
}

// Withdraw terminally retracts an application. Worker only, allowed
// while no agreement has been flagged yet.
func (s *ApplicationService) Withdraw(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, error) {
	app, role, err := s.partyApplication(ctx, actor, applicationID)
	if err != nil {
		return nil, err
	}
	if role != types.RoleWorker {
		return nil, types.NewAuthorizationError("only the worker can withdraw an application")
	}
	if err := ensureOpen(&app.Negotiation); err != nil {
		return nil, err
	}
	if !withdrawable(&app.Negotiation) {
		return nil, types.NewConflictError("application can no longer be withdrawn", string(app.Status))
	}

	if err := closeOffer(&app.Negotiation, models.OfferStatusWithdrawn, time.Now()); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	event := notifications.NewEvent(notifications.EventOfferWithdrawn, []uint{app.ClientID})
	event.NewStatus = string(app.Status)
	publishEvent(s.dispatcher, event)

	return app, nil
}

// Get retrieves an application visible to the actor.
func (s *ApplicationService) Get(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, types.NewNotFoundError("application", applicationID)
	}
	if actor.ID != app.ClientID && actor.ID != app.WorkerID && !actor.IsAdmin() {
		return nil, types.NewAuthorizationError("actor is not a party to this application")
	}
	return app, nil
}

// ListForJob lists the applications to a job. Owner client only.
func (s *ApplicationService) ListForJob(ctx context.Context, actor types.Actor, jobID uint, opts *models.ListOptions) ([]models.Application, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, types.NewNotFoundError("job", jobID)
	}
	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, types.NewAuthorizationError("only the job owner can list its applications")
	}
	return s.applicationRepo.ListByJob(ctx, jobID, opts)
}

// ListForWorker lists the calling worker's own applications.
func (s *ApplicationService) ListForWorker(ctx context.Context, actor types.Actor, opts *models.ListOptions) ([]models.Application, error) {
	return s.applicationRepo.ListByWorker(ctx, actor.ID, opts)
}

func (s *ApplicationService) partyApplication(ctx context.Context, actor types.Actor, applicationID uint) (*models.Application, types.Role, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}
	if app == nil {
		return nil, "", types.NewNotFoundError("application", applicationID)
	}
	role, err := partyRole(actor, app.ClientID, app.WorkerID)
	if err != nil {
		return nil, "", err
	}
	return app, role, nil
}
