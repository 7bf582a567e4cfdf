package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/types"
)

// ContractService is the contract engine: it promotes accepted offers
// into contracts, drives contract status transitions, and is the sole
// writer of job status after posting. Every transition updates the job
// row where required and emits exactly one lifecycle event; the event
// is best-effort and never part of the transaction.
type ContractService struct {
	db           *gorm.DB
	contractRepo *repos.ContractRepository
	jobRepo      *repos.JobRepository
	limiter      AdmissionLimiter
	dispatcher   notifications.Dispatcher
}

// NewContractService creates a new contract service instance
func NewContractService(db *gorm.DB, contractRepo *repos.ContractRepository, jobRepo *repos.JobRepository, limiter AdmissionLimiter, dispatcher notifications.Dispatcher) *ContractService {
	return &ContractService{
		db:           db,
		contractRepo: contractRepo,
		jobRepo:      jobRepo,
		limiter:      limiter,
		dispatcher:   dispatcher,
	}
}

// promotion carries everything the engine needs to turn an accepted
// offer into a contract.
type promotion struct {
	JobID       uint
	ClientID    uint
	WorkerID    uint
	OriginType  models.OriginType
	OriginID    uint
	Rate        float64
	Description string
}

// promoteTx performs the multi-record promotion write inside the
// caller's transaction: verify the job is still open, verify no
// non-terminal contract exists for it, create the contract, and engage
// the job. The caller updates the origin offer in the same transaction,
// so either all of it commits or none does.
func (s *ContractService) promoteTx(ctx context.Context, tx *gorm.DB, p promotion) (*models.Contract, error) {
	job, err := s.jobRepo.WithTx(tx).GetByID(ctx, p.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, types.NewNotFoundError("job", p.JobID)
	}
	if job.Status != models.JobStatusOpen {
		return nil, types.NewConflictError("job is not open for hiring", string(job.Status))
	}

	active, err := s.contractRepo.WithTx(tx).ActiveForJob(ctx, p.JobID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, types.NewConflictError("an active contract already exists for this job", string(active.Status))
	}

	contract := &models.Contract{
		ClientID:    p.ClientID,
		WorkerID:    p.WorkerID,
		JobID:       &p.JobID,
		OriginType:  p.OriginType,
		OriginID:    p.OriginID,
		Rate:        p.Rate,
		Description: p.Description,
		Status:      models.ContractStatusActive,
		StartDate:   time.Now(),
	}
	if err := s.contractRepo.WithTx(tx).Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	engaged, err := s.jobRepo.WithTx(tx).SetEngaged(ctx, p.JobID, p.WorkerID)
	if err != nil {
		return nil, err
	}
	if !engaged {
		// the open check above passed but the guarded update did not: a
		// concurrent promotion won the race
		return nil, types.NewConflictError("job was engaged concurrently", "")
	}

	return contract, nil
}

// announceCreated publishes the contract-created event after the
// promoting transaction has committed.
func (s *ContractService) announceCreated(contract *models.Contract, jobTitle string) {
	event := notifications.NewEvent(notifications.EventContractCreated, []uint{contract.ClientID, contract.WorkerID})
	event.NewStatus = string(contract.Status)
	event.Data["contract_id"] = contract.ID
	event.Data["job_title"] = jobTitle
	event.Data["rate"] = contract.Rate
	publishEvent(s.dispatcher, event)
}

// StartWork moves an active contract into in_progress. Worker only.
func (s *ContractService) StartWork(ctx context.Context, actor types.Actor, contractID uint) (*models.Contract, error) {
	return s.transition(ctx, actor, contractID, models.ContractStatusInProgress,
		notifications.EventContractStarted, func(c *models.Contract, _ time.Time) error {
			if actor.ID != c.WorkerID {
				return types.NewAuthorizationError("only the worker can start work")
			}
			return nil
		}, nil)
}

// CompleteWork marks the work done from the worker's side, moving the
// contract to awaiting_client_confirmation.
func (s *ContractService) CompleteWork(ctx context.Context, actor types.Actor, contractID uint) (*models.Contract, error) {
	return s.transition(ctx, actor, contractID, models.ContractStatusAwaitingConfirmation,
		notifications.EventContractAwaitingConfirmation, func(c *models.Contract, now time.Time) error {
			if actor.ID != c.WorkerID {
				return types.NewAuthorizationError("only the worker can complete work")
			}
			c.WorkerCompletedAt = &now
			return nil
		}, nil)
}

// ConfirmCompletion is the client's confirmation that the work is done.
// The contract completes and the job moves to completed.
func (s *ContractService) ConfirmCompletion(ctx context.Context, actor types.Actor, contractID uint) (*models.Contract, error) {
	return s.transition(ctx, actor, contractID, models.ContractStatusCompleted,
		notifications.EventContractCompleted, func(c *models.Contract, now time.Time) error {
			if actor.ID != c.ClientID {
				return types.NewAuthorizationError("only the client can confirm completion")
			}
			c.ClientConfirmedAt = &now
			c.CompletedAt = &now
			c.ActualEndDate = &now
			return nil
		}, func(ctx context.Context, tx *gorm.DB, c *models.Contract) error {
			if c.JobID == nil {
				return nil
			}
			return s.jobRepo.WithTx(tx).SetStatus(ctx, *c.JobID, models.JobStatusCompleted)
		})
}

// Cancel cancels a non-terminal contract. Either party may cancel; the
// job reverts to open with its hired worker cleared.
func (s *ContractService) Cancel(ctx context.Context, actor types.Actor, contractID uint) (*models.Contract, error) {
	return s.transition(ctx, actor, contractID, models.ContractStatusCancelled,
		notifications.EventContractCancelled, func(c *models.Contract, _ time.Time) error {
			if !c.PartyOf(actor.ID) {
				return types.NewAuthorizationError("only a contract party can cancel")
			}
			return nil
		}, func(ctx context.Context, tx *gorm.DB, c *models.Contract) error {
			if c.JobID == nil {
				return nil
			}
			return s.jobRepo.WithTx(tx).Release(ctx, *c.JobID)
		})
}

// Dispute flags a completed contract as disputed. Arbitration itself
// happens off-platform.
func (s *ContractService) Dispute(ctx context.Context, actor types.Actor, contractID uint) (*models.Contract, error) {
	return s.transition(ctx, actor, contractID, models.ContractStatusDisputed,
		notifications.EventContractDisputed, func(c *models.Contract, _ time.Time) error {
			if !c.PartyOf(actor.ID) {
				return types.NewAuthorizationError("only a contract party can open a dispute")
			}
			return nil
		}, nil)
}

// Get retrieves a contract visible to the actor.
func (s *ContractService) Get(ctx context.Context, actor types.Actor, contractID uint) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, types.NewNotFoundError("contract", contractID)
	}
	if !contract.PartyOf(actor.ID) && !actor.IsAdmin() {
		return nil, types.NewAuthorizationError("actor is not a party to this contract")
	}
	return contract, nil
}

// ListForActor lists the contracts the actor is a party to.
func (s *ContractService) ListForActor(ctx context.Context, actor types.Actor, opts *models.ListOptions) ([]models.Contract, error) {
	return s.contractRepo.ListByActor(ctx, actor.ID, opts)
}

// transition loads the contract, checks the admission limiter and the
// guard, applies the status edge inside a transaction together with the
// job-side write, and publishes the lifecycle event after commit.
func (s *ContractService) transition(
	ctx context.Context,
	actor types.Actor,
	contractID uint,
	next models.ContractStatus,
	eventType notifications.EventType,
	guard func(*models.Contract, time.Time) error,
	jobStep func(context.Context, *gorm.DB, *models.Contract) error,
) (*models.Contract, error) {
	if err := s.limiter.Allow(ActorKey(actor.ID), PolicyContract); err != nil {
		return nil, err
	}

	var contract *models.Contract
	var oldStatus models.ContractStatus

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		contract, err = s.contractRepo.WithTx(tx).GetByID(ctx, contractID)
		if err != nil {
			return err
		}
		if contract == nil {
			return types.NewNotFoundError("contract", contractID)
		}

		now := time.Now()
		if err := guard(contract, now); err != nil {
			return err
		}
		if !contract.Status.CanTransition(next) {
			return types.NewConflictError(
				fmt.Sprintf("contract cannot move to %s", next), string(contract.Status))
		}

		oldStatus = contract.Status
		contract.Status = next
		if err := s.contractRepo.WithTx(tx).Save(ctx, contract); err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}
		if jobStep != nil {
			return jobStep(ctx, tx, contract)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.announceTransition(ctx, contract, oldStatus, eventType)
	return contract, nil
}

func (s *ContractService) announceTransition(ctx context.Context, contract *models.Contract, oldStatus models.ContractStatus, eventType notifications.EventType) {
	event := notifications.NewEvent(eventType, []uint{contract.ClientID, contract.WorkerID})
	event.OldStatus = string(oldStatus)
	event.NewStatus = string(contract.Status)
	event.Data["contract_id"] = contract.ID
	event.Data["rate"] = contract.Rate
	if contract.JobID != nil {
		if job, err := s.jobRepo.GetByID(ctx, *contract.JobID); err == nil && job != nil {
			event.Data["job_title"] = job.Title
		}
	}
	publishEvent(s.dispatcher, event)
}
