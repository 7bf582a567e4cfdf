package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/logger"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/types"
)

// InvitationService tracks client-initiated invitations of specific
// workers to specific jobs. It runs the same agreement protocol as the
// application tracker, with two differences: the client initiates, and
// every transition is guarded by the invitation's expiry window.
type InvitationService struct {
	db             *gorm.DB
	invitationRepo *repos.InvitationRepository
	jobRepo        *repos.JobRepository
	contracts      *ContractService
	limiter        AdmissionLimiter
	dispatcher     notifications.Dispatcher
	ttl            time.Duration
}

// NewInvitationService creates a new invitation service instance. A
// non-positive ttl falls back to the default window.
func NewInvitationService(db *gorm.DB, invitationRepo *repos.InvitationRepository, jobRepo *repos.JobRepository, contracts *ContractService, limiter AdmissionLimiter, dispatcher notifications.Dispatcher, ttl time.Duration) *InvitationService {
	if ttl <= 0 {
		ttl = models.DefaultInvitationTTL
	}
	return &InvitationService{
		db:             db,
		invitationRepo: invitationRepo,
		jobRepo:        jobRepo,
		contracts:      contracts,
		limiter:        limiter,
		dispatcher:     dispatcher,
		ttl:            ttl,
	}
}

// Invite creates a pending invitation from a verified client to a
// worker for one of the client's open jobs. At most one non-terminal
// invitation may exist per (client, worker, job); the check runs inside
// the creating transaction so concurrent invites cannot both pass.
func (s *InvitationService) Invite(ctx context.Context, actor types.Actor, jobID uint, req *types.InviteRequest) (*models.Invitation, error) {
	if err := requireVerified(actor, types.RoleClient); err != nil {
		return nil, err
	}
	if req.WorkerID == 0 {
		return nil, types.NewValidationError("worker_id", "must be set")
	}
	if err := s.limiter.Allow(ActorKey(actor.ID), PolicyInvitation); err != nil {
		return nil, err
	}

	var inv *models.Invitation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		job, err := s.jobRepo.WithTx(tx).GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job == nil {
			return types.NewNotFoundError("job", jobID)
		}
		if job.ClientID != actor.ID {
			return types.NewAuthorizationError("only the job owner can invite workers")
		}
		if job.Status != models.JobStatusOpen {
			return types.NewConflictError("job is not open for invitations", string(job.Status))
		}

		exists, err := s.invitationRepo.WithTx(tx).ExistsNonTerminal(ctx, actor.ID, req.WorkerID, jobID)
		if err != nil {
			return err
		}
		if exists {
			return types.NewConflictError("an open invitation already exists for this worker and job", "")
		}

		inv = &models.Invitation{
			JobID:        jobID,
			WorkerID:     req.WorkerID,
			ClientID:     actor.ID,
			Description:  req.Description,
			ProposedRate: req.ProposedRate,
			ExpiresAt:    time.Now().Add(s.ttl),
			Negotiation:  models.Negotiation{Status: models.OfferStatusPending},
		}
		if err := s.invitationRepo.WithTx(tx).Create(ctx, inv); err != nil {
			return fmt.Errorf("failed to create invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := notifications.NewEvent(notifications.EventInvitationReceived, []uint{inv.WorkerID})
	event.NewStatus = string(inv.Status)
	event.Data["proposed_rate"] = inv.ProposedRate
	publishEvent(s.dispatcher, event)

	return inv, nil
}

// StartDiscussion moves a pending invitation into discussion.
func (s *InvitationService) StartDiscussion(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, error) {
	inv, _, err := s.partyInvitation(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	changed, err := startDiscussion(&inv.Negotiation, time.Now())
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.invitationRepo.Save(ctx, inv); err != nil {
			return nil, fmt.Errorf("failed to update invitation: %w", err)
		}
	}
	return inv, nil
}

// MarkAgreement flags agreement for the calling party.
func (s *InvitationService) MarkAgreement(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, error) {
	inv, role, err := s.partyInvitation(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}

	changed, err := markAgreement(&inv.Negotiation, role)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.invitationRepo.Save(ctx, inv); err != nil {
			return nil, fmt.Errorf("failed to update invitation: %w", err)
		}
	}
	return inv, nil
}

// Accept promotes a mutually agreed invitation into a contract. The
// invited worker accepts.
func (s *InvitationService) Accept(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, *models.Contract, error) {
	if err := s.limiter.Allow(ActorKey(actor.ID), PolicyContract); err != nil {
		return nil, nil, err
	}

	var inv *models.Invitation
	var contract *models.Contract
	var jobTitle string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = s.invitationRepo.WithTx(tx).GetByID(ctx, invitationID)
		if err != nil {
			return err
		}
		if inv == nil {
			return types.NewNotFoundError("invitation", invitationID)
		}
		if actor.ID != inv.WorkerID {
			return types.NewAuthorizationError("only the invited worker can accept an invitation")
		}
		if inv.Expired(time.Now()) {
			return types.NewExpiredError("invitation", inv.ExpiresAt)
		}
		if inv.Status.Terminal() {
			return types.NewConflictError("invitation is in a terminal state", string(inv.Status))
		}
		if inv.Status != models.OfferStatusBothAgreed {
			return types.NewConflictError("both parties must agree before acceptance", string(inv.Status))
		}

		job, err := s.jobRepo.WithTx(tx).GetByID(ctx, inv.JobID)
		if err != nil {
			return err
		}
		if job == nil {
			return types.NewNotFoundError("job", inv.JobID)
		}
		jobTitle = job.Title

		rate := inv.ProposedRate
		if rate <= 0 {
			rate = job.Price
		}
		description := inv.Description
		if description == "" {
			description = job.Description
		}

		contract, err = s.contracts.promoteTx(ctx, tx, promotion{
			JobID:       inv.JobID,
			ClientID:    inv.ClientID,
			WorkerID:    inv.WorkerID,
			OriginType:  models.OriginInvitation,
			OriginID:    inv.ID,
			Rate:        rate,
			Description: description,
		})
		if err != nil {
			return err
		}

		now := time.Now()
		inv.Status = models.OfferStatusAccepted
		inv.AgreementCompletedAt = &now
		inv.RespondedAt = &now
		if err := s.invitationRepo.WithTx(tx).Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to update invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	event := notifications.NewEvent(notifications.EventOfferAccepted, []uint{inv.ClientID})
	event.NewStatus = string(inv.Status)
	event.Data["job_title"] = jobTitle
	event.Data["rate"] = contract.Rate
	publishEvent(s.dispatcher, event)
	s.contracts.announceCreated(contract, jobTitle)

	return inv, contract, nil
}

// Reject terminally declines an invitation. Worker only.
func (s *InvitationService) Reject(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, error) {
	inv, role, err := s.partyInvitation(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}
	if role != types.RoleWorker {
		return nil, types.NewAuthorizationError("only the invited worker can reject an invitation")
	}

	if err := closeOffer(&inv.Negotiation, models.OfferStatusRejected, time.Now()); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	event := notifications.NewEvent(notifications.EventOfferRejected, []uint{inv.ClientID})
	event.NewStatus = string(inv.Status)
	publishEvent(s.dispatcher, event)

	return inv, nil
}

// Withdraw terminally retracts an invitation. Client only, allowed
// while no agreement has been flagged yet.
func (s *InvitationService) Withdraw(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, error) {
	inv, role, err := s.partyInvitation(ctx, actor, invitationID)
	if err != nil {
		return nil, err
	}
	if role != types.RoleClient {
		return nil, types.NewAuthorizationError("only the inviting client can withdraw an invitation")
	}
	if err := ensureOpen(&inv.Negotiation); err != nil {
		return nil, err
	}
	if !withdrawable(&inv.Negotiation) {
		return nil, types.NewConflictError("invitation can no longer be withdrawn", string(inv.Status))
	}

	if err := closeOffer(&inv.Negotiation, models.OfferStatusWithdrawn, time.Now()); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}

	event := notifications.NewEvent(notifications.EventOfferWithdrawn, []uint{inv.WorkerID})
	event.NewStatus = string(inv.Status)
	publishEvent(s.dispatcher, event)

	return inv, nil
}

// Get retrieves an invitation visible to the actor.
func (s *InvitationService) Get(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, types.NewNotFoundError("invitation", invitationID)
	}
	if actor.ID != inv.ClientID && actor.ID != inv.WorkerID && !actor.IsAdmin() {
		return nil, types.NewAuthorizationError("actor is not a party to this invitation")
	}
	return inv, nil
}

// ListForActor lists the invitations the actor sent or received.
func (s *InvitationService) ListForActor(ctx context.Context, actor types.Actor, opts *models.ListOptions) ([]models.Invitation, error) {
	if actor.IsClient() {
		return s.invitationRepo.ListByClient(ctx, actor.ID, opts)
	}
	return s.invitationRepo.ListByWorker(ctx, actor.ID, opts)
}

// SweepExpired retires stale pending invitations to cancelled. The pass
// is idempotent: the flip is conditional on the current status, so
// rerunning it, or racing a request-path transition, changes nothing
// twice. Returns the number of invitations retired.
func (s *InvitationService) SweepExpired(ctx context.Context) (int64, error) {
	now := time.Now()

	// listed first for event emission; the conditional update below is
	// what actually decides, so an invitation that transitions between
	// the two statements at worst misses or gets a spurious best-effort
	// notification
	stale, err := s.invitationRepo.ListExpiredPending(ctx, now)
	if err != nil {
		return 0, err
	}

	n, err := s.invitationRepo.ExpirePending(ctx, now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Infof("invitation sweep retired %d stale invitations", n)
		for _, inv := range stale {
			event := notifications.NewEvent(notifications.EventInvitationExpired, []uint{inv.ClientID, inv.WorkerID})
			event.OldStatus = string(models.OfferStatusPending)
			event.NewStatus = string(models.OfferStatusCancelled)
			publishEvent(s.dispatcher, event)
		}
	}
	return n, nil
}

// partyInvitation loads the invitation, resolves the actor's role on
// it, and applies the expiry guard every transition shares.
func (s *InvitationService) partyInvitation(ctx context.Context, actor types.Actor, invitationID uint) (*models.Invitation, types.Role, error) {
	inv, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, "", err
	}
	if inv == nil {
		return nil, "", types.NewNotFoundError("invitation", invitationID)
	}
	role, err := partyRole(actor, inv.ClientID, inv.WorkerID)
	if err != nil {
		return nil, "", err
	}
	if inv.Expired(time.Now()) {
		return nil, "", types.NewExpiredError("invitation", inv.ExpiresAt)
	}
	return inv, role, nil
}
