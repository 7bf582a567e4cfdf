package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
)

// nonTerminalOfferStatuses is the set of statuses an invitation can
// still move out of.
var nonTerminalOfferStatuses = []models.OfferStatus{
	models.OfferStatusPending,
	models.OfferStatusInDiscussion,
	models.OfferStatusClientAgreed,
	models.OfferStatusWorkerAgreed,
	models.OfferStatusBothAgreed,
}

// InvitationRepository provides access to invitation-related database operations
type InvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository instance
func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *InvitationRepository) WithTx(tx *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: tx}
}

// Create inserts a new invitation
func (r *InvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

// Save persists all fields of an existing invitation
func (r *InvitationRepository) Save(ctx context.Context, inv *models.Invitation) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

// GetByID retrieves a live invitation by its ID
func (r *InvitationRepository) GetByID(ctx context.Context, id uint) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.db.WithContext(ctx).First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return &inv, nil
}

// ExistsNonTerminal reports whether a non-terminal invitation already
// exists for the (client, worker, job) triple. Callers run this inside
// the same transaction as the insert to make the check atomic.
func (r *InvitationRepository) ExistsNonTerminal(ctx context.Context, clientID, workerID, jobID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where(&models.Invitation{ClientID: clientID, WorkerID: workerID, JobID: jobID}).
		Where("status IN ?", nonTerminalOfferStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count invitations: %w", err)
	}
	return count > 0, nil
}

// ListByClient returns the invitations a client has sent
func (r *InvitationRepository) ListByClient(ctx context.Context, clientID uint, opts *models.ListOptions) ([]models.Invitation, error) {
	opts.Normalize()
	var invs []models.Invitation
	err := r.db.WithContext(ctx).
		Where(&models.Invitation{ClientID: clientID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// ListByWorker returns the invitations a worker has received
func (r *InvitationRepository) ListByWorker(ctx context.Context, workerID uint, opts *models.ListOptions) ([]models.Invitation, error) {
	opts.Normalize()
	var invs []models.Invitation
	err := r.db.WithContext(ctx).
		Where(&models.Invitation{WorkerID: workerID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&invs).Error
	return invs, err
}

// ExpirePending flips all pending invitations whose window has passed
// to cancelled and returns how many rows changed. The write is
// conditional on the current status, so concurrent sweeps and
// request-path transitions cannot double-fire.
func (r *InvitationRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.OfferStatusPending, now).
		Updates(map[string]interface{}{
			"status":       models.OfferStatusCancelled,
			"responded_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire invitations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListExpiredPending returns pending invitations whose window has
// passed, for event emission after a sweep.
func (r *InvitationRepository) ListExpiredPending(ctx context.Context, now time.Time) ([]models.Invitation, error) {
	var invs []models.Invitation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", models.OfferStatusPending, now).
		Find(&invs).Error
	return invs, err
}
