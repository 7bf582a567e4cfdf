package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
)

// nonTerminalContractStatuses is the set of statuses that count against
// the at-most-one-active-contract-per-job invariant.
var nonTerminalContractStatuses = []models.ContractStatus{
	models.ContractStatusActive,
	models.ContractStatusInProgress,
	models.ContractStatusAwaitingConfirmation,
}

// ContractRepository provides access to contract-related database operations
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository instance
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ContractRepository) WithTx(tx *gorm.DB) *ContractRepository {
	return &ContractRepository{db: tx}
}

// Create inserts a new contract
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

// Save persists all fields of an existing contract
func (r *ContractRepository) Save(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// GetByID retrieves a live contract by its ID
func (r *ContractRepository) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).First(&contract, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return &contract, nil
}

// ActiveForJob returns the non-terminal contract engaging the job, or
// nil when none exists. Run inside the promoting transaction to enforce
// the at-most-one invariant.
func (r *ContractRepository) ActiveForJob(ctx context.Context, jobID uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Where("status IN ?", nonTerminalContractStatuses).
		First(&contract).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active contract: %w", err)
	}
	return &contract, nil
}

// ListByActor returns the contracts the actor is a party to, on either
// side.
func (r *ContractRepository) ListByActor(ctx context.Context, actorID uint, opts *models.ListOptions) ([]models.Contract, error) {
	opts.Normalize()
	var contracts []models.Contract
	err := r.db.WithContext(ctx).
		Where("client_id = ? OR worker_id = ?", actorID, actorID).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}
