package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/types"
)

// FeedbackService records ratings between the parties of completed
// contracts.
type FeedbackService struct {
	feedbackRepo *repos.FeedbackRepository
	contractRepo *repos.ContractRepository
	limiter      AdmissionLimiter
}

// NewFeedbackService creates a new feedback service instance
func NewFeedbackService(feedbackRepo *repos.FeedbackRepository, contractRepo *repos.ContractRepository, limiter AdmissionLimiter) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		contractRepo: contractRepo,
		limiter:      limiter,
	}
}

// Submit records the actor's rating of the other contract party. The
// contract must be completed, and each party may submit once;
// resubmission returns a conflict rather than overwriting.
func (s *FeedbackService) Submit(ctx context.Context, actor types.Actor, contractID uint, req *types.SubmitFeedbackRequest) (*models.Feedback, error) {
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, types.NewValidationError("rating",
			fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating))
	}
	if err := s.limiter.Allow(ActorKey(actor.ID), PolicyFeedback); err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, types.NewNotFoundError("contract", contractID)
	}
	if !contract.PartyOf(actor.ID) {
		return nil, types.NewAuthorizationError("only a contract party can submit feedback")
	}
	if contract.Status != models.ContractStatusCompleted {
		return nil, types.NewConflictError("feedback requires a completed contract", string(contract.Status))
	}

	exists, err := s.feedbackRepo.ExistsForContractAuthor(ctx, contractID, actor.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, types.NewConflictError("feedback already submitted for this contract", "")
	}

	recipientID := contract.WorkerID
	if actor.ID == contract.WorkerID {
		recipientID = contract.ClientID
	}

	fb := &models.Feedback{
		ContractID:  contractID,
		AuthorID:    actor.ID,
		RecipientID: recipientID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewConflictError("feedback already submitted for this contract", "")
		}
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return fb, nil
}

// ListForWorker returns the feedback an actor has received together
// with their average rating.
func (s *FeedbackService) ListForWorker(ctx context.Context, recipientID uint, opts *models.ListOptions) ([]models.Feedback, float64, error) {
	feedback, err := s.feedbackRepo.ListByRecipient(ctx, recipientID, opts)
	if err != nil {
		return nil, 0, err
	}
	avg, err := s.feedbackRepo.AverageForRecipient(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}
	return feedback, avg, nil
}
