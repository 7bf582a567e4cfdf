package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/db/models"
)

// FeedbackRepository provides access to feedback-related database operations
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository instance
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a new feedback record. The (contract_id, author_id)
// unique index rejects resubmission at the store level.
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

// ExistsForContractAuthor reports whether the author already rated the contract
func (r *FeedbackRepository) ExistsForContractAuthor(ctx context.Context, contractID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where(&models.Feedback{ContractID: contractID, AuthorID: authorID}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count > 0, nil
}

// ListByRecipient returns the feedback left about an actor
func (r *FeedbackRepository) ListByRecipient(ctx context.Context, recipientID uint, opts *models.ListOptions) ([]models.Feedback, error) {
	opts.Normalize()
	var feedback []models.Feedback
	err := r.db.WithContext(ctx).
		Where(&models.Feedback{RecipientID: recipientID}).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&feedback).Error
	return feedback, err
}

// AverageForRecipient returns the mean rating an actor has received,
// or 0 when no feedback exists.
func (r *FeedbackRepository) AverageForRecipient(ctx context.Context, recipientID uint) (float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&models.Feedback{}).
		Where(&models.Feedback{RecipientID: recipientID}).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average feedback: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
