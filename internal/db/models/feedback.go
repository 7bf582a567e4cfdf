package models

import "gorm.io/gorm"

// Feedback rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a rating left by one contract party about the other once
// the contract has completed. One submission per author per contract;
// resubmission is rejected rather than overwritten.
type Feedback struct {
	gorm.Model
	ContractID  uint   `json:"contract_id" gorm:"not null;uniqueIndex:idx_feedback_contract_author"`
	AuthorID    uint   `json:"author_id" gorm:"not null;uniqueIndex:idx_feedback_contract_author;index"`
	RecipientID uint   `json:"recipient_id" gorm:"not null;index"`
	Rating      int    `json:"rating" gorm:"not null"`
	Comment     string `json:"comment" gorm:"type:text"`
}
