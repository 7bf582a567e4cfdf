package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ContractStatus represents the lifecycle state of a contract.
type ContractStatus string

// Contract status constants
const (
	// ContractStatusActive indicates the contract exists but work has not started
	ContractStatusActive ContractStatus = "active"
	// ContractStatusInProgress indicates the worker started work
	ContractStatusInProgress ContractStatus = "in_progress"
	// ContractStatusAwaitingConfirmation indicates the worker marked the work done
	ContractStatusAwaitingConfirmation ContractStatus = "awaiting_client_confirmation"
	// ContractStatusCompleted indicates the client confirmed completion
	ContractStatusCompleted ContractStatus = "completed"
	// ContractStatusCancelled indicates either party cancelled pre-completion
	ContractStatusCancelled ContractStatus = "cancelled"
	// ContractStatusDisputed indicates a completed contract was flagged for dispute
	ContractStatusDisputed ContractStatus = "disputed"
)

// ParseContractStatus converts a string representation to ContractStatus.
func ParseContractStatus(str string) (ContractStatus, error) {
	switch s := ContractStatus(str); s {
	case ContractStatusActive, ContractStatusInProgress, ContractStatusAwaitingConfirmation,
		ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed:
		return s, nil
	}
	return "", fmt.Errorf("invalid contract status: %s", str)
}

// Terminal reports whether the status counts against the at-most-one
// active contract invariant. A completed or disputed contract no longer
// engages the job.
func (s ContractStatus) Terminal() bool {
	switch s {
	case ContractStatusCompleted, ContractStatusCancelled, ContractStatusDisputed:
		return true
	}
	return false
}

// contractTransitions is the set of legal status edges.
var contractTransitions = map[ContractStatus][]ContractStatus{
	ContractStatusActive:               {ContractStatusInProgress, ContractStatusCancelled},
	ContractStatusInProgress:           {ContractStatusAwaitingConfirmation, ContractStatusCancelled},
	ContractStatusAwaitingConfirmation: {ContractStatusCompleted, ContractStatusCancelled},
	ContractStatusCompleted:            {ContractStatusDisputed},
}

// CanTransition reports whether the edge from s to next is legal.
func (s ContractStatus) CanTransition(next ContractStatus) bool {
	for _, allowed := range contractTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OriginType identifies which offer kind a contract was promoted from.
type OriginType string

// Origin type constants
const (
	// OriginApplication marks a contract promoted from an application
	OriginApplication OriginType = "from_application"
	// OriginInvitation marks a contract promoted from an invitation
	OriginInvitation OriginType = "from_invitation"
)

// Contract is the binding engagement created when an offer reaches
// acceptance. At most one non-terminal contract exists per job; the
// contract engine checks that inside the promoting transaction.
type Contract struct {
	gorm.Model
	ClientID uint `json:"client_id" gorm:"not null;index"`
	WorkerID uint `json:"worker_id" gorm:"not null;index"`
	// JobID is nullable in the schema for offers not tied to a job
	// posting, but this deployment always sets it.
	JobID             *uint          `json:"job_id,omitempty" gorm:"index"`
	OriginType        OriginType     `json:"origin_type" gorm:"not null"`
	OriginID          uint           `json:"origin_id" gorm:"not null;index"`
	Rate              float64        `json:"rate" gorm:"not null"`
	Description       string         `json:"description" gorm:"type:text"`
	Status            ContractStatus `json:"status" gorm:"not null;default:active;index"`
	StartDate         time.Time      `json:"start_date"`
	ActualEndDate     *time.Time     `json:"actual_end_date,omitempty"`
	WorkerCompletedAt *time.Time     `json:"worker_completed_at,omitempty"`
	ClientConfirmedAt *time.Time     `json:"client_confirmed_at,omitempty"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
}

// PartyOf reports whether the given actor id is the client or worker on
// the contract.
func (c *Contract) PartyOf(actorID uint) bool {
	return actorID == c.ClientID || actorID == c.WorkerID
}
