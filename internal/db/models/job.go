package models

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	// JobCreatedAtField is the database field name for the job creation timestamp
	JobCreatedAtField = "created_at"

	// MinDescriptionLen is the minimum accepted job description length
	MinDescriptionLen = 20
	// MaxDescriptionLen is the maximum accepted job description length
	MaxDescriptionLen = 2000
	// MaxJobPrice is the maximum accepted job price
	MaxJobPrice = 1000000
)

// JobStatus represents the lifecycle state of a job posting.
type JobStatus string

// Job status constants
const (
	// JobStatusOpen indicates the job accepts offers; no active contract exists
	JobStatusOpen JobStatus = "open"
	// JobStatusInProgress indicates an active contract engages a worker
	JobStatusInProgress JobStatus = "in_progress"
	// JobStatusCompleted indicates the job's contract completed
	JobStatusCompleted JobStatus = "completed"
	// JobStatusCancelled indicates the owner cancelled the posting; terminal
	JobStatusCancelled JobStatus = "cancelled"
)

// ParseJobStatus converts a string representation of a job status to JobStatus type
func ParseJobStatus(str string) (JobStatus, error) {
	switch s := JobStatus(str); s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("invalid job status: %s", str)
}

// Job represents a work opportunity posted by a client. After posting,
// its status is written only by the contract engine; the single public
// status write is owner cancellation while open.
type Job struct {
	gorm.Model
	ClientID      uint      `json:"client_id" gorm:"not null;index"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"not null;type:text"`
	Price         float64   `json:"price" gorm:"not null"`
	Location      string    `json:"location"`
	CategoryID    uint      `json:"category_id" gorm:"not null;index"`
	Status        JobStatus `json:"status" gorm:"not null;default:open;index"`
	HiredWorkerID *uint     `json:"hired_worker_id,omitempty" gorm:"index"`
	IsVerified    bool      `json:"is_verified" gorm:"not null;default:false;index"`
}

// Terminal reports whether the job status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCancelled
}
