package models

import "gorm.io/gorm"

// Application is a worker's bid on an open job. At most one application
// exists per (job, worker) pair; the composite unique index makes the
// store enforce that under concurrent writes.
type Application struct {
	gorm.Model
	JobID    uint `json:"job_id" gorm:"not null;uniqueIndex:idx_applications_job_worker"`
	WorkerID uint `json:"worker_id" gorm:"not null;uniqueIndex:idx_applications_job_worker;index"`
	// ClientID is denormalized from the job for query efficiency.
	ClientID     uint    `json:"client_id" gorm:"not null;index"`
	Message      string  `json:"message" gorm:"type:text"`
	ProposedRate float64 `json:"proposed_rate"`
	Negotiation  `gorm:"embedded"`
}
