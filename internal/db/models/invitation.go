package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultInvitationTTL is the validity window of a new invitation.
const DefaultInvitationTTL = 7 * 24 * time.Hour

// Invitation is a client's offer of a specific job to a specific
// worker. Unlike applications it carries an expiry: once ExpiresAt has
// passed, every transition fails and the periodic sweep retires stale
// pending invitations to cancelled. At most one non-terminal invitation
// exists per (client, worker, job) triple; that is checked inside the
// creating transaction since it cannot be a plain unique index.
type Invitation struct {
	gorm.Model
	JobID        uint      `json:"job_id" gorm:"not null;index"`
	WorkerID     uint      `json:"worker_id" gorm:"not null;index"`
	ClientID     uint      `json:"client_id" gorm:"not null;index"`
	Description  string    `json:"description" gorm:"type:text"`
	ProposedRate float64   `json:"proposed_rate"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null;index"`
	Negotiation  `gorm:"embedded"`
}

// Expired reports whether the invitation's window has passed.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
