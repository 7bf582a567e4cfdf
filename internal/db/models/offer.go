package models

import (
	"fmt"
	"time"
)

// OfferStatus represents the negotiation state shared by applications
// and invitations.
type OfferStatus string

// Offer status constants
const (
	// OfferStatusPending indicates the offer was created and not yet discussed
	OfferStatusPending OfferStatus = "pending"
	// OfferStatusInDiscussion indicates either party opened the discussion
	OfferStatusInDiscussion OfferStatus = "in_discussion"
	// OfferStatusClientAgreed indicates only the client flagged agreement
	OfferStatusClientAgreed OfferStatus = "client_agreed"
	// OfferStatusWorkerAgreed indicates only the worker flagged agreement
	OfferStatusWorkerAgreed OfferStatus = "worker_agreed"
	// OfferStatusBothAgreed indicates both parties flagged agreement
	OfferStatusBothAgreed OfferStatus = "both_agreed"
	// OfferStatusAccepted indicates the offer was promoted to a contract; terminal
	OfferStatusAccepted OfferStatus = "accepted"
	// OfferStatusRejected indicates the receiving party declined; terminal
	OfferStatusRejected OfferStatus = "rejected"
	// OfferStatusWithdrawn indicates the initiating party retracted; terminal
	OfferStatusWithdrawn OfferStatus = "withdrawn"
	// OfferStatusCancelled indicates the expiry sweep retired the offer; terminal
	OfferStatusCancelled OfferStatus = "cancelled"
)

// ParseOfferStatus converts a string representation to OfferStatus.
func ParseOfferStatus(str string) (OfferStatus, error) {
	switch s := OfferStatus(str); s {
	case OfferStatusPending, OfferStatusInDiscussion, OfferStatusClientAgreed,
		OfferStatusWorkerAgreed, OfferStatusBothAgreed, OfferStatusAccepted,
		OfferStatusRejected, OfferStatusWithdrawn, OfferStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("invalid offer status: %s", str)
}

// Terminal reports whether the status is absorbing: once reached, no
// further transition on the offer succeeds.
func (s OfferStatus) Terminal() bool {
	switch s {
	case OfferStatusAccepted, OfferStatusRejected, OfferStatusWithdrawn, OfferStatusCancelled:
		return true
	}
	return false
}

// Negotiation holds the agreement-protocol state embedded in both offer
// kinds so the transition logic is written once.
type Negotiation struct {
	Status               OfferStatus `json:"status" gorm:"not null;default:pending;index"`
	ClientAgreed         bool        `json:"client_agreed" gorm:"not null;default:false"`
	WorkerAgreed         bool        `json:"worker_agreed" gorm:"not null;default:false"`
	DiscussionStartedAt  *time.Time  `json:"discussion_started_at,omitempty"`
	AgreementCompletedAt *time.Time  `json:"agreement_completed_at,omitempty"`
	RespondedAt          *time.Time  `json:"responded_at,omitempty"`
}

// AgreedStatus derives the negotiation status from the agreement flags.
// It is only meaningful while the offer is in the agreement phase.
func (n *Negotiation) AgreedStatus() OfferStatus {
	switch {
	case n.ClientAgreed && n.WorkerAgreed:
		return OfferStatusBothAgreed
	case n.ClientAgreed:
		return OfferStatusClientAgreed
	case n.WorkerAgreed:
		return OfferStatusWorkerAgreed
	}
	return OfferStatusInDiscussion
}
