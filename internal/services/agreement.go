package services

import (
	"time"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/types"
)

// The agreement protocol is the negotiation sub-flow shared by
// applications and invitations. It operates on the embedded Negotiation
// state so both trackers run the exact same transition rules:
//
//   - discussion must start before agreement can be marked
//   - agreement flags are monotonic per role and idempotent to re-mark
//   - both_agreed is reached the instant both flags are set
//   - terminal states absorb; repeat attempts return a conflict
//     carrying the current status

// partyRole resolves which side of the offer the actor is on. Actors
// that are neither party get an authorization error.
func partyRole(actor types.Actor, clientID, workerID uint) (types.Role, error) {
	switch actor.ID {
	case clientID:
		return types.RoleClient, nil
	case workerID:
		return types.RoleWorker, nil
	}
	return "", types.NewAuthorizationError("actor is not a party to this offer")
}

// ensureOpen rejects any transition on a terminal offer.
func ensureOpen(n *models.Negotiation) error {
	if n.Status.Terminal() {
		return types.NewConflictError("offer is in a terminal state", string(n.Status))
	}
	return nil
}

// startDiscussion moves a pending offer into discussion, stamping
// DiscussionStartedAt once. Calling it again past pending is a no-op.
func startDiscussion(n *models.Negotiation, now time.Time) (bool, error) {
	if err := ensureOpen(n); err != nil {
		return false, err
	}
	if n.Status != models.OfferStatusPending {
		return false, nil
	}
	n.Status = models.OfferStatusInDiscussion
	n.DiscussionStartedAt = &now
	return true, nil
}

// markAgreement sets the agreement flag for the given role and
// recomputes the status. Marking the same role twice changes nothing.
func markAgreement(n *models.Negotiation, role types.Role) (bool, error) {
	if err := ensureOpen(n); err != nil {
		return false, err
	}
	if n.Status == models.OfferStatusPending {
		return false, types.NewConflictError("discussion has not started", string(n.Status))
	}

	switch role {
	case types.RoleClient:
		if n.ClientAgreed {
			return false, nil
		}
		n.ClientAgreed = true
	case types.RoleWorker:
		if n.WorkerAgreed {
			return false, nil
		}
		n.WorkerAgreed = true
	default:
		return false, types.NewAuthorizationError("only a party can mark agreement")
	}

	n.Status = n.AgreedStatus()
	return true, nil
}

// closeOffer moves an offer to the given terminal status, stamping
// RespondedAt.
func closeOffer(n *models.Negotiation, status models.OfferStatus, now time.Time) error {
	if err := ensureOpen(n); err != nil {
		return err
	}
	n.Status = status
	n.RespondedAt = &now
	return nil
}

// withdrawable reports whether an offer can still be withdrawn by its
// initiator: only before any agreement has been flagged.
func withdrawable(n *models.Negotiation) bool {
	return n.Status == models.OfferStatusPending || n.Status == models.OfferStatusInDiscussion
}
