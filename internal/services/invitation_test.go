package services

import (
	"time"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/types"
)

func (s *ServiceTestSuite) TestInviteCreatesPendingInvitation() {
	job := s.postVerifiedJob(500)

	inv, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{
		WorkerID:     s.worker.ID,
		Description:  "Saw your profile, this job looks like a good fit.",
		ProposedRate: 480,
	})
	s.Require().NoError(err)
	s.Equal(models.OfferStatusPending, inv.Status)
	s.WithinDuration(time.Now().Add(time.Hour), inv.ExpiresAt, 5*time.Second)

	received := s.dispatcher.OfType(notifications.EventInvitationReceived)
	s.Require().Len(received, 1)
	s.Equal([]uint{s.worker.ID}, received[0].Recipients)
}

func (s *ServiceTestSuite) TestInviteGuards() {
	job := s.postVerifiedJob(500)

	// only the job owner can invite
	otherClient := types.Actor{ID: 2, Role: types.RoleClient, Verified: true}
	_, err := s.invitations.Invite(s.ctx, otherClient, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)

	// at most one open invitation per (client, worker, job)
	_, err = s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)
	_, err = s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)

	// a different worker is fine
	_, err = s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: 8})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestReinviteAfterTerminal() {
	job := s.postVerifiedJob(500)

	inv, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)
	_, err = s.invitations.Reject(s.ctx, s.worker, inv.ID)
	s.Require().NoError(err)

	// a rejected invitation no longer blocks a new one
	_, err = s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestInvitationAcceptPromotesToContract() {
	job := s.postVerifiedJob(500)

	inv, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{
		WorkerID:     s.worker.ID,
		ProposedRate: 480,
	})
	s.Require().NoError(err)

	_, err = s.invitations.StartDiscussion(s.ctx, s.worker, inv.ID)
	s.Require().NoError(err)
	_, err = s.invitations.MarkAgreement(s.ctx, s.client, inv.ID)
	s.Require().NoError(err)
	inv, err = s.invitations.MarkAgreement(s.ctx, s.worker, inv.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusBothAgreed, inv.Status)

	// the client cannot accept an invitation, only the worker
	_, _, err = s.invitations.Accept(s.ctx, s.client, inv.ID)
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)

	accepted, contract, err := s.invitations.Accept(s.ctx, s.worker, inv.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusAccepted, accepted.Status)
	s.Equal(models.ContractStatusActive, contract.Status)
	s.Equal(models.OriginInvitation, contract.OriginType)
	s.Equal(float64(480), contract.Rate)

	updated, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInProgress, updated.Status)
}

func (s *ServiceTestSuite) TestExpiredInvitationRejectsTransitions() {
	job := s.postVerifiedJob(500)
	inv, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)

	s.backdateInvitation(inv.ID, time.Now().Add(-time.Minute))

	var expired *types.ExpiredError
	_, err = s.invitations.StartDiscussion(s.ctx, s.worker, inv.ID)
	s.Require().ErrorAs(err, &expired)
	_, err = s.invitations.MarkAgreement(s.ctx, s.worker, inv.ID)
	s.Require().ErrorAs(err, &expired)
	_, _, err = s.invitations.Accept(s.ctx, s.worker, inv.ID)
	s.Require().ErrorAs(err, &expired)
}

func (s *ServiceTestSuite) TestSweepExpiredInvitations() {
	job := s.postVerifiedJob(500)

	stale, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)
	fresh, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: 8})
	s.Require().NoError(err)

	s.backdateInvitation(stale.ID, time.Now().Add(-time.Minute))
	s.dispatcher.Reset()

	n, err := s.invitations.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	swept, err := s.invitations.Get(s.ctx, s.client, stale.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusCancelled, swept.Status)

	kept, err := s.invitations.Get(s.ctx, s.client, fresh.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusPending, kept.Status)

	events := s.dispatcher.OfType(notifications.EventInvitationExpired)
	s.Require().Len(events, 1)
	s.ElementsMatch([]uint{s.client.ID, s.worker.ID}, events[0].Recipients)

	// rerunning the sweep retires nothing further
	n, err = s.invitations.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *ServiceTestSuite) TestSweepSkipsNegotiatedInvitations() {
	job := s.postVerifiedJob(500)
	inv, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)
	_, err = s.invitations.StartDiscussion(s.ctx, s.worker, inv.ID)
	s.Require().NoError(err)

	s.backdateInvitation(inv.ID, time.Now().Add(-time.Minute))

	// the sweep only retires pending invitations; in_discussion ones
	// are left to the request-path expiry guard
	n, err := s.invitations.SweepExpired(s.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *ServiceTestSuite) TestInvitationWithdraw() {
	job := s.postVerifiedJob(500)
	inv, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)

	var authErr *types.AuthorizationError
	_, err = s.invitations.Withdraw(s.ctx, s.worker, inv.ID)
	s.Require().ErrorAs(err, &authErr)

	withdrawn, err := s.invitations.Withdraw(s.ctx, s.client, inv.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusWithdrawn, withdrawn.Status)
	s.Len(s.dispatcher.OfType(notifications.EventOfferWithdrawn), 1)
}

func (s *ServiceTestSuite) TestListInvitationsByRole() {
	job := s.postVerifiedJob(500)
	_, err := s.invitations.Invite(s.ctx, s.client, job.ID, &types.InviteRequest{WorkerID: s.worker.ID})
	s.Require().NoError(err)

	sent, err := s.invitations.ListForActor(s.ctx, s.client, nil)
	s.Require().NoError(err)
	s.Len(sent, 1)

	received, err := s.invitations.ListForActor(s.ctx, s.worker, nil)
	s.Require().NoError(err)
	s.Len(received, 1)
}

// backdateInvitation rewrites an invitation's expiry directly, standing
// in for the passage of time.
func (s *ServiceTestSuite) backdateInvitation(id uint, expiresAt time.Time) {
	err := s.db.Model(&models.Invitation{}).Where("id = ?", id).
		Update("expires_at", expiresAt).Error
	s.Require().NoError(err)
}
