package repos

import (
	"time"

	"github.com/workbridge/workbridge/internal/db/models"
)

func (s *RepositoryTestSuite) newInvitation(jobID, clientID, workerID uint, status models.OfferStatus, expiresAt time.Time) *models.Invitation {
	inv := &models.Invitation{
		JobID:        jobID,
		ClientID:     clientID,
		WorkerID:     workerID,
		Description:  "Weekend gardening work",
		ProposedRate: 30,
		ExpiresAt:    expiresAt,
		Negotiation:  models.Negotiation{Status: status},
	}
	s.Require().NoError(s.invitationRepo.Create(s.ctx, inv))
	return inv
}

func (s *RepositoryTestSuite) TestInvitationExistsNonTerminal() {
	job := s.newJob(1)
	future := time.Now().Add(time.Hour)

	exists, err := s.invitationRepo.ExistsNonTerminal(s.ctx, 1, 7, job.ID)
	s.Require().NoError(err)
	s.False(exists)

	s.newInvitation(job.ID, 1, 7, models.OfferStatusPending, future)

	exists, err = s.invitationRepo.ExistsNonTerminal(s.ctx, 1, 7, job.ID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RepositoryTestSuite) TestInvitationTerminalDoesNotBlockReinvite() {
	job := s.newJob(1)
	future := time.Now().Add(time.Hour)

	inv := s.newInvitation(job.ID, 1, 7, models.OfferStatusPending, future)
	inv.Status = models.OfferStatusRejected
	s.Require().NoError(s.invitationRepo.Save(s.ctx, inv))

	exists, err := s.invitationRepo.ExistsNonTerminal(s.ctx, 1, 7, job.ID)
	s.Require().NoError(err)
	s.False(exists, "a rejected invitation must not block a new one")
}

func (s *RepositoryTestSuite) TestExpirePendingOnlyTouchesStalePending() {
	job := s.newJob(1)
	now := time.Now()

	stale := s.newInvitation(job.ID, 1, 7, models.OfferStatusPending, now.Add(-time.Minute))
	fresh := s.newInvitation(job.ID, 1, 8, models.OfferStatusPending, now.Add(time.Hour))
	discussing := s.newInvitation(job.ID, 1, 9, models.OfferStatusInDiscussion, now.Add(-time.Minute))

	n, err := s.invitationRepo.ExpirePending(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	got, err := s.invitationRepo.GetByID(s.ctx, stale.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusCancelled, got.Status)
	s.NotNil(got.RespondedAt)

	got, err = s.invitationRepo.GetByID(s.ctx, fresh.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusPending, got.Status)

	got, err = s.invitationRepo.GetByID(s.ctx, discussing.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusInDiscussion, got.Status)

	// a second sweep finds nothing to do
	n, err = s.invitationRepo.ExpirePending(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(int64(0), n)
}
