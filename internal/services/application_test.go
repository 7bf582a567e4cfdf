package services

import (
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/types"
)

func (s *ServiceTestSuite) TestApplyCreatesPendingApplication() {
	job := s.postVerifiedJob(500)

	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{
		Message:      "I have done a dozen of these.",
		ProposedRate: 450,
	})
	s.Require().NoError(err)
	s.Equal(models.OfferStatusPending, app.Status)
	s.Equal(job.ClientID, app.ClientID)

	received := s.dispatcher.OfType(notifications.EventApplicationReceived)
	s.Require().Len(received, 1)
	s.Equal([]uint{s.client.ID}, received[0].Recipients)
}

func (s *ServiceTestSuite) TestApplyTwiceConflicts() {
	job := s.postVerifiedJob(500)

	_, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)

	_, err = s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 400})
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestApplyGuards() {
	job := s.postVerifiedJob(500)

	// unverified workers cannot apply
	_, err := s.applications.Apply(s.ctx, types.Actor{ID: 8, Role: types.RoleWorker}, job.ID, &types.ApplyRequest{})
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)

	// unverified jobs are invisible
	unverified, err := s.jobs.Create(s.ctx, s.client, &types.CreateJobRequest{
		Title:       "Garden fence repair",
		Description: "Replace three broken fence panels in the back garden.",
		Price:       200,
		CategoryID:  3,
	})
	s.Require().NoError(err)
	_, err = s.applications.Apply(s.ctx, s.worker, unverified.ID, &types.ApplyRequest{})
	var notFound *types.NotFoundError
	s.Require().ErrorAs(err, &notFound)

	// closed jobs conflict
	_, err = s.jobs.Cancel(s.ctx, s.client, job.ID)
	s.Require().NoError(err)
	_, err = s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{})
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestApplicationRateLimit() {
	job := s.postVerifiedJob(500)

	limit := PolicyApplication.Limit
	for i := 0; i < limit; i++ {
		actor := types.Actor{ID: 100, Role: types.RoleWorker, Verified: true}
		_, err := s.applications.Apply(s.ctx, actor, job.ID, &types.ApplyRequest{})
		if i == 0 {
			s.Require().NoError(err)
		}
	}

	_, err := s.applications.Apply(s.ctx, types.Actor{ID: 100, Role: types.RoleWorker, Verified: true},
		job.ID, &types.ApplyRequest{})
	var limited *types.RateLimitedError
	s.Require().ErrorAs(err, &limited)
	s.Equal(PolicyApplication.Name, limited.Policy)
}

func (s *ServiceTestSuite) TestAcceptRequiresMutualAgreement() {
	job := s.postVerifiedJob(500)
	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)

	// pending: no shortcut to accepted
	_, _, err = s.applications.Accept(s.ctx, s.client, app.ID)
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)

	// one-sided agreement is not enough either
	_, err = s.applications.StartDiscussion(s.ctx, s.worker, app.ID)
	s.Require().NoError(err)
	_, err = s.applications.MarkAgreement(s.ctx, s.client, app.ID)
	s.Require().NoError(err)
	_, _, err = s.applications.Accept(s.ctx, s.client, app.ID)
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestAcceptPromotesToContract() {
	job := s.postVerifiedJob(500)
	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{
		Message:      "Available immediately.",
		ProposedRate: 450,
	})
	s.Require().NoError(err)
	s.agreeApplication(app.ID, s.worker)

	accepted, contract, err := s.applications.Accept(s.ctx, s.client, app.ID)
	s.Require().NoError(err)

	s.Equal(models.OfferStatusAccepted, accepted.Status)
	s.Require().NotNil(accepted.AgreementCompletedAt)

	s.Equal(models.ContractStatusActive, contract.Status)
	s.Equal(models.OriginApplication, contract.OriginType)
	s.Equal(app.ID, contract.OriginID)
	s.Equal(float64(450), contract.Rate)

	updated, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInProgress, updated.Status)
	s.Require().NotNil(updated.HiredWorkerID)
	s.Equal(s.worker.ID, *updated.HiredWorkerID)

	s.Len(s.dispatcher.OfType(notifications.EventOfferAccepted), 1)
	s.Len(s.dispatcher.OfType(notifications.EventContractCreated), 1)
}

func (s *ServiceTestSuite) TestAcceptOnlyClient() {
	job := s.postVerifiedJob(500)
	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)
	s.agreeApplication(app.ID, s.worker)

	_, _, err = s.applications.Accept(s.ctx, s.worker, app.ID)
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)
}

func (s *ServiceTestSuite) TestSecondAcceptOnSameJobConflicts() {
	job := s.postVerifiedJob(500)
	otherWorker := types.Actor{ID: 8, Role: types.RoleWorker, Verified: true}

	first, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)
	second, err := s.applications.Apply(s.ctx, otherWorker, job.ID, &types.ApplyRequest{ProposedRate: 400})
	s.Require().NoError(err)

	s.agreeApplication(first.ID, s.worker)
	s.agreeApplication(second.ID, otherWorker)

	_, _, err = s.applications.Accept(s.ctx, s.client, first.ID)
	s.Require().NoError(err)

	// the job is no longer open, so the second agreed application
	// cannot be promoted and no second contract appears
	_, _, err = s.applications.Accept(s.ctx, s.client, second.ID)
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)

	var count int64
	s.Require().NoError(s.db.Model(&models.Contract{}).Count(&count).Error)
	s.Equal(int64(1), count)

	// the losing application is untouched and can still be rejected
	kept, err := s.applications.Get(s.ctx, s.client, second.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusBothAgreed, kept.Status)
}

func (s *ServiceTestSuite) TestRejectAndWithdraw() {
	job := s.postVerifiedJob(500)
	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)

	// only the worker can withdraw, only the client can reject
	var authErr *types.AuthorizationError
	_, err = s.applications.Withdraw(s.ctx, s.client, app.ID)
	s.Require().ErrorAs(err, &authErr)
	_, err = s.applications.Reject(s.ctx, s.worker, app.ID)
	s.Require().ErrorAs(err, &authErr)

	rejected, err := s.applications.Reject(s.ctx, s.client, app.ID)
	s.Require().NoError(err)
	s.Equal(models.OfferStatusRejected, rejected.Status)
	s.Require().NotNil(rejected.RespondedAt)
	s.Len(s.dispatcher.OfType(notifications.EventOfferRejected), 1)

	// terminal state absorbs everything after it
	var conflict *types.ConflictError
	_, err = s.applications.Withdraw(s.ctx, s.worker, app.ID)
	s.Require().ErrorAs(err, &conflict)
	_, err = s.applications.StartDiscussion(s.ctx, s.worker, app.ID)
	s.Require().ErrorAs(err, &conflict)
	_, _, err = s.applications.Accept(s.ctx, s.client, app.ID)
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestWithdrawOnlyBeforeAgreement() {
	job := s.postVerifiedJob(500)
	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)

	_, err = s.applications.StartDiscussion(s.ctx, s.worker, app.ID)
	s.Require().NoError(err)
	_, err = s.applications.MarkAgreement(s.ctx, s.client, app.ID)
	s.Require().NoError(err)

	_, err = s.applications.Withdraw(s.ctx, s.worker, app.ID)
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestMarkAgreementIdempotent() {
	job := s.postVerifiedJob(500)
	app, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)

	_, err = s.applications.StartDiscussion(s.ctx, s.worker, app.ID)
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		app, err = s.applications.MarkAgreement(s.ctx, s.worker, app.ID)
		s.Require().NoError(err)
		s.Equal(models.OfferStatusWorkerAgreed, app.Status)
	}
}

func (s *ServiceTestSuite) TestListApplications() {
	job := s.postVerifiedJob(500)
	_, err := s.applications.Apply(s.ctx, s.worker, job.ID, &types.ApplyRequest{ProposedRate: 450})
	s.Require().NoError(err)

	byJob, err := s.applications.ListForJob(s.ctx, s.client, job.ID, nil)
	s.Require().NoError(err)
	s.Len(byJob, 1)

	// a non-owner cannot enumerate a job's applications
	_, err = s.applications.ListForJob(s.ctx, s.worker, job.ID, nil)
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)

	mine, err := s.applications.ListForWorker(s.ctx, s.worker, nil)
	s.Require().NoError(err)
	s.Len(mine, 1)
}
