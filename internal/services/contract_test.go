package services

import (
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/types"
)

func (s *ServiceTestSuite) TestContractHappyPath() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	contract, err := s.contracts.StartWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	s.Equal(models.ContractStatusInProgress, contract.Status)

	contract, err = s.contracts.CompleteWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	s.Equal(models.ContractStatusAwaitingConfirmation, contract.Status)
	s.Require().NotNil(contract.WorkerCompletedAt)

	contract, err = s.contracts.ConfirmCompletion(s.ctx, s.client, contract.ID)
	s.Require().NoError(err)
	s.Equal(models.ContractStatusCompleted, contract.Status)
	s.Require().NotNil(contract.ClientConfirmedAt)
	s.Require().NotNil(contract.CompletedAt)

	updated, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusCompleted, updated.Status)

	s.Len(s.dispatcher.OfType(notifications.EventContractStarted), 1)
	s.Len(s.dispatcher.OfType(notifications.EventContractAwaitingConfirmation), 1)
	s.Len(s.dispatcher.OfType(notifications.EventContractCompleted), 1)
}

func (s *ServiceTestSuite) TestContractRoleGuards() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	var authErr *types.AuthorizationError

	// the client cannot act for the worker
	_, err := s.contracts.StartWork(s.ctx, s.client, contract.ID)
	s.Require().ErrorAs(err, &authErr)
	_, err = s.contracts.CompleteWork(s.ctx, s.client, contract.ID)
	s.Require().ErrorAs(err, &authErr)

	// and the worker cannot confirm their own completion
	_, err = s.contracts.StartWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.CompleteWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.ConfirmCompletion(s.ctx, s.worker, contract.ID)
	s.Require().ErrorAs(err, &authErr)

	// strangers see nothing
	stranger := types.Actor{ID: 55, Role: types.RoleWorker, Verified: true}
	_, err = s.contracts.Get(s.ctx, stranger, contract.ID)
	s.Require().ErrorAs(err, &authErr)
}

func (s *ServiceTestSuite) TestContractIllegalTransitions() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	var conflict *types.ConflictError

	// active cannot jump straight to completed
	_, err := s.contracts.ConfirmCompletion(s.ctx, s.client, contract.ID)
	s.Require().ErrorAs(err, &conflict)

	// nor can a dispute be opened before completion
	_, err = s.contracts.Dispute(s.ctx, s.client, contract.ID)
	s.Require().ErrorAs(err, &conflict)

	// work must start before it can be marked done
	_, err = s.contracts.CompleteWork(s.ctx, s.worker, contract.ID)
	s.Require().ErrorAs(err, &conflict)

	_, err = s.contracts.StartWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.CompleteWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.ConfirmCompletion(s.ctx, s.client, contract.ID)
	s.Require().NoError(err)

	// completed is terminal except for disputes
	_, err = s.contracts.Cancel(s.ctx, s.client, contract.ID)
	s.Require().ErrorAs(err, &conflict)
	_, err = s.contracts.StartWork(s.ctx, s.worker, contract.ID)
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestCancelReopensJob() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	cancelled, err := s.contracts.Cancel(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	s.Equal(models.ContractStatusCancelled, cancelled.Status)

	// the job returns to the open pool with no hired worker
	updated, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusOpen, updated.Status)
	s.Nil(updated.HiredWorkerID)

	s.Len(s.dispatcher.OfType(notifications.EventContractCancelled), 1)
}

func (s *ServiceTestSuite) TestRehireAfterCancel() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	_, err := s.contracts.Cancel(s.ctx, s.client, contract.ID)
	s.Require().NoError(err)

	// a released job can be worked again by a fresh offer
	otherWorker := types.Actor{ID: 8, Role: types.RoleWorker, Verified: true}
	app, err := s.applications.Apply(s.ctx, otherWorker, job.ID, &types.ApplyRequest{ProposedRate: 300})
	s.Require().NoError(err)
	s.agreeApplication(app.ID, otherWorker)

	_, second, err := s.applications.Accept(s.ctx, s.client, app.ID)
	s.Require().NoError(err)
	s.Equal(models.ContractStatusActive, second.Status)

	updated, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInProgress, updated.Status)
	s.Require().NotNil(updated.HiredWorkerID)
	s.Equal(otherWorker.ID, *updated.HiredWorkerID)
}

func (s *ServiceTestSuite) TestDisputeCompletedContract() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	_, err := s.contracts.StartWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.CompleteWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.ConfirmCompletion(s.ctx, s.client, contract.ID)
	s.Require().NoError(err)

	disputed, err := s.contracts.Dispute(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	s.Equal(models.ContractStatusDisputed, disputed.Status)
	s.Len(s.dispatcher.OfType(notifications.EventContractDisputed), 1)

	// disputed is fully terminal
	var conflict *types.ConflictError
	_, err = s.contracts.Cancel(s.ctx, s.client, contract.ID)
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestCancelFromAwaitingConfirmation() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	_, err := s.contracts.StartWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)
	_, err = s.contracts.CompleteWork(s.ctx, s.worker, contract.ID)
	s.Require().NoError(err)

	_, err = s.contracts.Cancel(s.ctx, s.client, contract.ID)
	s.Require().NoError(err)

	updated, err := s.jobs.Get(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusOpen, updated.Status)
}

func (s *ServiceTestSuite) TestListContractsForActor() {
	job := s.postVerifiedJob(500)
	s.hire(job)

	for _, actor := range []types.Actor{s.client, s.worker} {
		contracts, err := s.contracts.ListForActor(s.ctx, actor, nil)
		s.Require().NoError(err)
		s.Len(contracts, 1)
	}

	stranger := types.Actor{ID: 55, Role: types.RoleWorker, Verified: true}
	contracts, err := s.contracts.ListForActor(s.ctx, stranger, nil)
	s.Require().NoError(err)
	s.Empty(contracts)
}
