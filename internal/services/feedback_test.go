package services

import (
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/types"
)

// completeContract walks a freshly promoted contract through to
// completed.
func (s *ServiceTestSuite) completeContract(contractID uint) {
	_, err := s.contracts.StartWork(s.ctx, s.worker, contractID)
	s.Require().NoError(err)
	_, err = s.contracts.CompleteWork(s.ctx, s.worker, contractID)
	s.Require().NoError(err)
	_, err = s.contracts.ConfirmCompletion(s.ctx, s.client, contractID)
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) TestFeedbackBothDirections() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)
	s.completeContract(contract.ID)

	fromClient, err := s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{
		Rating:  5,
		Comment: "Spotless work, would hire again.",
	})
	s.Require().NoError(err)
	s.Equal(s.worker.ID, fromClient.RecipientID)

	fromWorker, err := s.feedback.Submit(s.ctx, s.worker, contract.ID, &types.SubmitFeedbackRequest{
		Rating: 4,
	})
	s.Require().NoError(err)
	s.Equal(s.client.ID, fromWorker.RecipientID)

	received, avg, err := s.feedback.ListForWorker(s.ctx, s.worker.ID, nil)
	s.Require().NoError(err)
	s.Len(received, 1)
	s.InDelta(5.0, avg, 0.001)
}

func (s *ServiceTestSuite) TestFeedbackRequiresCompletedContract() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)

	_, err := s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{Rating: 5})
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal(string(models.ContractStatusActive), conflict.CurrentStatus)

	// a cancelled contract never becomes rateable
	_, err = s.contracts.Cancel(s.ctx, s.client, contract.ID)
	s.Require().NoError(err)
	_, err = s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{Rating: 5})
	s.Require().ErrorAs(err, &conflict)
}

func (s *ServiceTestSuite) TestFeedbackResubmissionConflicts() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)
	s.completeContract(contract.ID)

	_, err := s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{Rating: 3})
	s.Require().NoError(err)

	// no overwriting an earlier rating
	_, err = s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{Rating: 5})
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)

	received, avg, err := s.feedback.ListForWorker(s.ctx, s.worker.ID, nil)
	s.Require().NoError(err)
	s.Len(received, 1)
	s.InDelta(3.0, avg, 0.001)
}

func (s *ServiceTestSuite) TestFeedbackValidation() {
	job := s.postVerifiedJob(500)
	contract := s.hire(job)
	s.completeContract(contract.ID)

	var validation *types.ValidationError
	_, err := s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{Rating: 0})
	s.Require().ErrorAs(err, &validation)
	_, err = s.feedback.Submit(s.ctx, s.client, contract.ID, &types.SubmitFeedbackRequest{Rating: 6})
	s.Require().ErrorAs(err, &validation)

	// non-parties cannot rate
	stranger := types.Actor{ID: 55, Role: types.RoleWorker, Verified: true}
	_, err = s.feedback.Submit(s.ctx, stranger, contract.ID, &types.SubmitFeedbackRequest{Rating: 5})
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)
}
