package repos

import (
	"github.com/workbridge/workbridge/internal/db/models"
)

func (s *RepositoryTestSuite) TestSetEngagedGuardsOnOpenStatus() {
	job := s.newJob(1)

	engaged, err := s.jobRepo.SetEngaged(s.ctx, job.ID, 7)
	s.Require().NoError(err)
	s.True(engaged)

	got, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusInProgress, got.Status)
	s.Require().NotNil(got.HiredWorkerID)
	s.Equal(uint(7), *got.HiredWorkerID)

	// a concurrent promotion attempt loses the race
	engaged, err = s.jobRepo.SetEngaged(s.ctx, job.ID, 8)
	s.Require().NoError(err)
	s.False(engaged)
}

func (s *RepositoryTestSuite) TestReleaseRestoresOpenJob() {
	job := s.newJob(1)

	engaged, err := s.jobRepo.SetEngaged(s.ctx, job.ID, 7)
	s.Require().NoError(err)
	s.True(engaged)

	s.Require().NoError(s.jobRepo.Release(s.ctx, job.ID))

	got, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.JobStatusOpen, got.Status)
	s.Nil(got.HiredWorkerID)
}

func (s *RepositoryTestSuite) TestSoftDeletedJobNotReturned() {
	job := s.newJob(1)
	s.Require().NoError(s.jobRepo.Delete(s.ctx, job.ID))

	got, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RepositoryTestSuite) TestListPublicFiltersUnverified() {
	s.newJob(1)

	unverified := &models.Job{
		ClientID:    1,
		Title:       "Untrusted posting",
		Description: "This posting has not been reviewed by an admin yet.",
		Price:       100,
		CategoryID:  1,
		Status:      models.JobStatusOpen,
		IsVerified:  false,
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, unverified))

	jobs, err := s.jobRepo.ListPublic(s.ctx, "", &models.ListOptions{})
	s.Require().NoError(err)
	s.Len(jobs, 1)

	own, err := s.jobRepo.ListByClient(s.ctx, 1, &models.ListOptions{})
	s.Require().NoError(err)
	s.Len(own, 2)
}
