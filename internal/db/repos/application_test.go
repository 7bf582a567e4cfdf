package repos

import (
	"github.com/workbridge/workbridge/internal/db/models"
)

func (s *RepositoryTestSuite) TestApplicationUniquePerJobWorker() {
	job := s.newJob(1)

	first := &models.Application{
		JobID:        job.ID,
		WorkerID:     7,
		ClientID:     job.ClientID,
		Message:      "I can start this weekend",
		ProposedRate: 450,
		Negotiation:  models.Negotiation{Status: models.OfferStatusPending},
	}
	s.Require().NoError(s.applicationRepo.Create(s.ctx, first))

	duplicate := &models.Application{
		JobID:       job.ID,
		WorkerID:    7,
		ClientID:    job.ClientID,
		Negotiation: models.Negotiation{Status: models.OfferStatusPending},
	}
	s.Require().Error(s.applicationRepo.Create(s.ctx, duplicate),
		"second application for the same (job, worker) must hit the unique index")

	otherWorker := &models.Application{
		JobID:       job.ID,
		WorkerID:    8,
		ClientID:    job.ClientID,
		Negotiation: models.Negotiation{Status: models.OfferStatusPending},
	}
	s.Require().NoError(s.applicationRepo.Create(s.ctx, otherWorker))
}

func (s *RepositoryTestSuite) TestApplicationExistsForJobWorker() {
	job := s.newJob(1)

	exists, err := s.applicationRepo.ExistsForJobWorker(s.ctx, job.ID, 7)
	s.Require().NoError(err)
	s.False(exists)

	app := &models.Application{
		JobID:       job.ID,
		WorkerID:    7,
		ClientID:    job.ClientID,
		Negotiation: models.Negotiation{Status: models.OfferStatusPending},
	}
	s.Require().NoError(s.applicationRepo.Create(s.ctx, app))

	exists, err = s.applicationRepo.ExistsForJobWorker(s.ctx, job.ID, 7)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RepositoryTestSuite) TestApplicationListByJob() {
	job := s.newJob(1)
	for workerID := uint(10); workerID < 13; workerID++ {
		app := &models.Application{
			JobID:       job.ID,
			WorkerID:    workerID,
			ClientID:    job.ClientID,
			Negotiation: models.Negotiation{Status: models.OfferStatusPending},
		}
		s.Require().NoError(s.applicationRepo.Create(s.ctx, app))
	}

	apps, err := s.applicationRepo.ListByJob(s.ctx, job.ID, &models.ListOptions{})
	s.Require().NoError(err)
	s.Len(apps, 3)

	apps, err = s.applicationRepo.ListByWorker(s.ctx, 10, &models.ListOptions{})
	s.Require().NoError(err)
	s.Len(apps, 1)
}

func (s *RepositoryTestSuite) TestApplicationGetByIDMissing() {
	app, err := s.applicationRepo.GetByID(s.ctx, 999)
	s.Require().NoError(err)
	s.Nil(app)
}
