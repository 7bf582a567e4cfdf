package services

import (
	"strings"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/types"
)

func (s *ServiceTestSuite) TestCreateJobValidation() {
	cases := []struct {
		name  string
		req   types.CreateJobRequest
		field string
	}{
		{"empty title", types.CreateJobRequest{Description: strings.Repeat("x", 40), Price: 100, CategoryID: 1}, "title"},
		{"short description", types.CreateJobRequest{Title: "Job", Description: "too short", Price: 100, CategoryID: 1}, "description"},
		{"negative price", types.CreateJobRequest{Title: "Job", Description: strings.Repeat("x", 40), Price: -1, CategoryID: 1}, "price"},
		{"absurd price", types.CreateJobRequest{Title: "Job", Description: strings.Repeat("x", 40), Price: 2000000, CategoryID: 1}, "price"},
		{"unknown category", types.CreateJobRequest{Title: "Job", Description: strings.Repeat("x", 40), Price: 100, CategoryID: 999}, "category_id"},
	}

	for _, tc := range cases {
		_, err := s.jobs.Create(s.ctx, s.client, &tc.req)
		var validation *types.ValidationError
		s.Require().ErrorAs(err, &validation, tc.name)
		s.Equal(tc.field, validation.Field, tc.name)
	}
}

func (s *ServiceTestSuite) TestCreateJobRequiresVerifiedClient() {
	req := &types.CreateJobRequest{
		Title:       "Move a piano",
		Description: "Upright piano, ground floor to first floor, two streets over.",
		Price:       150,
		CategoryID:  5,
	}

	var authErr *types.AuthorizationError
	_, err := s.jobs.Create(s.ctx, types.Actor{ID: 3, Role: types.RoleClient}, req)
	s.Require().ErrorAs(err, &authErr)

	_, err = s.jobs.Create(s.ctx, types.Actor{ID: 3, Role: types.RoleClient, Verified: true, Blocked: true}, req)
	s.Require().ErrorAs(err, &authErr)

	_, err = s.jobs.Create(s.ctx, s.worker, req)
	s.Require().ErrorAs(err, &authErr)

	job, err := s.jobs.Create(s.ctx, s.client, req)
	s.Require().NoError(err)
	s.Equal(models.JobStatusOpen, job.Status)
	s.False(job.IsVerified)
}

func (s *ServiceTestSuite) TestUpdateJobOnlyWhileUnverified() {
	job, err := s.jobs.Create(s.ctx, s.client, &types.CreateJobRequest{
		Title:       "Weekly garden maintenance",
		Description: "Mowing, weeding and hedge trimming, roughly two hours a week.",
		Price:       60,
		CategoryID:  3,
	})
	s.Require().NoError(err)

	newTitle := "Biweekly garden maintenance"
	updated, err := s.jobs.Update(s.ctx, s.client, job.ID, &types.UpdateJobRequest{Title: &newTitle})
	s.Require().NoError(err)
	s.Equal(newTitle, updated.Title)

	_, err = s.jobs.Verify(s.ctx, s.admin, job.ID)
	s.Require().NoError(err)

	var authErr *types.AuthorizationError
	_, err = s.jobs.Update(s.ctx, s.client, job.ID, &types.UpdateJobRequest{Title: &newTitle})
	s.Require().ErrorAs(err, &authErr)
}

func (s *ServiceTestSuite) TestVerifyAdminOnly() {
	job := s.postVerifiedJob(500)

	_, err := s.jobs.Verify(s.ctx, s.client, job.ID)
	var authErr *types.AuthorizationError
	s.Require().ErrorAs(err, &authErr)
}

func (s *ServiceTestSuite) TestCancelJobOnlyWhileOpen() {
	job := s.postVerifiedJob(500)
	s.hire(job)

	// once hired, the owner can no longer cancel the posting directly;
	// the contract engine owns the status from here
	_, err := s.jobs.Cancel(s.ctx, s.client, job.ID)
	var conflict *types.ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal(string(models.JobStatusInProgress), conflict.CurrentStatus)
}

func (s *ServiceTestSuite) TestPublicListingsHideUnverified() {
	s.postVerifiedJob(500)
	_, err := s.jobs.Create(s.ctx, s.client, &types.CreateJobRequest{
		Title:       "Paint the hallway",
		Description: "One coat of white paint on the hallway walls and ceiling.",
		Price:       120,
		CategoryID:  4,
	})
	s.Require().NoError(err)

	public, total, err := s.jobs.ListPublic(s.ctx, "", nil)
	s.Require().NoError(err)
	s.Len(public, 1)
	s.Equal(int64(1), total)

	own, err := s.jobs.ListOwn(s.ctx, s.client, nil)
	s.Require().NoError(err)
	s.Len(own, 2)
}
