// Package routes defines the API routes and URL structure
package routes

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/handlers"
	"github.com/workbridge/workbridge/internal/api/v1/middleware"
)

/*

To keep this file organized, routes should be organized in the following way:

1. Smallest scope first (i.e. application routes before job routes)
2. Order routes in GET, POST, PATCH, DELETE order.
	a. Within this ordering, param urls (ie /:id) should go last, otherwise fiber will interpret the route slug as that param.
3. For clarity, naming should match the action (i.e. GetJob, CancelJob)

*/

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// Route names for lookup
const (
	// Health check
	HealthCheck = "HealthCheck"

	// Job routes
	ListJobs    = "ListJobs"
	ListOwnJobs = "ListOwnJobs"
	GetJob      = "GetJob"
	CreateJob   = "CreateJob"
	UpdateJob   = "UpdateJob"
	DeleteJob   = "DeleteJob"
	CancelJob   = "CancelJob"
	VerifyJob   = "VerifyJob"

	// Application routes
	ListJobApplications        = "ListJobApplications"
	ListOwnApplications        = "ListOwnApplications"
	GetApplication             = "GetApplication"
	Apply                      = "Apply"
	StartApplicationDiscussion = "StartApplicationDiscussion"
	MarkApplicationAgreement   = "MarkApplicationAgreement"
	AcceptApplication          = "AcceptApplication"
	RejectApplication          = "RejectApplication"
	WithdrawApplication        = "WithdrawApplication"

	// Invitation routes
	ListInvitations           = "ListInvitations"
	GetInvitation             = "GetInvitation"
	Invite                    = "Invite"
	StartInvitationDiscussion = "StartInvitationDiscussion"
	MarkInvitationAgreement   = "MarkInvitationAgreement"
	AcceptInvitation          = "AcceptInvitation"
	RejectInvitation          = "RejectInvitation"
	WithdrawInvitation        = "WithdrawInvitation"

	// Contract routes
	ListContracts     = "ListContracts"
	GetContract       = "GetContract"
	StartWork         = "StartWork"
	CompleteWork      = "CompleteWork"
	ConfirmCompletion = "ConfirmCompletion"
	CancelContract    = "CancelContract"
	DisputeContract   = "DisputeContract"

	// Feedback routes
	SubmitFeedback     = "SubmitFeedback"
	ListWorkerFeedback = "ListWorkerFeedback"
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the order they are registered.
// For example, /jobs/mine has to be registered before /jobs/:id or "mine" gets interpreted as a job ID.
func RegisterRoutes(
	app *fiber.App,
	jobHandler *handlers.JobHandler,
	applicationHandler *handlers.ApplicationHandler,
	invitationHandler *handlers.InvitationHandler,
	contractHandler *handlers.ContractHandler,
	feedbackHandler *handlers.FeedbackHandler,
) {
	// Health check, outside identity
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	}).Name(HealthCheck)

	// API v1 routes, all behind the identity middleware
	v1 := app.Group(APIv1Prefix, middleware.Identity())

	// Application endpoints
	applications := v1.Group("/applications")
	applications.Get("/", applicationHandler.ListOwn).Name(ListOwnApplications)
	applications.Get("/:id", applicationHandler.GetApplication).Name(GetApplication)
	applications.Post("/:id/discussion", applicationHandler.StartDiscussion).Name(StartApplicationDiscussion)
	applications.Post("/:id/agreement", applicationHandler.MarkAgreement).Name(MarkApplicationAgreement)
	applications.Post("/:id/accept", applicationHandler.Accept).Name(AcceptApplication)
	applications.Post("/:id/reject", applicationHandler.Reject).Name(RejectApplication)
	applications.Post("/:id/withdraw", applicationHandler.Withdraw).Name(WithdrawApplication)

	// Invitation endpoints
	invitations := v1.Group("/invitations")
	invitations.Get("/", invitationHandler.ListInvitations).Name(ListInvitations)
	invitations.Get("/:id", invitationHandler.GetInvitation).Name(GetInvitation)
	invitations.Post("/:id/discussion", invitationHandler.StartDiscussion).Name(StartInvitationDiscussion)
	invitations.Post("/:id/agreement", invitationHandler.MarkAgreement).Name(MarkInvitationAgreement)
	invitations.Post("/:id/accept", invitationHandler.Accept).Name(AcceptInvitation)
	invitations.Post("/:id/reject", invitationHandler.Reject).Name(RejectInvitation)
	invitations.Post("/:id/withdraw", invitationHandler.Withdraw).Name(WithdrawInvitation)

	// Contract endpoints
	contracts := v1.Group("/contracts")
	contracts.Get("/", contractHandler.ListContracts).Name(ListContracts)
	contracts.Get("/:id", contractHandler.GetContract).Name(GetContract)
	contracts.Post("/:id/start", contractHandler.StartWork).Name(StartWork)
	contracts.Post("/:id/complete", contractHandler.CompleteWork).Name(CompleteWork)
	contracts.Post("/:id/confirm", contractHandler.ConfirmCompletion).Name(ConfirmCompletion)
	contracts.Post("/:id/cancel", contractHandler.CancelContract).Name(CancelContract)
	contracts.Post("/:id/dispute", contractHandler.DisputeContract).Name(DisputeContract)
	contracts.Post("/:id/feedback", feedbackHandler.SubmitFeedback).Name(SubmitFeedback)

	// Job endpoints
	jobs := v1.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs).Name(ListJobs)
	jobs.Get("/mine", jobHandler.ListOwnJobs).Name(ListOwnJobs)
	jobs.Get("/:id", jobHandler.GetJob).Name(GetJob)
	jobs.Get("/:id/applications", applicationHandler.ListForJob).Name(ListJobApplications)
	jobs.Post("/", jobHandler.CreateJob).Name(CreateJob)
	jobs.Post("/:id/cancel", jobHandler.CancelJob).Name(CancelJob)
	jobs.Post("/:id/verify", jobHandler.VerifyJob).Name(VerifyJob)
	jobs.Post("/:id/applications", applicationHandler.Apply).Name(Apply)
	jobs.Post("/:id/invitations", invitationHandler.Invite).Name(Invite)
	jobs.Patch("/:id", jobHandler.UpdateJob).Name(UpdateJob)
	jobs.Delete("/:id", jobHandler.DeleteJob).Name(DeleteJob)

	// Worker feedback endpoint
	v1.Get("/workers/:id/feedback", feedbackHandler.ListWorkerFeedback).Name(ListWorkerFeedback)
}
