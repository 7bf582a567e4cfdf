// Package app assembles the HTTP application: repositories, services,
// handlers, and routes over a database handle and a notification
// dispatcher.
package app

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/workbridge/workbridge/internal/api/v1/handlers"
	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/api/v1/routes"
	"github.com/workbridge/workbridge/internal/db/repos"
	"github.com/workbridge/workbridge/internal/notifications"
	"github.com/workbridge/workbridge/internal/services"
	"github.com/workbridge/workbridge/internal/types"
)

// App is the wired application. Invitations is exposed so the caller
// can run the expiry sweeper against the same service instance the
// handlers use.
type App struct {
	Fiber       *fiber.App
	Invitations *services.InvitationService
}

// New wires the full service stack and returns the application. The
// database handle is expected to be migrated already.
func New(db *gorm.DB, dispatcher notifications.Dispatcher, invitationTTL time.Duration) *App {
	jobRepo := repos.NewJobRepository(db)
	applicationRepo := repos.NewApplicationRepository(db)
	invitationRepo := repos.NewInvitationRepository(db)
	contractRepo := repos.NewContractRepository(db)
	feedbackRepo := repos.NewFeedbackRepository(db)
	categoryRepo := repos.NewCategoryRepository(db)

	limiter := services.NewAdmissionLimiter()
	jobService := services.NewJobService(jobRepo, categoryRepo)
	contractService := services.NewContractService(db, contractRepo, jobRepo, limiter, dispatcher)
	applicationService := services.NewApplicationService(db, applicationRepo, jobRepo, contractService, limiter, dispatcher)
	invitationService := services.NewInvitationService(db, invitationRepo, jobRepo, contractService, limiter, dispatcher, invitationTTL)
	feedbackService := services.NewFeedbackService(feedbackRepo, contractRepo, limiter)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	fiberApp.Use(middleware.Logger())

	routes.RegisterRoutes(
		fiberApp,
		handlers.NewJobHandler(jobService),
		handlers.NewApplicationHandler(applicationService),
		handlers.NewInvitationHandler(invitationService),
		handlers.NewContractHandler(contractService),
		handlers.NewFeedbackHandler(feedbackService),
	)

	return &App{
		Fiber:       fiberApp,
		Invitations: invitationService,
	}
}

// errorHandler shapes errors that escape the handlers (routing errors,
// body size limits) into the standard envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(types.ErrorResponse{
		Slug:  types.ErrorSlug,
		Error: err.Error(),
	})
}
