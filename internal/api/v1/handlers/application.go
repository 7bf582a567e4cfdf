package handlers

import (
	"context"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/services"
	"github.com/workbridge/workbridge/internal/types"
)

// ApplicationHandler handles HTTP requests for application operations
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler instance
func NewApplicationHandler(s *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: s}
}

// Apply handles a worker's request to apply to a job
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	var req types.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c, ErrMsgInvalidReqFormat)
	}

	app, err := h.applicationService.Apply(c.Context(), middleware.Actor(c), jobID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(app))
}

// ListForJob handles the job owner's request to list applications
func (h *ApplicationHandler) ListForJob(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	opts := getListOptions(c)
	apps, err := h.applicationService.ListForJob(c.Context(), middleware.Actor(c), jobID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types.ListResponse[models.Application]{
		Rows: apps,
		Pagination: types.PaginationResponse{
			Total:  len(apps),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// ListOwn handles a worker's request to list their own applications
func (h *ApplicationHandler) ListOwn(c *fiber.Ctx) error {
	opts := getListOptions(c)
	apps, err := h.applicationService.ListForWorker(c.Context(), middleware.Actor(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types.ListResponse[models.Application]{
		Rows: apps,
		Pagination: types.PaginationResponse{
			Total:  len(apps),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetApplication handles the request to get an application
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	app, err := h.applicationService.Get(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(app))
}

// StartDiscussion handles either party's request to open negotiation
func (h *ApplicationHandler) StartDiscussion(c *fiber.Ctx) error {
	return h.transition(c, h.applicationService.StartDiscussion)
}

// MarkAgreement handles a party's request to flag agreement
func (h *ApplicationHandler) MarkAgreement(c *fiber.Ctx) error {
	return h.transition(c, h.applicationService.MarkAgreement)
}

// Accept handles the client's request to accept a mutually agreed
// application, returning both the closed application and the new
// contract
func (h *ApplicationHandler) Accept(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	app, contract, err := h.applicationService.Accept(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(fiber.Map{
		"application": app,
		"contract":    contract,
	}))
}

// Reject handles the client's request to reject an application
func (h *ApplicationHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.applicationService.Reject)
}

// Withdraw handles the worker's request to retract an application
func (h *ApplicationHandler) Withdraw(c *fiber.Ctx) error {
	return h.transition(c, h.applicationService.Withdraw)
}

func (h *ApplicationHandler) transition(
	c *fiber.Ctx,
	op func(ctx context.Context, actor types.Actor, id uint) (*models.Application, error),
) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	app, err := op(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(app))
}
