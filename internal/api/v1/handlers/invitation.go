package handlers

import (
	"context"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/services"
	"github.com/workbridge/workbridge/internal/types"
)

// InvitationHandler handles HTTP requests for invitation operations
type InvitationHandler struct {
	invitationService *services.InvitationService
}

// NewInvitationHandler creates a new invitation handler instance
func NewInvitationHandler(s *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: s}
}

// Invite handles a client's request to invite a worker to a job
func (h *InvitationHandler) Invite(c *fiber.Ctx) error {
	jobID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	var req types.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c, ErrMsgInvalidReqFormat)
	}

	inv, err := h.invitationService.Invite(c.Context(), middleware.Actor(c), jobID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(inv))
}

// ListInvitations handles the request to list the caller's invitations,
// sent or received depending on role
func (h *InvitationHandler) ListInvitations(c *fiber.Ctx) error {
	opts := getListOptions(c)
	invs, err := h.invitationService.ListForActor(c.Context(), middleware.Actor(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types.ListResponse[models.Invitation]{
		Rows: invs,
		Pagination: types.PaginationResponse{
			Total:  len(invs),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetInvitation handles the request to get an invitation
func (h *InvitationHandler) GetInvitation(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	inv, err := h.invitationService.Get(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(inv))
}

// StartDiscussion handles either party's request to open negotiation
func (h *InvitationHandler) StartDiscussion(c *fiber.Ctx) error {
	return h.transition(c, h.invitationService.StartDiscussion)
}

// MarkAgreement handles a party's request to flag agreement
func (h *InvitationHandler) MarkAgreement(c *fiber.Ctx) error {
	return h.transition(c, h.invitationService.MarkAgreement)
}

// Accept handles the worker's request to accept a mutually agreed
// invitation
func (h *InvitationHandler) Accept(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	inv, contract, err := h.invitationService.Accept(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(fiber.Map{
		"invitation": inv,
		"contract":   contract,
	}))
}

// Reject handles the worker's request to decline an invitation
func (h *InvitationHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.invitationService.Reject)
}

// Withdraw handles the client's request to retract an invitation
func (h *InvitationHandler) Withdraw(c *fiber.Ctx) error {
	return h.transition(c, h.invitationService.Withdraw)
}

func (h *InvitationHandler) transition(
	c *fiber.Ctx,
	op func(ctx context.Context, actor types.Actor, id uint) (*models.Invitation, error),
) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	inv, err := op(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(inv))
}
