package handlers

import (
	"context"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/services"
	"github.com/workbridge/workbridge/internal/types"
)

// ContractHandler handles HTTP requests for contract operations
type ContractHandler struct {
	contractService *services.ContractService
}

// NewContractHandler creates a new contract handler instance
func NewContractHandler(s *services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: s}
}

// ListContracts handles the request to list the caller's contracts
func (h *ContractHandler) ListContracts(c *fiber.Ctx) error {
	opts := getListOptions(c)
	contracts, err := h.contractService.ListForActor(c.Context(), middleware.Actor(c), opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types.ListResponse[models.Contract]{
		Rows: contracts,
		Pagination: types.PaginationResponse{
			Total:  len(contracts),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	})
}

// GetContract handles the request to get a contract
func (h *ContractHandler) GetContract(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	contract, err := h.contractService.Get(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(contract))
}

// StartWork handles the worker's request to start work
func (h *ContractHandler) StartWork(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.StartWork)
}

// CompleteWork handles the worker's request to mark the work done
func (h *ContractHandler) CompleteWork(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.CompleteWork)
}

// ConfirmCompletion handles the client's confirmation of completed work
func (h *ContractHandler) ConfirmCompletion(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.ConfirmCompletion)
}

// CancelContract handles either party's request to cancel
func (h *ContractHandler) CancelContract(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.Cancel)
}

// DisputeContract handles a party's request to dispute a completed
// contract
func (h *ContractHandler) DisputeContract(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.Dispute)
}

func (h *ContractHandler) transition(
	c *fiber.Ctx,
	op func(ctx context.Context, actor types.Actor, id uint) (*models.Contract, error),
) error {
	id, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	contract, err := op(c.Context(), middleware.Actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(contract))
}
