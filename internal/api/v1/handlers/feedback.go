package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/api/v1/middleware"
	"github.com/workbridge/workbridge/internal/services"
	"github.com/workbridge/workbridge/internal/types"
)

// FeedbackHandler handles HTTP requests for feedback operations
type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackHandler creates a new feedback handler instance
func NewFeedbackHandler(s *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: s}
}

// SubmitFeedback handles a contract party's request to rate the other
// party after completion
func (h *FeedbackHandler) SubmitFeedback(c *fiber.Ctx) error {
	contractID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	var req types.SubmitFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(c, ErrMsgInvalidReqFormat)
	}

	fb, err := h.feedbackService.Submit(c.Context(), middleware.Actor(c), contractID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(success(fb))
}

// ListWorkerFeedback handles the request for a worker's received
// ratings and their average
func (h *FeedbackHandler) ListWorkerFeedback(c *fiber.Ctx) error {
	workerID, err := paramID(c)
	if err != nil {
		return invalidInput(c, ErrMsgInvalidID)
	}

	opts := getListOptions(c)
	feedback, avg, err := h.feedbackService.ListForWorker(c.Context(), workerID, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(success(fiber.Map{
		"rows":           feedback,
		"average_rating": avg,
		"pagination": types.PaginationResponse{
			Total:  len(feedback),
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}
