// Package handlers provides HTTP request handling for the v1 API.
package handlers

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/db/models"
	"github.com/workbridge/workbridge/internal/types"
)

// Common error messages
const (
	ErrMsgInvalidID        = "Invalid id"
	ErrMsgInvalidReqFormat = "Invalid request format"
	ErrMsgInvalidJobStatus = "Invalid job status"
)

// success wraps data in the standard success envelope.
func success(data interface{}) types.Response {
	return types.Response{Slug: types.SuccessSlug, Data: data}
}

// respondError maps a service error onto an HTTP status and the error
// envelope. Anything outside the known taxonomy is reported as a plain
// 500 without leaking internals.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validation *types.ValidationError
		authz      *types.AuthorizationError
		notFound   *types.NotFoundError
		conflict   *types.ConflictError
		expired    *types.ExpiredError
		limited    *types.RateLimitedError
		dependency *types.DependencyError
	)

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
			Slug:    types.InvalidInputSlug,
			Error:   err.Error(),
			Details: fiber.Map{"field": validation.Field},
		})
	case errors.As(err, &authz):
		return c.Status(fiber.StatusForbidden).JSON(types.ErrorResponse{
			Slug:  types.ErrorSlug,
			Error: err.Error(),
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{
			Slug:  types.NotFoundSlug,
			Error: err.Error(),
		})
	case errors.As(err, &conflict):
		resp := types.ErrorResponse{Slug: types.ConflictSlug, Error: err.Error()}
		if conflict.CurrentStatus != "" {
			resp.Details = fiber.Map{"current_status": conflict.CurrentStatus}
		}
		return c.Status(fiber.StatusConflict).JSON(resp)
	case errors.As(err, &expired):
		return c.Status(fiber.StatusGone).JSON(types.ErrorResponse{
			Slug:  types.ErrorSlug,
			Error: err.Error(),
		})
	case errors.As(err, &limited):
		seconds := int(math.Ceil(limited.RetryAfter.Seconds()))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
		return c.Status(fiber.StatusTooManyRequests).JSON(types.ErrorResponse{
			Slug:    types.RateLimitedSlug,
			Error:   err.Error(),
			Details: fiber.Map{"retry_after_seconds": seconds},
		})
	case errors.As(err, &dependency):
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ErrorResponse{
			Slug:  types.ErrorSlug,
			Error: err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
		Slug:  types.ErrorSlug,
		Error: "internal error",
	})
}

// invalidInput writes a 400 with the given message.
func invalidInput(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
		Slug:  types.InvalidInputSlug,
		Error: msg,
	})
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	idStr := c.Params("id")
	if idStr == "" {
		return 0, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id: %q", idStr)
	}
	return uint(id), nil
}

// getListOptions returns validated pagination options from the page
// query parameter.
func getListOptions(c *fiber.Ctx) *models.ListOptions {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	opts := &models.ListOptions{
		Limit:  models.DefaultLimit,
		Offset: (page - 1) * models.DefaultLimit,
	}
	opts.Normalize()
	return opts
}
