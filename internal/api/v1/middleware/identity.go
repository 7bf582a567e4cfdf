// Package middleware contains the fiber middleware for the v1 API:
// request logging and caller identity extraction.
package middleware

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/workbridge/workbridge/internal/types"
)

// Identity request headers set by the upstream identity provider.
const (
	HeaderActorID       = "X-Actor-ID"
	HeaderActorRole     = "X-Actor-Role"
	HeaderActorVerified = "X-Actor-Verified"
	HeaderActorBlocked  = "X-Actor-Blocked"
)

// actorKey is the locals key the identity middleware stores the caller
// under.
const actorKey = "actor"

// Identity returns a middleware that reads the upstream identity
// headers into a types.Actor. Requests without a usable actor id are
// rejected before any handler runs; everything past this middleware can
// assume an authenticated caller.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Get(HeaderActorID)
		if idStr == "" {
			return unauthenticated(c, "missing actor id")
		}
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil || id == 0 {
			return unauthenticated(c, "invalid actor id")
		}

		role := types.Role(c.Get(HeaderActorRole))
		if !role.Valid() {
			return unauthenticated(c, "invalid actor role")
		}

		c.Locals(actorKey, types.Actor{
			ID:       uint(id),
			Role:     role,
			Verified: boolHeader(c, HeaderActorVerified),
			Blocked:  boolHeader(c, HeaderActorBlocked),
		})
		return c.Next()
	}
}

// Actor returns the caller stored by the Identity middleware.
func Actor(c *fiber.Ctx) types.Actor {
	actor, _ := c.Locals(actorKey).(types.Actor)
	return actor
}

func boolHeader(c *fiber.Ctx, header string) bool {
	v, err := strconv.ParseBool(c.Get(header, "false"))
	return err == nil && v
}

func unauthenticated(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ErrorResponse{
		Slug:  types.ErrorSlug,
		Error: reason,
	})
}
