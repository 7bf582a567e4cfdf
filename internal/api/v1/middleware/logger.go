package middleware

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"

	log "github.com/workbridge/workbridge/internal/logger"
)

// Logger returns a middleware that logs each request after it
// completes, tagged with the caller identity when one was extracted.
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		fields := map[string]interface{}{
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
			"method":  c.Method(),
			"path":    c.Path(),
			"handler": c.Route().Name,
		}
		if actor := Actor(c); actor.ID != 0 {
			fields["actor_id"] = actor.ID
			fields["actor_role"] = actor.Role
		}
		log.InfoWithFields("request completed", fields)

		return err
	}
}
