package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/course-progress-api/internal/utils"
)

// RateLimit creates a per-user rate limiter middleware instance. Limits are
// keyed by authenticated user id, falling back to client IP for anonymous
// callers, and counted over a sliding window so a burst at a window edge
// cannot double the allowance.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return identifier + ":" + limiterSubject(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, fiber.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

func limiterSubject(c *fiber.Ctx) string {
	switch id := c.Locals("user_id").(type) {
	case uint:
		if id > 0 {
			return fmt.Sprintf("u%d", id)
		}
	case int:
		if id > 0 {
			return fmt.Sprintf("u%d", id)
		}
	case string:
		if id != "" && id != "0" {
			return "u" + id
		}
	}
	return c.IP()
}
