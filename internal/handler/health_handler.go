package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/course-progress-api/internal/config"
	"github.com/noah-isme/course-progress-api/internal/utils"
)

// HealthResponse is the payload returned by the health endpoint. Uptime is
// measured from handler construction, which coincides with process start.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	StartedAt   time.Time `json:"startedAt"`
	Uptime      string    `json:"uptime"`
}

// HealthCheck returns a handler reporting service identity and uptime.
func HealthCheck(cfg config.Config) fiber.Handler {
	startedAt := time.Now().UTC()

	return func(c *fiber.Ctx) error {
		now := time.Now().UTC()
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   now,
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			StartedAt:   startedAt,
			Uptime:      now.Sub(startedAt).Round(time.Second).String(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
