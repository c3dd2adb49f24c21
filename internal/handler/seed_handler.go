package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/course-progress-api/internal/service"
	"github.com/noah-isme/course-progress-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for loading demo course data into
// non-production environments.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/course", h.course)
}

func (h *SeedHandler) course(c *fiber.Ctx) error {
	var fixture service.CourseFixture
	if err := c.BodyParser(&fixture); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	affected, err := h.service.LoadCourse(c.Context(), c.Get("X-Seed-Token"), fixture)
	if err != nil {
		return h.seedError(c, err)
	}

	return utils.SendSuccess(c, "course fixture seeded", fiber.Map{"affected": affected})
}

func (h *SeedHandler) seedError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	case errors.Is(err, service.ErrSeedInvalid):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid fixture")
	}

	requestLogger(h.logger, c).Error().Err(err).Msg("seed operation failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "seed operation failed")
}
