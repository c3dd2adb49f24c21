package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/course-progress-api/internal/middleware"
)

func parseParamUint(c *fiber.Ctx, key string) (uint, error) {
	value, err := c.ParamsInt(key)
	switch {
	case err != nil:
		return 0, err
	case value <= 0:
		return 0, errors.New("identifier must be positive")
	}
	return uint(value), nil
}

// Query helpers treat an absent parameter as zero so callers can apply
// their own defaults.

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseQueryUint(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	return uint(parsed), err
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	if c == nil {
		return &base
	}
	correlation := middleware.GetCorrelationID(c)
	if correlation == "" {
		return &base
	}
	logger := base.With().Str("correlation_id", correlation).Logger()
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
