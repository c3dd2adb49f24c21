package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationIDKey struct{}

var correlationKey = correlationIDKey{}

// Headers consulted for an inbound identifier, in priority order.
var correlationHeaders = []string{"X-Correlation-ID", "X-Request-ID"}

// Incoming correlation values longer than this are replaced rather than
// echoed back, keeping log fields bounded.
const maxCorrelationIDLength = 128

// CorrelationID ensures every request carries a correlation identifier so a
// report request can be traced through the snapshot build and cache layers.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := inboundCorrelationID(c)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), correlationKey, id))

		return c.Next()
	}
}

func inboundCorrelationID(c *fiber.Ctx) string {
	for _, header := range correlationHeaders {
		value := strings.TrimSpace(c.Get(header))
		if value == "" || len(value) > maxCorrelationIDLength {
			continue
		}
		return value
	}
	return ""
}

// CorrelationIDFromContext extracts the correlation identifier from context, if present.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey).(string)
	return id
}

// GetCorrelationID returns the correlation identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok && id != "" {
		return id
	}
	return CorrelationIDFromContext(c.Context())
}

// ContextWithCorrelation attaches the correlation identifier to the provided context.
func ContextWithCorrelation(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey, correlationID)
}
