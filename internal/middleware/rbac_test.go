package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newRoleGuardedApp(role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Use(RequireRole(RoleAdmin, RoleTeacher))
	app.Get("/report", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleStaffMatrix(t *testing.T) {
	cases := []struct {
		name       string
		role       string
		statusCode int
	}{
		{name: "admin passes", role: "admin", statusCode: fiber.StatusOK},
		{name: "teacher passes", role: "teacher", statusCode: fiber.StatusOK},
		{name: "role matching ignores case", role: " Teacher ", statusCode: fiber.StatusOK},
		{name: "student rejected", role: "student", statusCode: fiber.StatusForbidden},
		{name: "missing role rejected", role: "", statusCode: fiber.StatusForbidden},
		{name: "unknown role rejected", role: "auditor", statusCode: fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newRoleGuardedApp(tc.role)

			req := httptest.NewRequest(http.MethodGet, "/report", nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
