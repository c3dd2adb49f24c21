package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/course-progress-api/internal/utils"
)

// Roles recognised by the authorization guards.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// RequireSelfOrStaff authorises requests that target one student's data.
// Staff roles (admin, teacher) pass for any target; a student passes only
// when the path parameter names their own id.
func RequireSelfOrStaff(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id")
		if userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		role := normalizeRoleValue(c.Locals("user_role"))
		if role == RoleAdmin || role == RoleTeacher {
			return c.Next()
		}

		target, err := c.ParamsInt(param)
		if err != nil || target <= 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
		}

		current, err := normalizeUserID(userID)
		if err == nil && current == uint(target) {
			return c.Next()
		}

		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
}
