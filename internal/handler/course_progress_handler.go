package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/course-progress-api/internal/middleware"
	"github.com/noah-isme/course-progress-api/internal/service"
	"github.com/noah-isme/course-progress-api/internal/utils"
)

// CourseProgressHandler exposes the course progress reporting endpoints.
type CourseProgressHandler struct {
	service service.CourseProgressService
	logger  zerolog.Logger
}

// NewCourseProgressHandler creates a new handler instance.
func NewCourseProgressHandler(service service.CourseProgressService, logger zerolog.Logger) *CourseProgressHandler {
	return &CourseProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "course_progress_handler").Logger(),
	}
}

// Register attaches the progress endpoints. The full course matrix is staff
// only; the per-student views are readable by staff and the student themself.
func (h *CourseProgressHandler) Register(router fiber.Router) {
	router.Get("/:courseID/progress",
		middleware.RequireRole(middleware.RoleAdmin, middleware.RoleTeacher), h.getCourseProgress)
	router.Get("/:courseID/students/:studentID/progress",
		middleware.RequireSelfOrStaff("studentID"), h.getStudentProgress)
	router.Get("/:courseID/students/:studentID/modules/:moduleID/status",
		middleware.RequireSelfOrStaff("studentID"), h.getModuleStatus)
}

func (h *CourseProgressHandler) getCourseProgress(c *fiber.Ctx) error {
	courseID, err := parseParamUint(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	report, err := h.service.GetCourseProgress(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("course_id", courseID).Msg("failed to build course progress report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build course progress report")
	}

	if report.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "course progress retrieved", report)
}

func (h *CourseProgressHandler) getStudentProgress(c *fiber.Ctx) error {
	courseID, err := parseParamUint(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}
	studentID, err := parseParamUint(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	progress, err := h.service.GetStudentProgress(c.Context(), courseID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case errors.Is(err, service.ErrStudentNotEnrolled):
			return utils.SendError(c, fiber.StatusNotFound, "student not enrolled in course")
		default:
			requestLogger(h.logger, c).Error().Err(err).
				Uint("course_id", courseID).
				Uint("student_id", studentID).
				Msg("failed to load student progress")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load student progress")
		}
	}

	return utils.SendSuccess(c, "student progress retrieved", progress)
}

func (h *CourseProgressHandler) getModuleStatus(c *fiber.Ctx) error {
	courseID, err := parseParamUint(c, "courseID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}
	studentID, err := parseParamUint(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	moduleID, err := parseParamUint(c, "moduleID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid module id")
	}

	status, err := h.service.GetModuleStatus(c.Context(), courseID, moduleID, studentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrModuleNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course module not found")
		case errors.Is(err, service.ErrStudentNotEnrolled):
			return utils.SendError(c, fiber.StatusNotFound, "student not enrolled in course")
		default:
			requestLogger(h.logger, c).Error().Err(err).
				Uint("module_id", moduleID).
				Uint("student_id", studentID).
				Msg("failed to resolve module status")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve module status")
		}
	}

	return utils.SendSuccess(c, "module status retrieved", status)
}
