package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/course-progress-api/internal/dto"
	"github.com/noah-isme/course-progress-api/internal/middleware"
	"github.com/noah-isme/course-progress-api/internal/repository"
	"github.com/noah-isme/course-progress-api/internal/service"
	"github.com/noah-isme/course-progress-api/internal/utils"
)

// ReminderHandler exposes the admin reminder endpoints.
type ReminderHandler struct {
	service service.ReminderService
	logger  zerolog.Logger
}

// NewReminderHandler creates a new handler instance.
func NewReminderHandler(service service.ReminderService, logger zerolog.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		logger:  logger.With().Str("component", "reminder_handler").Logger(),
	}
}

// Register attaches the reminder endpoints, admin only. The manual trigger is
// rate limited since each run fans out over every course with due modules.
func (h *ReminderHandler) Register(router fiber.Router) {
	router.Post("/run",
		middleware.RateLimit("reminders-run", 5, time.Minute),
		middleware.RequireRole(middleware.RoleAdmin), h.run)
	router.Get("",
		middleware.RequireRole(middleware.RoleAdmin), h.list)
}

func (h *ReminderHandler) run(c *fiber.Ctx) error {
	var payload dto.ReminderRunRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	ctx := middleware.ContextWithCorrelation(c.Context(), middleware.GetCorrelationID(c))
	summary, err := h.service.Run(ctx, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid reminder window")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("reminder sweep failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "reminder sweep failed")
	}

	return utils.SendSuccess(c, "reminder sweep completed", summary)
}

func (h *ReminderHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := repository.ReminderLogFilter{Page: page, PageSize: pageSize}

	courseID, err := parseQueryUint(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}
	if courseID > 0 {
		filter.CourseID = &courseID
	}

	studentID, err := parseQueryUint(c, "studentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}
	if studentID > 0 {
		filter.StudentID = &studentID
	}

	logs, total, err := h.service.ListLogs(c.Context(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list reminder logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list reminder logs")
	}

	meta := utils.ListMeta{Page: page, PageSize: pageSize, Total: total}
	return utils.SendSuccessWithMeta(c, "reminder logs retrieved", logs, meta)
}
