package dto

import (
	"time"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// ReminderRunRequest triggers one due-date reminder sweep. WindowHours
// overrides the configured look-ahead window when set.
type ReminderRunRequest struct {
	WindowHours *int `json:"window_hours" validate:"omitempty,gte=1,lte=336"`
}

// ReminderRunResponse summarises one reminder sweep.
type ReminderRunResponse struct {
	CoursesScanned int       `json:"courses_scanned"`
	ModulesDue     int       `json:"modules_due"`
	Sent           int       `json:"sent"`
	Suppressed     int       `json:"suppressed"`
	Window         string    `json:"window"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// ReminderEvent is the payload published to the message brokers for each
// outstanding submission.
type ReminderEvent struct {
	EventID    string    `json:"event_id"`
	Source     string    `json:"source"`
	CourseID   uint      `json:"course_id"`
	ModuleID   uint      `json:"module_id"`
	StudentID  uint      `json:"student_id"`
	ModuleName string    `json:"module_name"`
	DueDate    time.Time `json:"due_date"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sent_at"`
}

// ReminderLogResponse is one delivered-reminder record for the admin listing.
type ReminderLogResponse struct {
	ID        uint           `json:"id"`
	CourseID  uint           `json:"course_id"`
	ModuleID  uint           `json:"module_id"`
	StudentID uint           `json:"student_id"`
	Channel   string         `json:"channel"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	SentAt    time.Time      `json:"sent_at"`
}

// NewReminderLogResponse maps a reminder log row into its response shape.
func NewReminderLogResponse(log models.ReminderLog) ReminderLogResponse {
	return ReminderLogResponse{
		ID:        log.ID,
		CourseID:  log.CourseID,
		ModuleID:  log.ModuleID,
		StudentID: log.StudentID,
		Channel:   log.Channel,
		Metadata:  log.Metadata,
		SentAt:    log.SentAt,
	}
}

// NewReminderLogResponseSlice maps reminder log rows into response shapes.
func NewReminderLogResponseSlice(logs []models.ReminderLog) []ReminderLogResponse {
	responses := make([]ReminderLogResponse, 0, len(logs))
	for _, log := range logs {
		responses = append(responses, NewReminderLogResponse(log))
	}
	return responses
}
