package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reminder delivery channels recorded in the log.
const (
	ReminderChannelNATS  = "nats"
	ReminderChannelRedis = "redis"
	ReminderChannelNone  = "none"
)

// ReminderLog records one deadline reminder sent to a student about a course
// module they have not submitted to. Used for auditing and for suppressing
// repeat sends inside the suppression interval.
type ReminderLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	CourseID  uint              `gorm:"not null;index" json:"course_id"`
	ModuleID  uint              `gorm:"not null;index:idx_reminder_target" json:"module_id"`
	StudentID uint              `gorm:"not null;index:idx_reminder_target" json:"student_id"`
	Channel   string            `gorm:"size:32;not null" json:"channel"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	SentAt    time.Time         `gorm:"index" json:"sent_at"`
}
