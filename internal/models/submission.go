package models

import "time"

// Assignment submission statuses. Only SubmissionStatusSubmitted qualifies a
// key for the submitted set; drafts never count.
const (
	SubmissionStatusNew       = "new"
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
)

// AssignSubmission is one attempt a student made on an assignment module.
// Resubmission creates a new attempt row; a key qualifies as submitted when
// any of its attempts carries the submitted status.
type AssignSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ModuleID  uint      `gorm:"not null;index" json:"module_id"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	Attempt   int       `gorm:"not null;default:1" json:"attempt"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSubmitted reports whether this attempt was handed in for grading.
func (s AssignSubmission) IsSubmitted() bool {
	return s.Status == SubmissionStatusSubmitted
}
