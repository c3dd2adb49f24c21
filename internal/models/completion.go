package models

import "time"

// CompletionRecord is the completion tracking store's verdict for one
// (student, module) pair. State keeps the raw numeric code; how that code was
// produced (on submit, on grade, on view, ...) is the upstream rule's
// business and is not interpreted here.
type CompletionRecord struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	ModuleID  uint       `gorm:"not null;index:idx_module_student,unique" json:"module_id"`
	StudentID uint       `gorm:"not null;index:idx_module_student,unique" json:"student_id"`
	State     int        `gorm:"not null;default:0" json:"state"`
	ViewedAt  *time.Time `json:"viewed_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
