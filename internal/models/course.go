package models

import "time"

// Course groups the activities a cohort of students works through.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Modules   []CourseModule
}

// Module types this service distinguishes when loading submissions. Other
// types (pages, links, ...) only ever surface through completion tracking.
const (
	ModuleTypeAssign = "assign"
	ModuleTypeQuiz   = "quiz"
	ModuleTypePage   = "page"
	ModuleTypeURL    = "url"
)

// CourseModule is one activity instance placed in a course.
type CourseModule struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CourseID   uint       `gorm:"not null;index" json:"course_id"`
	ModuleType string     `gorm:"size:32;not null" json:"module_type"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	DueDate    *time.Time `gorm:"index" json:"due_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsDueWithin reports whether the module has a deadline inside the window
// starting at reference. Modules without a deadline are never due.
func (m CourseModule) IsDueWithin(reference time.Time, window time.Duration) bool {
	if m.DueDate == nil {
		return false
	}
	due := *m.DueDate
	return due.After(reference) && !due.After(reference.Add(window))
}

// AcceptsSubmissions reports whether the module type records submissions at
// all; view-only modules resolve purely through completion tracking.
func (m CourseModule) AcceptsSubmissions() bool {
	return m.ModuleType == ModuleTypeAssign || m.ModuleType == ModuleTypeQuiz
}
