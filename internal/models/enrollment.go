package models

import "time"

// Enrollment statuses.
const (
	// EnrollmentStatusActive marks an enrollment that counts toward reports.
	EnrollmentStatusActive = "active"
	// EnrollmentStatusSuspended marks an enrollment excluded from reports.
	EnrollmentStatusSuspended = "suspended"
)

// Enrollment ties a student to a course. Only active enrollments define the
// population a progress report covers.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"not null;index:idx_course_student,unique" json:"course_id"`
	StudentID uint      `gorm:"not null;index:idx_course_student,unique" json:"student_id"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Student   Student   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsActive reports whether the enrollment counts toward progress reports.
func (e Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
