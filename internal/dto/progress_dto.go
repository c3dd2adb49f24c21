package dto

import (
	"time"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// StatusSummary counts resolved statuses across a set of (student, module)
// pairs.
type StatusSummary struct {
	Pairs          int     `json:"pairs"`
	NotSubmitted   int     `json:"not_submitted"`
	Submitted      int     `json:"submitted"`
	Completed      int     `json:"completed"`
	CompletedPass  int     `json:"completed_pass"`
	CompletedFail  int     `json:"completed_fail"`
	CompletionRate float64 `json:"completion_rate"`
}

// Add folds one resolved status into the summary counts.
func (s *StatusSummary) Add(status models.ActivityStatus) {
	s.Pairs++
	switch status {
	case models.StatusSubmitted:
		s.Submitted++
	case models.StatusCompleted:
		s.Completed++
	case models.StatusCompletedPass:
		s.CompletedPass++
	case models.StatusCompletedFail:
		s.CompletedFail++
	default:
		s.NotSubmitted++
	}
}

// Merge folds another summary's counts into this one. CompletionRate is left
// for the caller to recompute.
func (s *StatusSummary) Merge(other StatusSummary) {
	s.Pairs += other.Pairs
	s.NotSubmitted += other.NotSubmitted
	s.Submitted += other.Submitted
	s.Completed += other.Completed
	s.CompletedPass += other.CompletedPass
	s.CompletedFail += other.CompletedFail
}

// CompletedPairs returns how many pairs reached any completion variant.
func (s StatusSummary) CompletedPairs() int {
	return s.Completed + s.CompletedPass + s.CompletedFail
}

// ModuleStatusEntry is one module's resolved standing for one student.
type ModuleStatusEntry struct {
	ModuleID   uint       `json:"module_id"`
	Name       string     `json:"name"`
	ModuleType string     `json:"module_type"`
	DueDate    *time.Time `json:"due_date"`
	Status     string     `json:"status"`
	Submitted  bool       `json:"submitted"`
	Completion string     `json:"completion"`
}

// NewModuleStatusEntry maps a module plus its resolved signals into a DTO.
func NewModuleStatusEntry(module models.CourseModule, status models.ActivityStatus, submitted bool, completion models.CompletionState) ModuleStatusEntry {
	return ModuleStatusEntry{
		ModuleID:   module.ID,
		Name:       module.Name,
		ModuleType: module.ModuleType,
		DueDate:    module.DueDate,
		Status:     status.String(),
		Submitted:  submitted,
		Completion: completion.String(),
	}
}

// StudentProgressRow is one student's standing across the course modules.
type StudentProgressRow struct {
	StudentID uint                `json:"student_id"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Modules   []ModuleStatusEntry `json:"modules"`
	Summary   StatusSummary       `json:"summary"`
}

// CourseProgressResponse is the full user-by-module status matrix of a course.
type CourseProgressResponse struct {
	CourseID    uint                 `json:"course_id"`
	CourseTitle string               `json:"course_title"`
	GeneratedAt time.Time            `json:"generated_at"`
	CacheHit    bool                 `json:"cache_hit"`
	Summary     StatusSummary        `json:"summary"`
	Students    []StudentProgressRow `json:"students"`
}

// StudentProgressResponse is one student's view of a course.
type StudentProgressResponse struct {
	CourseID    uint               `json:"course_id"`
	CourseTitle string             `json:"course_title"`
	GeneratedAt time.Time          `json:"generated_at"`
	Student     StudentProgressRow `json:"student"`
}

// ModuleStatusResponse answers a point status query, exposing all three
// resolver signals.
type ModuleStatusResponse struct {
	CourseID    uint      `json:"course_id"`
	StudentID   uint      `json:"student_id"`
	ModuleID    uint      `json:"module_id"`
	Status      string    `json:"status"`
	Submitted   bool      `json:"submitted"`
	Completion  string    `json:"completion"`
	GeneratedAt time.Time `json:"generated_at"`
}
