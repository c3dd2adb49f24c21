package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// SeedRepository batch-upserts demo course data for non-production
// environments. The reporting read path never goes through here.
type SeedRepository interface {
	UpsertCourse(ctx context.Context, course models.Course) (int64, error)
	UpsertModules(ctx context.Context, items []models.CourseModule) (int64, error)
	UpsertStudents(ctx context.Context, items []models.Student) (int64, error)
	UpsertEnrollments(ctx context.Context, items []models.Enrollment) (int64, error)
	UpsertSubmissions(ctx context.Context, items []models.AssignSubmission) (int64, error)
	UpsertAttempts(ctx context.Context, items []models.QuizAttempt) (int64, error)
	UpsertCompletions(ctx context.Context, items []models.CompletionRecord) (int64, error)
}

type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository constructs the repository implementation.
func NewSeedRepository(db *gorm.DB) SeedRepository {
	return &seedRepository{db: db}
}

func (r *seedRepository) UpsertCourse(ctx context.Context, course models.Course) (int64, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"slug", "title", "updated_at"}),
	}).Create(&course)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertModules(ctx context.Context, items []models.CourseModule) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"course_id", "module_type", "name", "due_date", "updated_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertStudents(ctx context.Context, items []models.Student) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "updated_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertEnrollments(ctx context.Context, items []models.Enrollment) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "course_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertSubmissions(ctx context.Context, items []models.AssignSubmission) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"module_id", "student_id", "attempt", "status", "updated_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertAttempts(ctx context.Context, items []models.QuizAttempt) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"module_id", "student_id", "attempt", "state", "started_at", "finished_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}

func (r *seedRepository) UpsertCompletions(ctx context.Context, items []models.CompletionRecord) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module_id"}, {Name: "student_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "viewed_at", "updated_at"}),
	}).Create(&items)
	return result.RowsAffected, result.Error
}
