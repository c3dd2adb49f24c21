package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// EnrollmentRepository answers who belongs to a course.
type EnrollmentRepository interface {
	ListActiveByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error)
	IsActivelyEnrolled(ctx context.Context, courseID, studentID uint) (bool, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) ListActiveByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Where("status = ?", models.EnrollmentStatusActive).
		Order("student_id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) IsActivelyEnrolled(ctx context.Context, courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Where("student_id = ?", studentID).
		Where("status = ?", models.EnrollmentStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
