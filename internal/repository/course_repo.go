package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// CourseRepository defines read operations over courses and their modules.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	ListModules(ctx context.Context, courseID uint) ([]models.CourseModule, error)
	GetModule(ctx context.Context, courseID, moduleID uint) (models.CourseModule, error)
	ListModulesDueBetween(ctx context.Context, from, until time.Time) ([]models.CourseModule, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) ListModules(ctx context.Context, courseID uint) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}

func (r *courseRepository) GetModule(ctx context.Context, courseID, moduleID uint) (models.CourseModule, error) {
	var module models.CourseModule
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&module, moduleID).Error; err != nil {
		return models.CourseModule{}, err
	}

	return module, nil
}

func (r *courseRepository) ListModulesDueBetween(ctx context.Context, from, until time.Time) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	if err := r.db.WithContext(ctx).
		Where("due_date IS NOT NULL").
		Where("due_date > ?", from).
		Where("due_date <= ?", until).
		Order("due_date ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}

	return modules, nil
}
