package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// ReminderLogFilter narrows reminder log queries.
type ReminderLogFilter struct {
	CourseID  *uint
	StudentID *uint
	Page      int
	PageSize  int
}

// ReminderLogRepository persists the reminder audit trail.
type ReminderLogRepository interface {
	Create(ctx context.Context, entry *models.ReminderLog) error
	SentSince(ctx context.Context, moduleID, studentID uint, since time.Time) (bool, error)
	List(ctx context.Context, filter ReminderLogFilter) ([]models.ReminderLog, int64, error)
}

type reminderLogRepository struct {
	db *gorm.DB
}

// NewReminderLogRepository constructs the reminder log repository.
func NewReminderLogRepository(db *gorm.DB) ReminderLogRepository {
	return &reminderLogRepository{db: db}
}

func (r *reminderLogRepository) Create(ctx context.Context, entry *models.ReminderLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *reminderLogRepository) SentSince(ctx context.Context, moduleID, studentID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ReminderLog{}).
		Where("module_id = ?", moduleID).
		Where("student_id = ?", studentID).
		Where("sent_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *reminderLogRepository) List(ctx context.Context, filter ReminderLogFilter) ([]models.ReminderLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReminderLog{})

	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []models.ReminderLog
	if err := query.Order("sent_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
