package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/course-progress-api/internal/models"
)

// CompletionStateRow carries one completion tracking entry with the raw
// state code still unmapped; interpreting the code is the resolver's job.
type CompletionStateRow struct {
	StudentID uint
	ModuleID  uint
	State     int
}

// Key returns the activity key addressed by the row.
func (r CompletionStateRow) Key() models.ActivityKey {
	return models.ActivityKey{StudentID: r.StudentID, ModuleID: r.ModuleID}
}

// ProgressSnapshotRepository supplies the two bulk reads a status snapshot
// is built from. Both queries are scoped to a single course.
type ProgressSnapshotRepository interface {
	// FindSubmittedActivityKeys returns every (student, module) pair of the
	// course holding a qualifying submission: an assignment attempt handed in
	// for grading, or a quiz attempt that was finished or abandoned.
	// Deduplicated across attempts.
	FindSubmittedActivityKeys(ctx context.Context, courseID uint) ([]models.ActivityKey, error)
	// FindCompletionStates returns one row per completion tracking entry
	// recorded for modules of the course.
	FindCompletionStates(ctx context.Context, courseID uint) ([]CompletionStateRow, error)
}

type progressSnapshotRepository struct {
	db *gorm.DB
}

// NewProgressSnapshotRepository instantiates a GORM-backed repository.
func NewProgressSnapshotRepository(db *gorm.DB) ProgressSnapshotRepository {
	return &progressSnapshotRepository{db: db}
}

func (r *progressSnapshotRepository) FindSubmittedActivityKeys(ctx context.Context, courseID uint) ([]models.ActivityKey, error) {
	var assignKeys []models.ActivityKey
	if err := r.db.WithContext(ctx).
		Model(&models.AssignSubmission{}).
		Distinct("assign_submissions.student_id", "assign_submissions.module_id").
		Joins("JOIN course_modules ON course_modules.id = assign_submissions.module_id").
		Where("course_modules.course_id = ?", courseID).
		Where("course_modules.module_type = ?", models.ModuleTypeAssign).
		Where("assign_submissions.status = ?", models.SubmissionStatusSubmitted).
		Scan(&assignKeys).Error; err != nil {
		return nil, err
	}

	var quizKeys []models.ActivityKey
	if err := r.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Distinct("quiz_attempts.student_id", "quiz_attempts.module_id").
		Joins("JOIN course_modules ON course_modules.id = quiz_attempts.module_id").
		Where("course_modules.course_id = ?", courseID).
		Where("course_modules.module_type = ?", models.ModuleTypeQuiz).
		Where("quiz_attempts.state IN ?", []string{models.QuizAttemptFinished, models.QuizAttemptAbandoned}).
		Scan(&quizKeys).Error; err != nil {
		return nil, err
	}

	// Merge the two sources, deduplicated on the (student, module) pair.
	seen := make(map[models.ActivityKey]struct{}, len(assignKeys)+len(quizKeys))
	keys := make([]models.ActivityKey, 0, len(assignKeys)+len(quizKeys))
	for _, key := range assignKeys {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for _, key := range quizKeys {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (r *progressSnapshotRepository) FindCompletionStates(ctx context.Context, courseID uint) ([]CompletionStateRow, error) {
	var rows []CompletionStateRow
	if err := r.db.WithContext(ctx).
		Model(&models.CompletionRecord{}).
		Select("completion_records.student_id", "completion_records.module_id", "completion_records.state").
		Joins("JOIN course_modules ON course_modules.id = completion_records.module_id").
		Where("course_modules.course_id = ?", courseID).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
