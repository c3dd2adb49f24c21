package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/course-progress-api/internal/dto"
	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/observability"
	"github.com/noah-isme/course-progress-api/internal/repository"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrModuleNotFound indicates the module does not belong to the course.
var ErrModuleNotFound = errors.New("course module not found")

// ErrStudentNotEnrolled indicates the student has no active enrollment in the course.
var ErrStudentNotEnrolled = errors.New("student not actively enrolled in course")

// CourseProgressService produces submission and completion reports for a course.
type CourseProgressService interface {
	GetCourseProgress(ctx context.Context, courseID uint) (dto.CourseProgressResponse, error)
	GetStudentProgress(ctx context.Context, courseID, studentID uint) (dto.StudentProgressResponse, error)
	GetModuleStatus(ctx context.Context, courseID, moduleID, studentID uint) (dto.ModuleStatusResponse, error)
}

type courseProgressService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	snapshots   repository.ProgressSnapshotRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCourseProgressService builds the progress report generator.
func NewCourseProgressService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, snapshots repository.ProgressSnapshotRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) CourseProgressService {
	return &courseProgressService{
		courses:     courses,
		enrollments: enrollments,
		snapshots:   snapshots,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "course_progress_service").Logger(),
		now:         time.Now,
	}
}

func (s *courseProgressService) GetCourseProgress(ctx context.Context, courseID uint) (dto.CourseProgressResponse, error) {
	cacheKey := fmt.Sprintf("progress:course:%d", courseID)
	tracer := otel.Tracer("github.com/noah-isme/course-progress-api/internal/service/course_progress")
	ctx, span := tracer.Start(ctx, "progress.report")
	span.SetAttributes(
		attribute.Int64("progress.course_id", int64(courseID)),
		attribute.String("progress.cache_key", cacheKey),
	)
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.CourseProgressResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				observability.ReportCache().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("progress.cache_hit", true))
				s.logger.Debug().Uint("course_id", courseID).Msg("progress report cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read progress report cache")
			span.RecordError(err)
		}
	}

	course, modules, enrollments, resolver, err := s.loadCourseSnapshot(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_course_snapshot_failed")
		return dto.CourseProgressResponse{}, err
	}

	response := s.buildCourseReport(course, modules, enrollments, resolver)
	observability.ReportCache().WithLabelValues("miss").Inc()
	span.SetAttributes(
		attribute.Int("progress.students", len(enrollments)),
		attribute.Int("progress.modules", len(modules)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store progress report cache")
				span.RecordError(err)
			}
		}
	}

	return response, nil
}

func (s *courseProgressService) GetStudentProgress(ctx context.Context, courseID, studentID uint) (dto.StudentProgressResponse, error) {
	enrolled, err := s.enrollments.IsActivelyEnrolled(ctx, courseID, studentID)
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}
	if !enrolled {
		return dto.StudentProgressResponse{}, ErrStudentNotEnrolled
	}

	course, modules, enrollments, resolver, err := s.loadCourseSnapshot(ctx, courseID)
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	var enrollment *models.Enrollment
	for idx := range enrollments {
		if enrollments[idx].StudentID == studentID {
			enrollment = &enrollments[idx]
			break
		}
	}
	if enrollment == nil {
		return dto.StudentProgressResponse{}, ErrStudentNotEnrolled
	}

	return dto.StudentProgressResponse{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		GeneratedAt: s.now().UTC(),
		Student:     s.buildStudentRow(*enrollment, modules, resolver),
	}, nil
}

func (s *courseProgressService) GetModuleStatus(ctx context.Context, courseID, moduleID, studentID uint) (dto.ModuleStatusResponse, error) {
	if _, err := s.courses.GetModule(ctx, courseID, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ModuleStatusResponse{}, ErrModuleNotFound
		}
		return dto.ModuleStatusResponse{}, err
	}

	enrolled, err := s.enrollments.IsActivelyEnrolled(ctx, courseID, studentID)
	if err != nil {
		return dto.ModuleStatusResponse{}, err
	}
	if !enrolled {
		return dto.ModuleStatusResponse{}, ErrStudentNotEnrolled
	}

	resolver, err := NewStatusResolver(ctx, s.snapshots, courseID)
	if err != nil {
		return dto.ModuleStatusResponse{}, err
	}

	return dto.ModuleStatusResponse{
		CourseID:    courseID,
		StudentID:   studentID,
		ModuleID:    moduleID,
		Status:      resolver.Status(studentID, moduleID).String(),
		Submitted:   resolver.IsSubmitted(studentID, moduleID),
		Completion:  resolver.CompletionState(studentID, moduleID).String(),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// loadCourseSnapshot gathers everything a report needs in one place: the
// course, its modules, the active roster, and a status snapshot.
func (s *courseProgressService) loadCourseSnapshot(ctx context.Context, courseID uint) (models.Course, []models.CourseModule, []models.Enrollment, *StatusResolver, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, nil, nil, nil, ErrCourseNotFound
		}
		return models.Course{}, nil, nil, nil, err
	}

	modules, err := s.courses.ListModules(ctx, courseID)
	if err != nil {
		return models.Course{}, nil, nil, nil, err
	}

	enrollments, err := s.enrollments.ListActiveByCourse(ctx, courseID)
	if err != nil {
		return models.Course{}, nil, nil, nil, err
	}

	resolver, err := NewStatusResolver(ctx, s.snapshots, courseID)
	if err != nil {
		return models.Course{}, nil, nil, nil, err
	}

	return course, modules, enrollments, resolver, nil
}

func (s *courseProgressService) buildCourseReport(course models.Course, modules []models.CourseModule, enrollments []models.Enrollment, resolver *StatusResolver) dto.CourseProgressResponse {
	summary := dto.StatusSummary{}
	students := make([]dto.StudentProgressRow, 0, len(enrollments))

	for _, enrollment := range enrollments {
		row := s.buildStudentRow(enrollment, modules, resolver)
		summary.Merge(row.Summary)
		students = append(students, row)
	}

	if summary.Pairs > 0 {
		summary.CompletionRate = (float64(summary.CompletedPairs()) / float64(summary.Pairs)) * 100
	}

	return dto.CourseProgressResponse{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		GeneratedAt: s.now().UTC(),
		Summary:     summary,
		Students:    students,
	}
}

func (s *courseProgressService) buildStudentRow(enrollment models.Enrollment, modules []models.CourseModule, resolver *StatusResolver) dto.StudentProgressRow {
	summary := dto.StatusSummary{}
	entries := make([]dto.ModuleStatusEntry, 0, len(modules))

	for _, module := range modules {
		status := resolver.Status(enrollment.StudentID, module.ID)
		summary.Add(status)
		entries = append(entries, dto.NewModuleStatusEntry(
			module,
			status,
			resolver.IsSubmitted(enrollment.StudentID, module.ID),
			resolver.CompletionState(enrollment.StudentID, module.ID),
		))
	}

	if summary.Pairs > 0 {
		summary.CompletionRate = (float64(summary.CompletedPairs()) / float64(summary.Pairs)) * 100
	}

	return dto.StudentProgressRow{
		StudentID: enrollment.StudentID,
		Name:      enrollment.Student.Name,
		Email:     enrollment.Student.Email,
		Modules:   entries,
		Summary:   summary,
	}
}
