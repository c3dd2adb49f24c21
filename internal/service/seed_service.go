package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedInvalid indicates the fixture payload cannot be loaded as given.
	ErrSeedInvalid = errors.New("invalid seed fixture")
)

// CourseFixture carries one course's full activity matrix for seeding.
// Rows must carry explicit ids so repeated loads upsert instead of
// duplicating.
type CourseFixture struct {
	Course      models.Course             `json:"course"`
	Modules     []models.CourseModule     `json:"modules"`
	Students    []models.Student          `json:"students"`
	Enrollments []models.Enrollment       `json:"enrollments"`
	Submissions []models.AssignSubmission `json:"submissions"`
	Attempts    []models.QuizAttempt      `json:"attempts"`
	Completions []models.CompletionRecord `json:"completions"`
}

// SeedService loads demo course data into the activity stores so the
// reporting endpoints have something to report on outside production.
type SeedService interface {
	LoadCourse(ctx context.Context, token string, fixture CourseFixture) (int64, error)
}

type seedService struct {
	repo    repository.SeedRepository
	enabled bool
	token   string
	logger  zerolog.Logger
	now     func() time.Time
}

// NewSeedService constructs a seeding service.
func NewSeedService(repo repository.SeedRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:    repo,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
		now:     time.Now,
	}
}

func (s *seedService) LoadCourse(ctx context.Context, token string, fixture CourseFixture) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}
	if fixture.Course.ID == 0 {
		return 0, ErrSeedInvalid
	}

	fixture = normalizeCourseFixture(fixture, s.now().UTC())

	var affected int64

	count, err := s.repo.UpsertCourse(ctx, fixture.Course)
	if err != nil {
		return affected, err
	}
	affected += count

	steps := []func(context.Context) (int64, error){
		func(ctx context.Context) (int64, error) { return s.repo.UpsertModules(ctx, fixture.Modules) },
		func(ctx context.Context) (int64, error) { return s.repo.UpsertStudents(ctx, fixture.Students) },
		func(ctx context.Context) (int64, error) { return s.repo.UpsertEnrollments(ctx, fixture.Enrollments) },
		func(ctx context.Context) (int64, error) { return s.repo.UpsertSubmissions(ctx, fixture.Submissions) },
		func(ctx context.Context) (int64, error) { return s.repo.UpsertAttempts(ctx, fixture.Attempts) },
		func(ctx context.Context) (int64, error) { return s.repo.UpsertCompletions(ctx, fixture.Completions) },
	}
	for _, step := range steps {
		count, err := step(ctx)
		if err != nil {
			return affected, err
		}
		affected += count
	}

	s.logger.Info().
		Uint("course_id", fixture.Course.ID).
		Int64("affected", affected).
		Msg("course fixture seeded")

	return affected, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

// normalizeCourseFixture pins every row to the fixture's course and fills in
// the defaults a hand-written fixture usually omits.
func normalizeCourseFixture(fixture CourseFixture, now time.Time) CourseFixture {
	courseID := fixture.Course.ID
	if fixture.Course.Slug == "" {
		fixture.Course.Slug = strings.ReplaceAll(strings.ToLower(fixture.Course.Title), " ", "-")
	}

	for i := range fixture.Modules {
		fixture.Modules[i].CourseID = courseID
		if fixture.Modules[i].ModuleType == "" {
			fixture.Modules[i].ModuleType = models.ModuleTypePage
		}
	}
	for i := range fixture.Enrollments {
		fixture.Enrollments[i].CourseID = courseID
		if fixture.Enrollments[i].Status == "" {
			fixture.Enrollments[i].Status = models.EnrollmentStatusActive
		}
	}
	for i := range fixture.Submissions {
		if fixture.Submissions[i].Attempt == 0 {
			fixture.Submissions[i].Attempt = 1
		}
		if fixture.Submissions[i].Status == "" {
			fixture.Submissions[i].Status = models.SubmissionStatusSubmitted
		}
	}
	for i := range fixture.Attempts {
		if fixture.Attempts[i].Attempt == 0 {
			fixture.Attempts[i].Attempt = 1
		}
		if fixture.Attempts[i].State == "" {
			fixture.Attempts[i].State = models.QuizAttemptFinished
		}
		if fixture.Attempts[i].StartedAt.IsZero() {
			fixture.Attempts[i].StartedAt = now
		}
	}

	return fixture
}
