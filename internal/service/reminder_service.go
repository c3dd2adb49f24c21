package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/noah-isme/course-progress-api/internal/dto"
	"github.com/noah-isme/course-progress-api/internal/middleware"
	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/observability"
	"github.com/noah-isme/course-progress-api/internal/repository"
)

// ReminderConfig carries the scheduler knobs.
type ReminderConfig struct {
	Window      time.Duration
	Interval    time.Duration
	Suppression time.Duration
}

// ReminderService nudges students who have not submitted work that is due soon.
type ReminderService interface {
	Run(ctx context.Context, payload dto.ReminderRunRequest) (dto.ReminderRunResponse, error)
	RunOnce(ctx context.Context, window time.Duration) (dto.ReminderRunResponse, error)
	ListLogs(ctx context.Context, filter repository.ReminderLogFilter) ([]dto.ReminderLogResponse, int64, error)
	Start(ctx context.Context)
}

type reminderService struct {
	courses      repository.CourseRepository
	enrollments  repository.EnrollmentRepository
	snapshots    repository.ProgressSnapshotRepository
	logs         repository.ReminderLogRepository
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	sanitizer    *bluemonday.Policy
	nodeID       string
	window       time.Duration
	interval     time.Duration
	suppression  time.Duration
	now          func() time.Time
}

// NewReminderService constructs the due-date reminder scheduler.
func NewReminderService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, snapshots repository.ProgressSnapshotRepository, logs repository.ReminderLogRepository, redisClient *redis.Client, channelBase string, natsConn *nats.Conn, validate *validator.Validate, cfg ReminderConfig, logger zerolog.Logger) ReminderService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":reminders"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".reminders"
	}

	if cfg.Window <= 0 {
		cfg.Window = 48 * time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Suppression <= 0 {
		cfg.Suppression = 24 * time.Hour
	}

	return &reminderService{
		courses:      courses,
		enrollments:  enrollments,
		snapshots:    snapshots,
		logs:         logs,
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		validator:    validate,
		logger:       logger.With().Str("component", "reminder_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/course-progress-api/internal/service/reminder"),
		sanitizer:    bluemonday.StrictPolicy(),
		nodeID:       uuid.NewString(),
		window:       cfg.Window,
		interval:     cfg.Interval,
		suppression:  cfg.Suppression,
		now:          time.Now,
	}
}

// Start launches the periodic sweep loop. It returns immediately; the loop
// stops when the context is cancelled.
func (s *reminderService) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *reminderService) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Each scheduled sweep gets its own correlation id so its log
			// lines read like one traced request.
			sweepCtx := middleware.ContextWithCorrelation(ctx, uuid.NewString())
			logger := s.sweepLogger(sweepCtx)

			summary, err := s.RunOnce(sweepCtx, s.window)
			if err != nil {
				logger.Error().Err(err).Msg("scheduled reminder sweep failed")
				continue
			}
			logger.Info().
				Int("courses", summary.CoursesScanned).
				Int("modules_due", summary.ModulesDue).
				Int("sent", summary.Sent).
				Int("suppressed", summary.Suppressed).
				Msg("reminder sweep completed")
		}
	}
}

// sweepLogger tags the component logger with the correlation id carried by
// ctx, covering both HTTP-triggered and scheduled sweeps.
func (s *reminderService) sweepLogger(ctx context.Context) zerolog.Logger {
	if correlation := middleware.CorrelationIDFromContext(ctx); correlation != "" {
		return s.logger.With().Str("correlation_id", correlation).Logger()
	}
	return s.logger
}

func (s *reminderService) Run(ctx context.Context, payload dto.ReminderRunRequest) (dto.ReminderRunResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReminderRunResponse{}, err
	}

	window := s.window
	if payload.WindowHours != nil {
		window = time.Duration(*payload.WindowHours) * time.Hour
	}

	return s.RunOnce(ctx, window)
}

func (s *reminderService) RunOnce(ctx context.Context, window time.Duration) (dto.ReminderRunResponse, error) {
	if window <= 0 {
		window = s.window
	}
	now := s.now().UTC()

	ctx, span := s.tracer.Start(ctx, "reminders.sweep", trace.WithAttributes(
		attribute.String("reminder.window", window.String()),
	))
	defer span.End()

	modules, err := s.courses.ListModulesDueBetween(ctx, now, now.Add(window))
	if err != nil {
		span.RecordError(err)
		return dto.ReminderRunResponse{}, err
	}

	courseIDs := make([]uint, 0)
	byCourse := map[uint][]models.CourseModule{}
	for _, module := range modules {
		if _, seen := byCourse[module.CourseID]; !seen {
			courseIDs = append(courseIDs, module.CourseID)
		}
		byCourse[module.CourseID] = append(byCourse[module.CourseID], module)
	}

	summary := dto.ReminderRunResponse{
		ModulesDue:  len(modules),
		Window:      window.String(),
		GeneratedAt: now,
	}

	for _, courseID := range courseIDs {
		summary.CoursesScanned++

		resolver, err := NewStatusResolver(ctx, s.snapshots, courseID)
		if err != nil {
			span.RecordError(err)
			return summary, err
		}

		enrollments, err := s.enrollments.ListActiveByCourse(ctx, courseID)
		if err != nil {
			span.RecordError(err)
			return summary, err
		}

		for _, module := range byCourse[courseID] {
			if !module.IsDueWithin(now, window) {
				continue
			}
			for _, enrollment := range enrollments {
				// Anyone who submitted or completed needs no nudge.
				if resolver.Status(enrollment.StudentID, module.ID).Has(models.StatusSubmitted | models.AnyCompleted) {
					continue
				}
				if err := s.remind(ctx, module, enrollment.StudentID, now, &summary); err != nil {
					span.RecordError(err)
					return summary, err
				}
			}
		}
	}

	span.SetAttributes(
		attribute.Int("reminder.sent", summary.Sent),
		attribute.Int("reminder.suppressed", summary.Suppressed),
	)

	return summary, nil
}

func (s *reminderService) ListLogs(ctx context.Context, filter repository.ReminderLogFilter) ([]dto.ReminderLogResponse, int64, error) {
	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return dto.NewReminderLogResponseSlice(logs), total, nil
}

// remind delivers one reminder unless an earlier one is still inside the
// suppression interval. Broker failures are logged and counted, not fatal.
func (s *reminderService) remind(ctx context.Context, module models.CourseModule, studentID uint, now time.Time, summary *dto.ReminderRunResponse) error {
	recent, err := s.logs.SentSince(ctx, module.ID, studentID, now.Add(-s.suppression))
	if err != nil {
		return err
	}
	if recent {
		summary.Suppressed++
		observability.Reminders().WithLabelValues("suppressed").Inc()
		return nil
	}

	cleanName := strings.TrimSpace(s.sanitizer.Sanitize(module.Name))
	if cleanName == "" {
		cleanName = "course module"
	}

	due := module.DueDate.UTC()
	message := fmt.Sprintf("%s is due %s", cleanName, due.Format(time.RFC1123))
	if module.AcceptsSubmissions() {
		message = fmt.Sprintf("Submission for %s is due %s", cleanName, due.Format(time.RFC1123))
	}

	event := dto.ReminderEvent{
		EventID:    uuid.NewString(),
		Source:     s.nodeID,
		CourseID:   module.CourseID,
		ModuleID:   module.ID,
		StudentID:  studentID,
		ModuleName: cleanName,
		DueDate:    due,
		Message:    message,
		SentAt:     now,
	}

	channel, err := s.publish(ctx, event)
	if err != nil {
		logger := s.sweepLogger(ctx)
		logger.Warn().Err(err).
			Uint("module_id", module.ID).
			Uint("student_id", studentID).
			Msg("failed to publish reminder event")
		observability.Reminders().WithLabelValues("failed").Inc()
		return nil
	}

	log := models.ReminderLog{
		CourseID:  module.CourseID,
		ModuleID:  module.ID,
		StudentID: studentID,
		Channel:   channel,
		Metadata: datatypes.JSONMap{
			"event_id":    event.EventID,
			"module_name": cleanName,
			"due_date":    event.DueDate.Format(time.RFC3339),
		},
		SentAt: now,
	}
	if err := s.logs.Create(ctx, &log); err != nil {
		return err
	}

	summary.Sent++
	observability.Reminders().WithLabelValues("sent").Inc()

	return nil
}

func (s *reminderService) publish(ctx context.Context, event dto.ReminderEvent) (string, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return models.ReminderChannelNone, err
	}

	published := models.ReminderChannelNone

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			return models.ReminderChannelNone, err
		}
		published = models.ReminderChannelRedis
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return models.ReminderChannelNone, err
		}
		published = models.ReminderChannelNATS
	}

	return published, nil
}
