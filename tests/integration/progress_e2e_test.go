package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/course-progress-api/internal/config"
	"github.com/noah-isme/course-progress-api/internal/dto"
	"github.com/noah-isme/course-progress-api/internal/handler"
	"github.com/noah-isme/course-progress-api/internal/middleware"
	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/repository"
	"github.com/noah-isme/course-progress-api/internal/router"
	"github.com/noah-isme/course-progress-api/internal/service"
)

func setupProgressApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:progress_e2e?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Course{},
		&models.CourseModule{},
		&models.Student{},
		&models.Enrollment{},
		&models.AssignSubmission{},
		&models.QuizAttempt{},
		&models.CompletionRecord{},
		&models.ReminderLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	snapshotRepo := repository.NewProgressSnapshotRepository(db)
	reminderLogRepo := repository.NewReminderLogRepository(db)

	progressService := service.NewCourseProgressService(courseRepo, enrollmentRepo, snapshotRepo, nil, time.Minute, logger)
	reminderService := service.NewReminderService(courseRepo, enrollmentRepo, snapshotRepo, reminderLogRepo, nil, "", nil, validate, service.ReminderConfig{
		Window:      48 * time.Hour,
		Interval:    time.Hour,
		Suppression: 24 * time.Hour,
	}, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, config.Config{AppName: "Course Progress API", AppEnv: "test", JWTSecret: "secret"}, router.Dependencies{
		CourseProgressHandler: handler.NewCourseProgressHandler(progressService, logger),
		ReminderHandler:       handler.NewReminderHandler(reminderService, logger),
		// Test doubles stand in for JWT parsing; identity arrives via headers.
		JWTMiddleware: func(c *fiber.Ctx) error {
			if id := c.Get("X-Test-User"); id != "" {
				parsed, err := strconv.ParseUint(id, 10, 64)
				if err == nil {
					c.Locals("user_id", uint(parsed))
				}
			}
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals("user_role", role)
			}
			return c.Next()
		},
	})

	return app, db
}

// seedCourse loads one course with four modules and three students:
//
//	module 11 page  "Syllabus"     read-to-complete, no deadline
//	module 12 assign "Essay"       due in 24h
//	module 13 quiz  "Final Quiz"   due in 24h
//	module 14 assign "Graded Lab"  no deadline, already graded
//
// Student 1 drafted the essay, finished the quiz, and failed the lab.
// Student 2 read the syllabus, resubmitted the essay, and passed the lab.
// Student 3 is suspended and must stay invisible to reports and reminders.
func seedCourse(t *testing.T, db *gorm.DB) {
	t.Helper()

	now := time.Now().UTC()
	due := now.Add(24 * time.Hour)

	require.NoError(t, db.Create(&models.Course{ID: 1, Slug: "intro-db", Title: "Introduction to Databases"}).Error)

	modules := []models.CourseModule{
		{ID: 11, CourseID: 1, ModuleType: models.ModuleTypePage, Name: "Syllabus"},
		{ID: 12, CourseID: 1, ModuleType: models.ModuleTypeAssign, Name: "Essay", DueDate: &due},
		{ID: 13, CourseID: 1, ModuleType: models.ModuleTypeQuiz, Name: "Final Quiz", DueDate: &due},
		{ID: 14, CourseID: 1, ModuleType: models.ModuleTypeAssign, Name: "Graded Lab"},
	}
	for i := range modules {
		require.NoError(t, db.Create(&modules[i]).Error)
	}

	students := []models.Student{
		{ID: 1, Name: "Ani", Email: "ani@example.com"},
		{ID: 2, Name: "Budi", Email: "budi@example.com"},
		{ID: 3, Name: "Cici", Email: "cici@example.com"},
	}
	for i := range students {
		require.NoError(t, db.Create(&students[i]).Error)
	}

	enrollments := []models.Enrollment{
		{CourseID: 1, StudentID: 1, Status: models.EnrollmentStatusActive},
		{CourseID: 1, StudentID: 2, Status: models.EnrollmentStatusActive},
		{CourseID: 1, StudentID: 3, Status: models.EnrollmentStatusSuspended},
	}
	for i := range enrollments {
		require.NoError(t, db.Create(&enrollments[i]).Error)
	}

	submissions := []models.AssignSubmission{
		{ModuleID: 12, StudentID: 1, Attempt: 1, Status: models.SubmissionStatusDraft},
		{ModuleID: 12, StudentID: 2, Attempt: 1, Status: models.SubmissionStatusSubmitted},
		{ModuleID: 12, StudentID: 2, Attempt: 2, Status: models.SubmissionStatusSubmitted},
	}
	for i := range submissions {
		require.NoError(t, db.Create(&submissions[i]).Error)
	}

	require.NoError(t, db.Create(&models.QuizAttempt{ModuleID: 13, StudentID: 1, State: models.QuizAttemptFinished, StartedAt: now}).Error)

	completions := []models.CompletionRecord{
		{ModuleID: 11, StudentID: 2, State: 1},
		{ModuleID: 14, StudentID: 1, State: 3},
		{ModuleID: 14, StudentID: 2, State: 2},
	}
	for i := range completions {
		require.NoError(t, db.Create(&completions[i]).Error)
	}
}

func request(t *testing.T, app *fiber.App, method, path, userID, role string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func TestProgressEndToEndFlow(t *testing.T) {
	app, db := setupProgressApp(t)
	seedCourse(t, db)

	// Step 1: health endpoint is public
	health := request(t, app, http.MethodGet, "/api/v1/health", "", "")
	require.Equal(t, http.StatusOK, health.StatusCode)

	var healthPayload struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	decode(t, health, &healthPayload)
	require.True(t, healthPayload.Success)
	require.Equal(t, "ok", healthPayload.Data.Status)

	// Step 2: teacher pulls the full course matrix
	matrix := request(t, app, http.MethodGet, "/api/v2/courses/1/progress", "900", "teacher")
	require.Equal(t, http.StatusOK, matrix.StatusCode)
	require.Equal(t, "false", matrix.Header.Get("X-Cache-Hit"))

	var report struct {
		Data dto.CourseProgressResponse `json:"data"`
	}
	decode(t, matrix, &report)
	require.Equal(t, "Introduction to Databases", report.Data.CourseTitle)
	require.Len(t, report.Data.Students, 2, "suspended student excluded")

	ani := report.Data.Students[0]
	require.Equal(t, uint(1), ani.StudentID)
	require.Equal(t, []string{"not_submitted", "not_submitted", "submitted", "completed_fail"}, statuses(ani.Modules))

	budi := report.Data.Students[1]
	require.Equal(t, uint(2), budi.StudentID)
	require.Equal(t, []string{"completed", "submitted", "not_submitted", "completed_pass"}, statuses(budi.Modules))

	require.Equal(t, 8, report.Data.Summary.Pairs)
	require.Equal(t, 3, report.Data.Summary.NotSubmitted)
	require.Equal(t, 2, report.Data.Summary.Submitted)
	require.Equal(t, 1, report.Data.Summary.Completed)
	require.Equal(t, 1, report.Data.Summary.CompletedPass)
	require.Equal(t, 1, report.Data.Summary.CompletedFail)
	require.InDelta(t, 37.5, report.Data.Summary.CompletionRate, 0.01)

	// Step 3: students read their own rows but nobody else's
	denied := request(t, app, http.MethodGet, "/api/v2/courses/1/progress", "1", "student")
	require.Equal(t, http.StatusForbidden, denied.StatusCode)

	own := request(t, app, http.MethodGet, "/api/v2/courses/1/students/1/progress", "1", "student")
	require.Equal(t, http.StatusOK, own.StatusCode)

	var studentPayload struct {
		Data dto.StudentProgressResponse `json:"data"`
	}
	decode(t, own, &studentPayload)
	require.Equal(t, uint(1), studentPayload.Data.Student.StudentID)
	require.Len(t, studentPayload.Data.Student.Modules, 4)

	foreign := request(t, app, http.MethodGet, "/api/v2/courses/1/students/2/progress", "1", "student")
	require.Equal(t, http.StatusForbidden, foreign.StatusCode)

	// Step 4: point status query exposes all three signals
	status := request(t, app, http.MethodGet, "/api/v2/courses/1/students/2/modules/14/status", "900", "admin")
	require.Equal(t, http.StatusOK, status.StatusCode)

	var statusPayload struct {
		Data dto.ModuleStatusResponse `json:"data"`
	}
	decode(t, status, &statusPayload)
	require.Equal(t, "completed_pass", statusPayload.Data.Status)
	require.Equal(t, "complete_pass", statusPayload.Data.Completion)
	require.False(t, statusPayload.Data.Submitted)

	missing := request(t, app, http.MethodGet, "/api/v2/courses/1/students/2/modules/999/status", "900", "admin")
	require.Equal(t, http.StatusNotFound, missing.StatusCode)

	// Step 5: reminder sweep targets only outstanding pairs of due modules
	forbiddenSweep := request(t, app, http.MethodPost, "/api/admin/reminders/run", "900", "teacher")
	require.Equal(t, http.StatusForbidden, forbiddenSweep.StatusCode)

	sweep := request(t, app, http.MethodPost, "/api/admin/reminders/run", "901", "admin")
	require.Equal(t, http.StatusOK, sweep.StatusCode)

	var sweepPayload struct {
		Data dto.ReminderRunResponse `json:"data"`
	}
	decode(t, sweep, &sweepPayload)
	require.Equal(t, 1, sweepPayload.Data.CoursesScanned)
	require.Equal(t, 2, sweepPayload.Data.ModulesDue)
	require.Equal(t, 2, sweepPayload.Data.Sent, "essay for Ani, quiz for Budi")
	require.Equal(t, 0, sweepPayload.Data.Suppressed)

	repeat := request(t, app, http.MethodPost, "/api/admin/reminders/run", "901", "admin")
	require.Equal(t, http.StatusOK, repeat.StatusCode)

	var repeatPayload struct {
		Data dto.ReminderRunResponse `json:"data"`
	}
	decode(t, repeat, &repeatPayload)
	require.Equal(t, 0, repeatPayload.Data.Sent)
	require.Equal(t, 2, repeatPayload.Data.Suppressed)

	// Step 6: the audit listing reflects both deliveries
	listing := request(t, app, http.MethodGet, "/api/admin/reminders?courseId=1", "901", "admin")
	require.Equal(t, http.StatusOK, listing.StatusCode)

	var listingPayload struct {
		Data []dto.ReminderLogResponse `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	decode(t, listing, &listingPayload)
	require.Equal(t, int64(2), listingPayload.Meta.Total)
	require.Len(t, listingPayload.Data, 2)
	for _, entry := range listingPayload.Data {
		require.Equal(t, uint(1), entry.CourseID)
		require.Equal(t, models.ReminderChannelNone, entry.Channel)
	}

	// Step 7: the scrape endpoint reports the traffic generated above
	metrics := request(t, app, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, metrics.StatusCode)

	metricsBody, err := io.ReadAll(metrics.Body)
	require.NoError(t, err)
	metrics.Body.Close()
	require.True(t, strings.Contains(string(metricsBody), "progress_http_requests_total"))
	require.True(t, strings.Contains(string(metricsBody), "progress_snapshot_builds_total"))
}

func statuses(entries []dto.ModuleStatusEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Status)
	}
	return out
}
