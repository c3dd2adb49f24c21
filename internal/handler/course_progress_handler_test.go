package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-progress-api/internal/dto"
	"github.com/noah-isme/course-progress-api/internal/handler"
	"github.com/noah-isme/course-progress-api/internal/service"
)

type mockProgressService struct {
	courseResp  dto.CourseProgressResponse
	studentResp dto.StudentProgressResponse
	moduleResp  dto.ModuleStatusResponse
	err         error

	lastCourseID  uint
	lastStudentID uint
	lastModuleID  uint
}

func (m *mockProgressService) GetCourseProgress(ctx context.Context, courseID uint) (dto.CourseProgressResponse, error) {
	m.lastCourseID = courseID
	return m.courseResp, m.err
}

func (m *mockProgressService) GetStudentProgress(ctx context.Context, courseID, studentID uint) (dto.StudentProgressResponse, error) {
	m.lastCourseID = courseID
	m.lastStudentID = studentID
	return m.studentResp, m.err
}

func (m *mockProgressService) GetModuleStatus(ctx context.Context, courseID, moduleID, studentID uint) (dto.ModuleStatusResponse, error) {
	m.lastCourseID = courseID
	m.lastModuleID = moduleID
	m.lastStudentID = studentID
	return m.moduleResp, m.err
}

func newProgressApp(svc service.CourseProgressService, userID interface{}, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != nil {
			c.Locals("user_id", userID)
		}
		if role != "" {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	handler.NewCourseProgressHandler(svc, zerolog.Nop()).Register(app.Group("/api/v2/courses"))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestCourseProgressHandlerStaffGetsMatrix(t *testing.T) {
	svc := &mockProgressService{
		courseResp: dto.CourseProgressResponse{
			CourseID:    7,
			CourseTitle: "Go Basics",
			GeneratedAt: time.Now().UTC(),
			Summary:     dto.StatusSummary{Pairs: 4, Submitted: 2, NotSubmitted: 2},
		},
	}
	app := newProgressApp(svc, uint(1), "teacher")

	resp := doRequest(t, app, http.MethodGet, "/api/v2/courses/7/progress")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "false", resp.Header.Get("X-Cache-Hit"))
	require.Equal(t, uint(7), svc.lastCourseID)

	var payload struct {
		Success bool                       `json:"success"`
		Data    dto.CourseProgressResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.True(t, payload.Success)
	require.Equal(t, "Go Basics", payload.Data.CourseTitle)
	require.Equal(t, 4, payload.Data.Summary.Pairs)
}

func TestCourseProgressHandlerCacheHitHeader(t *testing.T) {
	svc := &mockProgressService{courseResp: dto.CourseProgressResponse{CourseID: 7, CacheHit: true}}
	app := newProgressApp(svc, uint(1), "admin")

	resp := doRequest(t, app, http.MethodGet, "/api/v2/courses/7/progress")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "true", resp.Header.Get("X-Cache-Hit"))
}

func TestCourseProgressHandlerMatrixForbiddenForStudents(t *testing.T) {
	svc := &mockProgressService{}
	app := newProgressApp(svc, uint(9), "student")

	resp := doRequest(t, app, http.MethodGet, "/api/v2/courses/7/progress")
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, svc.lastCourseID)
}

func TestCourseProgressHandlerStudentReadsOwnProgress(t *testing.T) {
	svc := &mockProgressService{
		studentResp: dto.StudentProgressResponse{
			CourseID: 7,
			Student:  dto.StudentProgressRow{StudentID: 9, Name: "Alice"},
		},
	}
	app := newProgressApp(svc, uint(9), "student")

	resp := doRequest(t, app, http.MethodGet, "/api/v2/courses/7/students/9/progress")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(9), svc.lastStudentID)

	denied := doRequest(t, app, http.MethodGet, "/api/v2/courses/7/students/10/progress")
	require.Equal(t, fiber.StatusForbidden, denied.StatusCode)
}

func TestCourseProgressHandlerModuleStatus(t *testing.T) {
	svc := &mockProgressService{
		moduleResp: dto.ModuleStatusResponse{CourseID: 7, StudentID: 9, ModuleID: 3, Status: "submitted", Submitted: true},
	}
	app := newProgressApp(svc, uint(2), "teacher")

	resp := doRequest(t, app, http.MethodGet, "/api/v2/courses/7/students/9/modules/3/status")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(3), svc.lastModuleID)

	var payload struct {
		Data dto.ModuleStatusResponse `json:"data"`
	}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "submitted", payload.Data.Status)
	require.True(t, payload.Data.Submitted)
}

func TestCourseProgressHandlerServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		path       string
		statusCode int
	}{
		{name: "course missing", err: service.ErrCourseNotFound, path: "/api/v2/courses/7/progress", statusCode: fiber.StatusNotFound},
		{name: "not enrolled", err: service.ErrStudentNotEnrolled, path: "/api/v2/courses/7/students/9/progress", statusCode: fiber.StatusNotFound},
		{name: "module missing", err: service.ErrModuleNotFound, path: "/api/v2/courses/7/students/9/modules/3/status", statusCode: fiber.StatusNotFound},
		{name: "generic", err: errors.New("boom"), path: "/api/v2/courses/7/progress", statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newProgressApp(&mockProgressService{err: tc.err}, uint(1), "admin")
			resp := doRequest(t, app, http.MethodGet, tc.path)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestCourseProgressHandlerRejectsMalformedIDs(t *testing.T) {
	app := newProgressApp(&mockProgressService{}, uint(1), "admin")

	resp := doRequest(t, app, http.MethodGet, "/api/v2/courses/abc/progress")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/v2/courses/0/progress")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
