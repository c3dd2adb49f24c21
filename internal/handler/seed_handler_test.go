package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-progress-api/internal/handler"
	"github.com/noah-isme/course-progress-api/internal/models"
	"github.com/noah-isme/course-progress-api/internal/service"
)

type mockSeedService struct {
	err         error
	affected    int64
	lastToken   string
	lastFixture service.CourseFixture
}

func (m *mockSeedService) LoadCourse(_ context.Context, token string, fixture service.CourseFixture) (int64, error) {
	m.lastToken = token
	m.lastFixture = fixture
	if m.err != nil {
		return 0, m.err
	}
	return m.affected, nil
}

func newSeedApp(svc *mockSeedService) *fiber.App {
	app := fiber.New()
	handler.NewSeedHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/seed"))
	return app
}

func seedRequest(t *testing.T, token string, payload interface{}) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/seed/course", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Seed-Token", token)
	}
	return req
}

func TestSeedHandler_CourseSuccess(t *testing.T) {
	svc := &mockSeedService{affected: 9}
	app := newSeedApp(svc)

	fixture := service.CourseFixture{
		Course:   models.Course{ID: 1, Title: "Demo Course"},
		Modules:  []models.CourseModule{{ID: 11, Name: "Syllabus"}},
		Students: []models.Student{{ID: 1, Name: "Ani", Email: "ani@example.com"}},
	}

	resp, err := app.Test(seedRequest(t, "secret", fixture), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Affected int64 `json:"affected"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, int64(9), response.Data.Affected)
	require.Equal(t, "secret", svc.lastToken)
	require.Equal(t, uint(1), svc.lastFixture.Course.ID)
	require.Len(t, svc.lastFixture.Modules, 1)
}

func TestSeedHandler_MissingTokenReachesService(t *testing.T) {
	svc := &mockSeedService{err: service.ErrSeedUnauthorized}
	app := newSeedApp(svc)

	resp, err := app.Test(seedRequest(t, "", service.CourseFixture{Course: models.Course{ID: 1}}), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Empty(t, svc.lastToken)
}

func TestSeedHandler_CourseErrorMapping(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{name: "disabled", err: service.ErrSeedDisabled, wantStatus: fiber.StatusForbidden, wantMessage: "seeding disabled"},
		{name: "unauthorized", err: service.ErrSeedUnauthorized, wantStatus: fiber.StatusForbidden, wantMessage: "invalid token"},
		{name: "invalid fixture", err: service.ErrSeedInvalid, wantStatus: fiber.StatusBadRequest, wantMessage: "invalid fixture"},
		{name: "generic", err: errors.New("boom"), wantStatus: fiber.StatusInternalServerError, wantMessage: "seed operation failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockSeedService{err: tc.err}
			app := newSeedApp(svc)

			resp, err := app.Test(seedRequest(t, "secret", service.CourseFixture{Course: models.Course{ID: 1}}), -1)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
			require.Equal(t, tc.wantMessage, response.Message)
		})
	}
}

func TestSeedHandler_InvalidPayload(t *testing.T) {
	svc := &mockSeedService{}
	app := newSeedApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/seed/course", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, uint(0), svc.lastFixture.Course.ID)
}
