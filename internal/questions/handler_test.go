package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intelliview-api/internal/llm"
	"intelliview-api/internal/shared/server/middleware"
	"intelliview-api/internal/users"
)

const twoQuestions = `{"questions":[` +
	`{"id":"q1","question":"Explain goroutines","difficulty":"easy","category":"technical","expectedKeywords":["scheduler"],"estimatedTime":3},` +
	`{"id":"q2","question":"Design a rate limiter","difficulty":"HARD","category":"system design","expectedKeywords":["token bucket"],"estimatedTime":10}]}`

func newHandlerRouter(h *Handler, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	authed := api.Group("")
	authed.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, userID, userID+"@example.com", role)
		c.Next()
	})
	h.RegisterRoutes(authed)
	return r
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func errorCodeOf(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestHandlerGenerateQuestions(t *testing.T) {
	gen := &fakeGenerator{response: twoQuestions}
	router := newHandlerRouter(NewHandler(newTestService(&fakeSearcher{}, gen), nil, false), "u-1", users.RoleStudent)

	resp := postJSON(t, router, "/api/v1/interview/generate-questions", map[string]any{
		"resumeId":          "r-1",
		"jobRole":           "Backend Developer",
		"company":           "Stripe",
		"numberOfQuestions": 2,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result.Questions, 2)
	assert.Equal(t, "EASY", result.Questions[0].Difficulty)
	assert.Equal(t, "SYSTEM_DESIGN", result.Questions[1].Category)
	assert.Equal(t, "r-1", result.Metadata.ResumeID)
	assert.Equal(t, "Stripe", result.Metadata.Company)
	assert.Equal(t, 2, result.Metadata.TotalQuestions)
}

func TestHandlerGenerateErrors(t *testing.T) {
	cases := []struct {
		name     string
		userID   string
		body     map[string]any
		genErr   error
		wantCode int
		wantErr  string
	}{
		{name: "missing role", userID: "u-1", body: map[string]any{"resumeId": "r-1"}, wantCode: http.StatusBadRequest, wantErr: "invalid_request"},
		{name: "too many", userID: "u-1", body: map[string]any{"resumeId": "r-1", "jobRole": "SRE", "numberOfQuestions": 31}, wantCode: http.StatusBadRequest, wantErr: "invalid_request"},
		{name: "foreign resume", userID: "u-2", body: map[string]any{"resumeId": "r-1", "jobRole": "SRE"}, wantCode: http.StatusNotFound, wantErr: "not_found"},
		{name: "provider missing", userID: "u-1", body: map[string]any{"resumeId": "r-1", "jobRole": "SRE"}, genErr: llm.ErrNotConfigured, wantCode: http.StatusServiceUnavailable, wantErr: "upstream_unavailable"},
		{name: "provider timeout", userID: "u-1", body: map[string]any{"resumeId": "r-1", "jobRole": "SRE"}, genErr: context.DeadlineExceeded, wantCode: http.StatusGatewayTimeout, wantErr: "timeout"},
		{name: "empty model output", userID: "u-1", body: map[string]any{"resumeId": "r-1", "jobRole": "SRE"}, genErr: llm.ErrEmptyResponse, wantCode: http.StatusInternalServerError, wantErr: "generation_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{response: twoQuestions, err: tc.genErr}
			router := newHandlerRouter(NewHandler(newTestService(&fakeSearcher{}, gen), nil, false), tc.userID, users.RoleStudent)

			resp := postJSON(t, router, "/api/v1/interview/generate-questions", tc.body)
			assert.Equal(t, tc.wantCode, resp.Code, resp.Body.String())
			assert.Equal(t, tc.wantErr, errorCodeOf(t, resp))
		})
	}
}

func TestHandlerSeedRequiresAdmin(t *testing.T) {
	calls := 0
	seed := func(context.Context) (int, error) {
		calls++
		return 32, nil
	}

	studentRouter := newHandlerRouter(NewHandler(newTestService(&fakeSearcher{}, &fakeGenerator{}), seed, false), "u-1", users.RoleStudent)
	resp := postJSON(t, studentRouter, "/api/v1/interview/seed-questions", map[string]any{})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Zero(t, calls)

	adminRouter := newHandlerRouter(NewHandler(newTestService(&fakeSearcher{}, &fakeGenerator{}), seed, false), "u-9", users.RoleAdmin)
	resp = postJSON(t, adminRouter, "/api/v1/interview/seed-questions", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"questionsIndexed":32}`, resp.Body.String())
	assert.Equal(t, 1, calls)
}

func TestHandlerSeedWithoutEmbedder(t *testing.T) {
	seed := func(context.Context) (int, error) {
		return 0, errors.Join(errors.New("embed batch"), llm.ErrNotConfigured)
	}
	router := newHandlerRouter(NewHandler(newTestService(&fakeSearcher{}, &fakeGenerator{}), seed, true), "u-1", users.RoleStudent)

	resp := postJSON(t, router, "/api/v1/interview/seed-questions", map[string]any{})
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "upstream_unavailable", errorCodeOf(t, resp))
}

func TestHandlerLookups(t *testing.T) {
	router := newHandlerRouter(NewHandler(newTestService(&fakeSearcher{}, &fakeGenerator{}), nil, false), "", "")

	for path, key := range map[string]string{
		"/api/v1/interview/job-roles": "jobRoles",
		"/api/v1/interview/companies": "companies",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, resp.Code)
		var payload map[string][]string
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
		assert.NotEmpty(t, payload[key], path)
	}
}
