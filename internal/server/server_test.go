package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-optimizer/internal/analysis"
	"github.com/jonathan/cv-optimizer/internal/captcha"
	"github.com/jonathan/cv-optimizer/internal/config"
	"github.com/jonathan/cv-optimizer/internal/pipeline"
	"github.com/jonathan/cv-optimizer/internal/render"
	"github.com/jonathan/cv-optimizer/internal/server/ratelimit"
)

const testCV = `Jane Doe
jane.doe@example.com

Profile:
Backend engineer focused on distributed systems and Go services.

Skills:
- Go
- PostgreSQL
- Docker

Experience:
Senior Engineer 2019 - present
Built payment processing services in Go.

Education:
BSc Computer Science, Tech University, 2018`

const testJob = `Senior Backend Engineer

Required: Go, Kubernetes, PostgreSQL
5 years experience required.
Responsibilities include designing distributed services.`

// newTestServer builds a server with local-only analysis, no store and
// rate limiting disabled, matching a bare development setup.
func newTestServer() *Server {
	s := &Server{
		captcha:     captcha.NewVerifier(nil),
		rateLimiter: ratelimit.NewLimiter(&ratelimit.Config{Enabled: false}),
	}
	s.orchestrator = analysis.NewOrchestrator(nil, pipeline.New(pipeline.Options{}), nil)
	return s
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth_ReportsBreakerState(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "closed", body["circuit_breaker"])
}

func TestHandleAnalyze_LocalAnalysis(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	rec := postJSON(t, handler, "/analyze", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local", resp.Source)
	require.NotNil(t, resp.Analysis)
	assert.Greater(t, resp.Analysis.Score, 0)
	assert.NotEmpty(t, resp.Analysis.Recommendations)
}

func TestHandleAnalyze_MissingFields(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	rec := postJSON(t, handler, "/analyze", map[string]string{"cv_text": testCV})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, handler, "/analyze", map[string]string{"job_description": testJob})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_InvalidJSON(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	req := httptest.NewRequest("POST", "/analyze", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAnalyze_CVReferenceWithoutStore(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	rec := postJSON(t, handler, "/analyze", map[string]string{
		"cv_id":           "7d7a2c68-71e1-4c8a-b36b-0a4f2dbd94d3",
		"job_description": testJob,
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleOptimize_LocalOptimization(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	rec := postJSON(t, handler, "/optimize", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp optimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "local", resp.Source)
	require.NotNil(t, resp.OptimizedCV)
	assert.Equal(t, "Jane Doe", resp.OptimizedCV.Name)
	require.NotNil(t, resp.Analysis)
}

func TestHandleOptimize_RendersDocumentWhenConfigured(t *testing.T) {
	renderer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/render", r.URL.Path)
		w.Write([]byte("%PDF-fake")) //nolint:errcheck
	}))
	defer renderer.Close()

	s := newTestServer()
	s.renderer = render.NewRenderer(render.DefaultOptions(renderer.URL))
	handler := s.routes()

	rec := postJSON(t, handler, "/optimize", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp optimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Document)
	decoded, err := base64.StdEncoding.DecodeString(resp.Document)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(decoded))
}

func TestHandleOptimize_NoRendererOmitsDocument(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	rec := postJSON(t, handler, "/optimize", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp optimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Document)
}

func TestHandleAnalyzeStream_EmitsResultAndComplete(t *testing.T) {
	s := newTestServer()
	handler := s.routes()

	rec := postJSON(t, handler, "/analyze/stream", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Contains(t, out, "event: result")
	assert.Contains(t, out, "event: complete")
	assert.Contains(t, out, `"source":"local"`)
}

func TestHandleAnalyze_CaptchaGate(t *testing.T) {
	verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("response") == "good-token" {
			fmt.Fprint(w, `{"success": true, "score": 0.9, "action": "analyze"}`)
			return
		}
		fmt.Fprint(w, `{"success": false, "error-codes": ["invalid-input-response"]}`)
	}))
	defer verify.Close()

	s := newTestServer()
	s.captcha = captcha.NewVerifier(&captcha.Options{Secret: "secret", VerifyURL: verify.URL})
	handler := s.routes()

	rec := postJSON(t, handler, "/analyze", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
		"captcha_token":   "good-token",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, handler, "/analyze", map[string]string{
		"cv_text":         testCV,
		"job_description": testJob,
		"captcha_token":   "bad-token",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_HistoryRequiresTokenWhenAuthEnabled(t *testing.T) {
	s := newTestServer()
	s.jwtService = NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	handler := s.routes()

	req := httptest.NewRequest("GET", "/analyses", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleToken_IssuesAndRejects(t *testing.T) {
	passwords := &config.PasswordConfig{BcryptCost: 10}
	hash, err := passwords.HashPassword("hunter2")
	require.NoError(t, err)

	s := newTestServer()
	s.jwtService = NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	s.authHandler = &AuthHandler{
		username:     "admin",
		passwordHash: hash,
		passwords:    passwords,
		jwtService:   s.jwtService,
	}
	handler := s.routes()

	rec := postJSON(t, handler, "/auth/token", map[string]string{
		"username": "admin",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)

	// The issued token opens the history endpoints.
	req := httptest.NewRequest("GET", "/analyses", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	authRec := httptest.NewRecorder()
	handler.ServeHTTP(authRec, req)
	// No store configured, so the authenticated request reaches the
	// handler and gets 503 instead of 401.
	assert.Equal(t, http.StatusServiceUnavailable, authRec.Code)

	rec = postJSON(t, handler, "/auth/token", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWithRateLimit_Returns429(t *testing.T) {
	s := newTestServer()
	s.rateLimiter = ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:   true,
		Whitelist: map[string]bool{},
		Blacklist: map[string]bool{},
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
	})
	handler := s.routes()

	body := map[string]string{"cv_text": testCV, "job_description": testJob}
	for i := 0; i < 2; i++ {
		rec := postJSON(t, handler, "/analyze", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := postJSON(t, handler, "/analyze", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "cv_text"}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&pipeline.ValidationError{Field: "cvText"}))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(&ErrInvalidCredentials{}))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(&captcha.Error{Message: "token rejected"}))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&ErrNotFound{Resource: "analysis", ID: "x"}))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(&ErrStorageUnavailable{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}
