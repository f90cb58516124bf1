package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrintel/internal/ai"
	"hrintel/internal/assessment"
	"hrintel/internal/catalog"
	"hrintel/internal/config"
	"hrintel/internal/errors"
	"hrintel/internal/store"
	"hrintel/internal/types"
)

const testJD = "We are hiring a Python developer with SQL, Docker and AWS experience."

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "localhost",
			Port:           "0",
			MaxRequestSize: 1 << 20,
			TLS:            config.TLSConfig{Mode: "disabled"},
		},
	}
}

type fakeModel struct{ available bool }

func (f fakeModel) GetModelInfo(context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake", Available: f.available}
}

func (f fakeModel) Stats() map[string]any { return map[string]any{"overall_healthy": f.available} }

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *store.Store) {
	t.Helper()

	holder, err := catalog.NewHolder(catalog.Default(), "builtin")
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "hrintel.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	logger := errors.NewNopLogger()
	svc := assessment.NewService(assessment.NewAssessor(holder), nil, st, logger)

	s := NewServer(cfg, "test", Deps{Service: svc, Store: st, Holder: holder}, logger)
	t.Cleanup(func() {
		if s.RateLimiter != nil {
			s.RateLimiter.Close()
		}
	})
	return s, st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAssessEndpoint(t *testing.T) {
	s, st := newTestServer(t, testConfig())
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/assess", map[string]any{
		"jobDescription":  testJD,
		"candidateName":   "Ada",
		"level":           "senior",
		"technicalWeight": 80,
		"save":            true,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result types.AssessmentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, types.LevelSenior, result.Level)
	assert.Equal(t, []string{"AWS", "Docker", "Python", "SQL"}, result.Skills)
	assert.Equal(t, "Backend Engineer", result.Role)
	assert.GreaterOrEqual(t, len(result.Questions), 10)
	assert.Equal(t, types.FocusTechnicalHeavy, result.Summary.Focus)

	stored, err := st.GetAssessment(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.CandidateName)

	rec = doJSON(t, h, http.MethodGet, "/history/"+result.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/history?limit=5", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history types.AssessmentHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestAssessValidation(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing job description", body: map[string]any{"level": "mid"}},
		{name: "invalid level", body: map[string]any{"jobDescription": testJD, "level": "principal"}},
		{name: "weight above range", body: map[string]any{"jobDescription": testJD, "technicalWeight": 120}},
		{name: "negative weight", body: map[string]any{"jobDescription": testJD, "technicalWeight": -1}},
		{name: "negative question count", body: map[string]any{"jobDescription": testJD, "minQuestions": -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/assess", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAssessRequiresJSON(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/assess", bytes.NewBufferString("jobDescription=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := doJSON(t, s.Handler(), http.MethodPost, "/extract", ExtractRequest{JobDescription: "Frontend role using React"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.ExtractResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"React"}, got.Skills)
	assert.Equal(t, "Frontend Engineer", got.Role)
}

func TestHistoryNotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	rec := doJSON(t, s.Handler(), http.MethodGet, "/history/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResultsEndpoints(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	h := s.Handler()

	for _, r := range []ScoreRequest{
		{CandidateName: "Low", CandidateScores: types.CandidateScores{Technical: 5, ProblemSolving: 5, SystemDesign: 5, Communication: 5}},
		{CandidateName: "High", CandidateScores: types.CandidateScores{Technical: 10, ProblemSolving: 10, SystemDesign: 10, Communication: 10}},
	} {
		rec := doJSON(t, h, http.MethodPost, "/results", r, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := doJSON(t, h, http.MethodPost, "/results", map[string]any{"candidateName": "Bad", "technical": 11}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/results/top?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var top types.ResultList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.Len(t, top, 1)
	assert.Equal(t, "High", top[0].CandidateName)
	assert.InDelta(t, 100.0, top[0].TotalScore, 0.001)

	rec = doJSON(t, h, http.MethodGet, "/results/top?limit=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/results", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())
}

func TestCatalogEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	rec := doJSON(t, s.Handler(), http.MethodGet, "/catalog", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "builtin", got["source"])
	assert.Contains(t, got["skills"], "Python")
	questions, ok := got["questions"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, questions["behavioral"], "How do you handle tight deadlines?")
	assert.Len(t, questions["tasks"], 3)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"secret-key-123456"}
	s, _ := newTestServer(t, cfg)
	h := s.Handler()
	body := ExtractRequest{JobDescription: testJD}

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "missing key", want: http.StatusUnauthorized},
		{name: "invalid key", headers: map[string]string{"X-API-Key": "nope"}, want: http.StatusUnauthorized},
		{name: "header key", headers: map[string]string{"X-API-Key": "secret-key-123456"}, want: http.StatusOK},
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer secret-key-123456"}, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/extract", body, tt.headers)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	// health stays public
	rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.SetAPIKeys([]string{"rotated-key-654321"})
	rec = doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "secret-key-123456"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "rotated-key-654321"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 2, ByIP: true}
	s, _ := newTestServer(t, cfg)
	h := s.Handler()
	body := ExtractRequest{JobDescription: testJD}

	for range 2 {
		rec := doJSON(t, h, http.MethodPost, "/extract", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := doJSON(t, h, http.MethodPost, "/extract", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// another client has its own bucket
	rec = doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-Forwarded-For": "203.0.113.9"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitIgnoresUnknownAPIKeys(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"secret-key-123456"}
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 2, ByAPIKey: true, ByIP: true}
	s, _ := newTestServer(t, cfg)
	h := s.Handler()
	body := ExtractRequest{JobDescription: testJD}

	for i := range 2 {
		rec := doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": fmt.Sprintf("bogus-%d", i)})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "bogus-2"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, s.RateLimiter.GetStats()["active_limiters"])

	// a valid key has its own bucket
	rec = doJSON(t, h, http.MethodPost, "/extract", body, map[string]string{"X-API-Key": "secret-key-123456"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestSizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxRequestSize = 64
	s, _ := newTestServer(t, cfg)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/extract", ExtractRequest{JobDescription: string(bytes.Repeat([]byte("a"), 200))}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large")
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])

	s.ai = fakeModel{available: false}
	rec = doJSON(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestStatsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 10, ByIP: true}
	s, _ := newTestServer(t, cfg)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(10), got["rate_limiting"].(map[string]any)["burst_capacity"])
}

func TestStartAndShutdown(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
