package rest

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fortuna/gridiron/internal/jobs"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSeasonParamDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	assert.Equal(t, defaultSeason, seasonParam(r))

	r = httptest.NewRequest(http.MethodGet, "/api/v1/schedule?season=2023", nil)
	assert.Equal(t, 2023, seasonParam(r))

	// Pre-coverage seasons fall back to the default.
	r = httptest.NewRequest(http.MethodGet, "/api/v1/schedule?season=1990", nil)
	assert.Equal(t, defaultSeason, seasonParam(r))
}

func TestWeekVarValidation(t *testing.T) {
	cases := []struct {
		week string
		ok   bool
	}{
		{"1", true},
		{"18", true},
		{"22", true},
		{"0", false},
		{"23", false},
		{"abc", false},
	}

	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/weeks/"+tc.week+"/scores", nil)
		r = mux.SetURLVars(r, map[string]string{"week": tc.week})
		w := httptest.NewRecorder()

		_, ok := weekVar(w, r)
		assert.Equal(t, tc.ok, ok, "week %q", tc.week)
		if !tc.ok {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestRespondErrorShape(t *testing.T) {
	w := httptest.NewRecorder()
	respondError(w, http.StatusNotFound, "Job not found", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Job not found", body["error"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
}

func TestRecoveryMiddlewareConvertsPanics(t *testing.T) {
	handler := RecoveryMiddleware(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	called := false
	handler := CORSMiddleware(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/schedule", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called, "preflight must short-circuit")
}

func TestCORSMiddlewareRestrictsToConfiguredOrigins(t *testing.T) {
	handler := CORSMiddleware([]string{"http://localhost:5173"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJobPayloadOmitsInvalidFields(t *testing.T) {
	job := &jobs.Job{
		JobID:   "4f2c9d6e",
		JobType: jobs.JobTypePlays,
		Season:  2025,
		Status:  jobs.JobStatusQueued,
	}

	payload := jobPayload(job)
	assert.Equal(t, "4f2c9d6e", payload["job_id"])
	assert.NotContains(t, payload, "last_error")
	assert.NotContains(t, payload, "started_at")
	assert.NotContains(t, payload, "weeks")

	job.LastError = sql.NullString{String: "stage plays: timeout", Valid: true}
	job.StartedAt = sql.NullTime{Time: time.Now(), Valid: true}
	payload = jobPayload(job)
	assert.Equal(t, "stage plays: timeout", payload["last_error"])
	assert.Contains(t, payload, "started_at")
}

func TestBuildStatusPayloadIdle(t *testing.T) {
	payload := buildStatusPayload(&jobs.StatusSummary{})
	assert.Equal(t, "idle", payload["status"])
	assert.Equal(t, "No active jobs", payload["message"])
}

func TestBuildStatusPayloadActive(t *testing.T) {
	summary := &jobs.StatusSummary{
		ActiveJob: &jobs.Job{
			JobID:         "a1",
			JobType:       jobs.JobTypeFull,
			Status:        jobs.JobStatusRunning,
			StatusMessage: sql.NullString{String: "Running splits (4/6)", Valid: true},
		},
		History: []*jobs.Job{
			{JobID: "b2", Status: jobs.JobStatusCompleted},
		},
	}

	payload := buildStatusPayload(summary)
	assert.Equal(t, jobs.JobStatusRunning, payload["status"])
	assert.Equal(t, "Running splits (4/6)", payload["message"])
	require.Len(t, payload["history"], 1)
}
