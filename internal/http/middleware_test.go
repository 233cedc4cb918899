package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverWritesEnvelope(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Internal server error", env.Error)
}

func TestWriteJSONUnencodableValue(t *testing.T) {
	w := httptest.NewRecorder()
	writeSuccess(w, map[string]float64{"total": math.Inf(1)}, "")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Failed to encode response", env.Error)
}

func TestRequestLoggerCarriesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	h := CorrelationID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderCorrelationID, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, done map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &done))
	assert.Equal(t, "abc", inner["correlation_id"])
	assert.Equal(t, "request completed", done["message"])
	assert.EqualValues(t, http.StatusTeapot, done["status"])
}

func TestOriginAllowed(t *testing.T) {
	allow := []string{"http://localhost:3000", "https://shop.example.com"}
	assert.True(t, originAllowed("https://shop.example.com", allow))
	assert.False(t, originAllowed("https://other.example.com", allow))
	assert.False(t, originAllowed("", allow))
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthChecks(t *testing.T) {
	h := NewHealthHandler(ServiceInfo{Environment: "test", Storage: "postgres"}, time.Now(),
		Check{Name: "postgres", Probe: func(context.Context) error { return nil }},
		Check{Name: "redis", Probe: func(context.Context) error { return errors.New("connection refused") }},
	)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string        `json:"status"`
		Checks []CheckResult `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DEGRADED", body.Status)
	assert.Equal(t, []CheckResult{
		{Name: "postgres", OK: true},
		{Name: "redis", OK: false, Error: "connection refused"},
	}, body.Checks)
}

func TestHealthChecksAllPass(t *testing.T) {
	h := NewHealthHandler(ServiceInfo{}, time.Now(),
		Check{Name: "mongo", Probe: func(context.Context) error { return nil }},
	)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
}
