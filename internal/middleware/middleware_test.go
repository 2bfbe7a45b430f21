package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	w.Write([]byte("ok"))
})

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	h := Logger(utils.NewLoggerTo(&buf, "info"))(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/api/v1/health"`)
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := Recovery(utils.NewNopLogger())(panicking)

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(0.001, 2)(okHandler)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusTeapot, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTeapot, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))
	assert.Equal(t, http.StatusTeapot, do("10.0.0.2:1000"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS()(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/generate", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	l.max = 2
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	now = now.Add(time.Second)
	assert.True(t, l.allow("b"))
	assert.Equal(t, 2, l.size())

	now = now.Add(limiterIdleTTL + time.Minute)
	assert.True(t, l.allow("c"))
	assert.Equal(t, 1, l.size())
}

func TestRateLimiterCapsClients(t *testing.T) {
	l := NewRateLimiter(1, 1)
	l.max = 2
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c", "d"} {
		now = now.Add(time.Second)
		l.allow(key)
		assert.LessOrEqual(t, l.size(), 2)
	}

	l.mu.Lock()
	_, hasOldest := l.clients["a"]
	_, hasNewest := l.clients["d"]
	l.mu.Unlock()
	assert.False(t, hasOldest)
	assert.True(t, hasNewest)
}

func TestLimitWithCustomRejection(t *testing.T) {
	rejected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("<p>slow down</p>"))
	})
	h := NewRateLimiter(0.001, 1).LimitWith(rejected)(okHandler)

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusTeapot, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "<p>slow down</p>", second.Body.String())
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}
