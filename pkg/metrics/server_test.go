package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run before InitRegistry is ever called in this package, so
// metrics are disabled.

func TestHandler_Disabled(t *testing.T) {
	require.False(t, IsEnabled())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "disabled")
}

func TestHandler_Index(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "/metrics"))

	rec = httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServer_DefaultPort(t *testing.T) {
	s := NewServer(ServerConfig{})
	assert.Equal(t, 9090, s.Port())
}

func TestServer_StopIdempotent(t *testing.T) {
	s := NewServer(ServerConfig{Port: 1})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, s.Stop(ctx))
	assert.NoError(t, s.Stop(ctx))
}

func TestNoopMetrics(t *testing.T) {
	h := NewNoopHTTPMetrics()
	h.RecordRequestStart("GET")
	h.RecordRequest("/files", "GET", 200, time.Millisecond)
	h.RecordRequestEnd("GET")
	h.RecordBodyBytes("in", 10)
	h.RecordRateLimited()

	s := NewNoopStoreMetrics()
	s.RecordOperation("Read", time.Millisecond, nil)
	s.RecordBytes("Read", 10)
	s.SetFileCount(3)
}
