package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footballinvestment/lion-football-academy/internal/queue"
	"github.com/footballinvestment/lion-football-academy/pkg/config"
	"github.com/footballinvestment/lion-football-academy/pkg/database"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.APIConfig{
		Port:         8080,
		RateLimit:    100,
		DefaultWeeks: 4,
		MaxWeeks:     52,
	}
	deps := Deps{
		DB:    &database.DB{},
		Queue: queue.NewImmediateClient(queue.NewRegistry(), config.QueueConfig{}, nil),
	}

	return NewServer(cfg, config.WebSocketConfig{}, "production", deps)
}

func TestServerLiveness(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Shutdown(context.Background())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
}

func TestServerTraceIDEcho(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Shutdown(context.Background())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Trace-ID", "trace-abc")
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "trace-abc", w.Header().Get("X-Trace-ID"))
}

func TestServerShutdownIsIdempotent(t *testing.T) {
	srv := newTestServer(t)
	require.NotNil(t, srv.WebSocketHub())

	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, srv.Shutdown(context.Background()))
}
