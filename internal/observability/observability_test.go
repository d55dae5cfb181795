package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/config"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/observability"
)

func TestNewLogger(t *testing.T) {
	logger, err := observability.NewLogger(config.LoggerConfig{Level: "DEBUG", Encoding: "console"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = observability.NewLogger(config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestMetricsSnapshot(t *testing.T) {
	m := observability.NewMetrics()
	m.RecordRequest("/api/todos", http.MethodGet, 200, 0)
	m.RecordRequest("/api/todos", http.MethodGet, 200, 0)
	m.RecordError("/api/todo", http.MethodPost, "VALIDATION_FAILED")
	m.RecordGateDecision("verified")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/todos|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/todo|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(1), snap.GateDecisions["verified"])

	snap.GateDecisions["verified"] = 99
	assert.Equal(t, int64(1), m.Snapshot().GateDecisions["verified"])

	var nilMetrics *observability.Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordGateDecision("verified")
		_ = nilMetrics.Snapshot()
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := observability.NewMetrics()

	app := fiber.New()
	app.Use(observability.RequestLogger(zap.New(core), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	generated := resp.Header.Get(observability.HeaderRequestID)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(observability.HeaderRequestID, "abc")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Header.Get(observability.HeaderRequestID))

	entries := logs.FilterMessage("request").AllUntimed()
	require.Len(t, entries, 2)
	fields := entries[1].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	assert.Equal(t, int64(2), metrics.Snapshot().Requests["/ping|GET|418"])
}

func TestRequestLoggerKeysByRoute(t *testing.T) {
	metrics := observability.NewMetrics()

	app := fiber.New()
	app.Use(observability.RequestLogger(zap.NewNop(), metrics))
	app.Get("/todos/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })

	for _, path := range []string{"/todos/1", "/todos/2", "/todos/3"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
	}

	requests := metrics.Snapshot().Requests
	assert.Equal(t, map[string]int64{"/todos/:id|GET|200": 3}, requests)
}
