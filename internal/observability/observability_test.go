package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/campus-issues/internal/config"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/issues", http.MethodGet, 200, time.Millisecond)
		m.RecordError("/issues", http.MethodGet, "NOT_FOUND")
		m.RecordOperation("submit", "ok")
	})
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation("submit", "ok")
	m.RecordOperation("submit", "ok")
	m.RecordOperation("delete", "forbidden")
	m.RecordError("/issues/:id", http.MethodDelete, "FORBIDDEN")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("submit", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("delete", "forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/issues/:id", http.MethodDelete, "FORBIDDEN")))
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/issues/:id", func(c *fiber.Ctx) error {
		return c.Status(http.StatusTeapot).SendString(c.Params("id"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/issues/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/issues/:id", http.MethodGet, "418")))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.RecordOperation("update", "not_found")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `campus_issues_issue_operations_total{operation="update",outcome="not_found"} 1`)
}

func TestNewLoggerFallsBackOnBadLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"}, config.AppConfig{Name: "campus-issues", Env: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
