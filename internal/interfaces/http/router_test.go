package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SeaGuard-Intelligence/internal/interfaces/http/handlers"
)

func TestNewRouter_ProbesAndMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "seaguard"}, logging.NewNopLogger())
	require.NoError(t, err)

	r := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test", nil, logging.NewNopLogger()),
		Logger:        logging.NewNopLogger(),
		Metrics:       prometheus.NewAppMetrics(collector),
		Collector:     collector,
		Mode:          gin.TestMode,
	})

	for path, want := range map[string]int{
		"/healthz": http.StatusOK,
		"/readyz":  http.StatusOK,
		"/metrics": http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestNewRouter_ReadinessReportsFailure(t *testing.T) {
	checks := map[string]handlers.CheckFunc{
		"postgres": func(ctx context.Context) error { return nil },
		"redis": func(ctx context.Context) error {
			return assert.AnError
		},
	}
	r := NewRouter(RouterConfig{
		HealthHandler: handlers.NewHealthHandler("test", checks, logging.NewNopLogger()),
		Logger:        logging.NewNopLogger(),
		Mode:          gin.TestMode,
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis")
}

func TestNewRouter_UnknownRouteIs404(t *testing.T) {
	r := NewRouter(RouterConfig{Logger: logging.NewNopLogger(), Mode: gin.TestMode})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
