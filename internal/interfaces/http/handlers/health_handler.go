package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

// CheckFunc probes one dependency. It must respect the context deadline.
type CheckFunc func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes. Liveness reports the
// process alone; readiness runs the registered dependency checks.
type HealthHandler struct {
	version      string
	checks       map[string]CheckFunc
	checkTimeout time.Duration
	logger       logging.Logger
}

func NewHealthHandler(version string, checks map[string]CheckFunc, logger logging.Logger) *HealthHandler {
	return &HealthHandler{
		version:      version,
		checks:       checks,
		checkTimeout: 2 * time.Second,
		logger:       logger,
	}
}

// HealthResponse is the body of both probe endpoints.
type HealthResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Version    string                   `json:"version,omitempty"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Liveness reports that the process is running.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: common.HealthUp, Version: h.version})
}

// Readiness probes every registered dependency and returns 503 when any
// of them is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	resp := HealthResponse{Status: common.HealthUp, Version: h.version}
	status := http.StatusOK

	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.checkTimeout)
		start := time.Now()
		err := check(ctx)
		cancel()

		component := common.ComponentHealth{
			Name:    name,
			Status:  common.HealthUp,
			Latency: time.Since(start),
		}
		if err != nil {
			component.Status = common.HealthDown
			component.Message = err.Error()
			resp.Status = common.HealthDown
			status = http.StatusServiceUnavailable
			h.logger.Warn("Readiness check failed",
				logging.String("component", name), logging.Err(err))
		}
		resp.Components = append(resp.Components, component)
	}

	c.JSON(status, resp)
}
