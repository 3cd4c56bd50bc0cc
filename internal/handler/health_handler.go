package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
	"github.com/Keerthana22gh/pg-management-system/pkg/response"
)

// HealthChecker reports whether one dependency is usable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	checks  map[string]HealthChecker
	timeout time.Duration
	log     *logger.Logger
}

// NewHealthHandler creates a HealthHandler probing checks on /ready
func NewHealthHandler(checks map[string]HealthChecker, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &HealthHandler{checks: checks, timeout: 2 * time.Second, log: log}
}

// Health reports that the process is up
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ok"}))
}

// Ready probes every dependency
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := make(map[string]string, len(h.checks))
	ready := true
	for name, check := range h.checks {
		if err := check.HealthCheck(ctx); err != nil {
			h.log.WarnContext(ctx, "readiness check failed", zap.String("dependency", name), zap.Error(err))
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "up"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, response.ErrorWithDetails(
			response.ErrCodeServiceUnavailable, "Dependencies unavailable", status,
		))
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"status": "ready", "checks": status}))
}
