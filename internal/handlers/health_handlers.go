package handlers

import (
	"context"
	"net/http"
	"time"

	"dormdesk/internal/logger"
	"dormdesk/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency that can report whether it is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checks  map[string]Pinger
	version string
	started time.Time
}

// NewHealthHandlers creates the health handlers. checks maps a dependency name to its check function.
func NewHealthHandlers(checks map[string]Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		checks:  checks,
		version: version,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

func (h *HealthHandlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.LivenessCheck)
	e.GET("/health/ready", h.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// LivenessCheck reports that the process is serving requests
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status("alive", nil))
}

// ReadinessCheck pings every dependency concurrently and answers 503 when any is down
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	errs := make([]error, len(names))

	var wg conc.WaitGroup
	for i, name := range names {
		wg.Go(func() {
			errs[i] = h.checks[name].Ping(ctx)
		})
	}
	wg.Wait()

	services := make(map[string]string, len(names))
	ready := true
	for i, name := range names {
		if errs[i] != nil {
			ready = false
			services[name] = "unhealthy"
			logger.FromContext(ctx).Warn("readiness check failed", zap.String("service", name), zap.Error(errs[i]))
			continue
		}
		services[name] = "healthy"
	}

	if !ready {
		return c.JSON(http.StatusServiceUnavailable, h.status("not_ready", services))
	}
	return c.JSON(http.StatusOK, h.status("ready", services))
}

func (h *HealthHandlers) status(status string, services map[string]string) *HealthStatus {
	return &HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}
}
