package handlers

import (
	"net/http"

	"dormdesk/internal/jobs/background"
	"dormdesk/internal/middleware"
	"dormdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// JobScheduler is the part of the background scheduler exposed over HTTP
type JobScheduler interface {
	Jobs() []background.JobInfo
	RunNow(name string) error
}

type JobHandlers struct {
	scheduler      JobScheduler
	rbacMiddleware *middleware.RBACMiddleware
}

// NewJobHandlers creates the jobs handlers. scheduler is nil when scheduling is disabled.
func NewJobHandlers(scheduler JobScheduler, rbacMiddleware *middleware.RBACMiddleware) *JobHandlers {
	return &JobHandlers{
		scheduler:      scheduler,
		rbacMiddleware: rbacMiddleware,
	}
}

func (h *JobHandlers) RegisterRoutes(g *echo.Group) {
	read := h.rbacMiddleware.RequirePermission(services.PermJobsRead)
	g.GET("/jobs", h.ListJobs, read)
	g.POST("/jobs/:name/run", h.RunJob, h.rbacMiddleware.RequirePermission(services.PermOrganizationsManage))
}

// ListJobs lists the registered jobs with their next run
func (h *JobHandlers) ListJobs(c echo.Context) error {
	jobs := []background.JobInfo{}
	if h.scheduler != nil {
		jobs = h.scheduler.Jobs()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"enabled": h.scheduler != nil,
		"jobs":    jobs,
	})
}

// RunJob triggers a job outside its schedule. It runs asynchronously.
func (h *JobHandlers) RunJob(c echo.Context) error {
	if h.scheduler == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "scheduler is disabled")
	}
	if err := h.scheduler.RunNow(c.Param("name")); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"job": c.Param("name"), "status": "triggered"})
}
