package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/billsync/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker func() error

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	checks    map[string]HealthChecker
}

// NewSystemHandler creates a new SystemHandler. Named health checks are
// probed on every /system/health call.
func NewSystemHandler(checks map[string]HealthChecker) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		checks:    checks,
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/info", h.GetSystemInfo)
		system.GET("/ping", h.Ping)
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health probes all registered dependency checks and reports overall status.
// A single failing dependency degrades the response to 503.
func (h *SystemHandler) Health(c *gin.Context) {
	status := "ok"
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(); err != nil {
			status = "degraded"
			results[name] = err.Error()
		} else {
			results[name] = "ok"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, dto.NewSuccessResponse(HealthResponse{Status: status, Checks: results}))
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo returns basic system information including version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "BillSync API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	h.Success(c, info)
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
