package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ventureforge/ventureforge/pkg/version"
)

const (
	healthStatusHealthy   = "healthy"
	healthStatusDegraded  = "degraded"
	healthStatusUnhealthy = "unhealthy"
)

// healthHandler handles GET /health.
// Only our own components are checked. LLM providers are excluded so an
// outage there does not get the process restarted.
func (s *Server) healthHandler(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]HealthCheck)
	status := healthStatusHealthy

	dbHealth, err := s.dbClient.Health(reqCtx)
	if err != nil {
		status = healthStatusUnhealthy
		checks["database"] = HealthCheck{Status: healthStatusUnhealthy, Message: err.Error()}
	} else {
		checks["database"] = HealthCheck{Status: healthStatusHealthy}
	}

	resp := &HealthResponse{
		Version:  version.GitCommit,
		Checks:   checks,
		Database: dbHealth,
	}
	if s.cfg != nil {
		stats := s.cfg.Stats()
		resp.Configuration = ConfigurationStats{Stages: stats.Stages, LLMProviders: stats.LLMProviders}
	}
	if s.warningsService != nil {
		resp.Warnings = s.warningsService.GetWarnings()
		if len(resp.Warnings) > 0 && status == healthStatusHealthy {
			status = healthStatusDegraded
		}
	}
	resp.Status = status

	httpStatus := http.StatusOK
	if status == healthStatusUnhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, resp)
}
