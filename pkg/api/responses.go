package api

import (
	"github.com/ventureforge/ventureforge/pkg/database"
	"github.com/ventureforge/ventureforge/pkg/services"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthCheck is the status of one component.
type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status        string                    `json:"status"`
	Version       string                    `json:"version"`
	Checks        map[string]HealthCheck    `json:"checks"`
	Database      *database.HealthStatus    `json:"database,omitempty"`
	Configuration ConfigurationStats        `json:"configuration"`
	Warnings      []*services.SystemWarning `json:"warnings,omitempty"`
}

// ConfigurationStats contains counts of loaded configuration items.
type ConfigurationStats struct {
	Stages       int `json:"stages"`
	LLMProviders int `json:"llm_providers"`
}

// DeleteResponse is returned by DELETE /api/v1/sessions/:id.
type DeleteResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
