// Package models holds the request and response shapes shared by the
// session service and the HTTP API.
package models

import (
	"time"

	"github.com/ventureforge/ventureforge/pkg/journey"
)

// CreateSessionRequest contains fields for starting a new journey.
type CreateSessionRequest struct {
	UserName      string `json:"user_name,omitempty"`
	IndustryFocus string `json:"industry_focus,omitempty"`
}

// SendMessageRequest carries one founder message.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// SessionResponse is the public view of a journey session.
type SessionResponse struct {
	ID            string            `json:"id"`
	Stage         string            `json:"stage"`
	StageName     string            `json:"stage_name"`
	Version       int64             `json:"version"`
	UserName      string            `json:"user_name"`
	IndustryFocus string            `json:"industry_focus,omitempty"`
	StartupIdea   string            `json:"startup_idea,omitempty"`
	Outputs       map[string]string `json:"outputs,omitempty"`
	History       []journey.Message `json:"conversation_history"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TurnResponse is the outcome of one founder message.
type TurnResponse struct {
	SessionID     string `json:"session_id"`
	Output        string `json:"output"`
	Stage         string `json:"stage"`
	PreviousStage string `json:"previous_stage"`
	Advanced      bool   `json:"advanced"`
	Version       int64  `json:"version"`
}

// SessionListResponse contains the most recently active sessions.
type SessionListResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Limit    int              `json:"limit"`
}

// SessionSummary is a compact listing entry.
type SessionSummary struct {
	ID        string    `json:"id"`
	Stage     string    `json:"stage"`
	UserName  string    `json:"user_name"`
	UpdatedAt time.Time `json:"updated_at"`
}
