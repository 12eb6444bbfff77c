// Package slack posts journey milestones to a Slack channel, one thread per
// session.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ServiceConfig holds the parameters needed to construct a Service.
type ServiceConfig struct {
	Token        string
	Channel      string
	DashboardURL string
}

// StageAdvancedInput contains data for a stage transition notification.
type StageAdvancedInput struct {
	SessionID     string
	UserName      string
	IndustryFocus string
	FromStage     string // stage tag, e.g. "validation"
	FromStageName string
	ToStage       string
	ToStageName   string
	Summary       string // output of the stage that just finished
}

// Service handles Slack notification delivery.
// Nil-safe: all methods are no-ops when service is nil.
type Service struct {
	client       *Client
	dashboardURL string
	logger       *slog.Logger

	mu      sync.Mutex
	threads map[string]string // sessionID → thread ts
}

// NewService creates a new Slack notification service.
// Returns nil if Token or Channel is empty.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Token == "" || cfg.Channel == "" {
		return nil
	}
	return NewServiceWithClient(NewClient(cfg.Token, cfg.Channel), cfg.DashboardURL)
}

// NewServiceWithClient creates a Service backed by a pre-built Client.
// Useful for testing with a mock API server.
func NewServiceWithClient(client *Client, dashboardURL string) *Service {
	return &Service{
		client:       client,
		dashboardURL: dashboardURL,
		logger:       slog.Default().With("component", "slack-service"),
		threads:      make(map[string]string),
	}
}

// NotifyStageAdvanced posts a stage transition into the session's thread,
// opening the thread on first use.
// Fail-open: errors are logged, never returned.
func (s *Service) NotifyStageAdvanced(ctx context.Context, input StageAdvancedInput) {
	if s == nil {
		return
	}
	log := s.logger.With("session_id", input.SessionID, "to_stage", input.ToStage)

	threadTS, err := s.thread(ctx, input)
	if err != nil {
		log.Warn("Failed to open Slack thread, posting to channel", "error", err)
	}

	fallback := fmt.Sprintf("%s → %s", input.FromStageName, input.ToStageName)
	if _, err := s.client.PostMessage(ctx, BuildAdvancedMessage(input, s.dashboardURL), fallback, threadTS, 10*time.Second); err != nil {
		log.Error("Failed to send Slack notification", "error", err)
	}

	if input.ToStage == "complete" {
		s.Forget(input.SessionID)
	}
}

// Forget drops the cached thread for a session.
func (s *Service) Forget(sessionID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.threads, sessionID)
	s.mu.Unlock()
}

func (s *Service) thread(ctx context.Context, input StageAdvancedInput) (string, error) {
	s.mu.Lock()
	ts, ok := s.threads[input.SessionID]
	s.mu.Unlock()
	if ok {
		return ts, nil
	}

	fallback := founderName(input.UserName) + " started a venture journey"
	ts, err := s.client.PostMessage(ctx, BuildStartedMessage(input), fallback, "", 5*time.Second)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.threads[input.SessionID] = ts
	s.mu.Unlock()
	return ts, nil
}
