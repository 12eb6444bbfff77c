// Package cleanup provides data retention and cleanup services.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/ventureforge/ventureforge/pkg/config"
)

// SessionDeleter removes sessions idle for longer than the retention period.
// Implemented by services.SessionService.
type SessionDeleter interface {
	DeleteIdleSessions(ctx context.Context, retentionDays int) (int, error)
}

// Service periodically deletes journey sessions that have been idle longer
// than the configured retention. Deletion is idempotent, so running it from
// several processes is safe.
type Service struct {
	config   *config.RetentionConfig
	sessions SessionDeleter

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(cfg *config.RetentionConfig, sessions SessionDeleter) *Service {
	return &Service{
		config:   cfg,
		sessions: sessions,
	}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"session_retention_days", s.config.SessionRetentionDays,
		"interval", s.config.CleanupInterval)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.deleteIdleSessions(ctx)

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.deleteIdleSessions(ctx)
		}
	}
}

func (s *Service) deleteIdleSessions(ctx context.Context) {
	count, err := s.sessions.DeleteIdleSessions(ctx, s.config.SessionRetentionDays)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Retention: deleting idle sessions failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: deleted idle sessions", "count", count)
	}
}
