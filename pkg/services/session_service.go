// Package services implements the host side of the journey: session
// lifecycle, message turns and offline market reports.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ventureforge/ventureforge/pkg/journey"
	"github.com/ventureforge/ventureforge/pkg/models"
	"github.com/ventureforge/ventureforge/pkg/orchestrator"
	"github.com/ventureforge/ventureforge/pkg/slack"
	"github.com/ventureforge/ventureforge/pkg/store"
)

// Listing and input limits.
const (
	DefaultListLimit        = 20
	MaxListLimit            = 100
	DefaultMaxMessageLength = 10000
	MaxUserNameLength       = 200
)

// saveTimeout bounds the write that follows a (possibly long) stage turn.
const saveTimeout = 10 * time.Second

// StageRunner runs one journey turn. Implemented by orchestrator.Executor.
type StageRunner interface {
	RunStage(ctx context.Context, stage journey.Stage, sc *journey.StageContext) *orchestrator.Result
}

// MessageMasker redacts secrets in founder messages. Implemented by
// masking.Service.
type MessageMasker interface {
	MaskMessage(text string) string
}

// JourneySession is a loaded session with its context rehydrated.
type JourneySession struct {
	ID        string
	Stage     journey.Stage
	Context   *journey.StageContext
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Response converts the session to its public shape.
func (s *JourneySession) Response() models.SessionResponse {
	outputs := map[string]string{}
	for _, out := range s.Context.CompletedOutputs(journey.StageComplete) {
		outputs[out.Stage.Tag()] = out.Text
	}
	history := s.Context.History
	if history == nil {
		history = []journey.Message{}
	}
	return models.SessionResponse{
		ID:            s.ID,
		Stage:         s.Stage.Tag(),
		StageName:     s.Stage.String(),
		Version:       s.Version,
		UserName:      s.Context.UserName,
		IndustryFocus: s.Context.IndustryFocus,
		StartupIdea:   s.Context.StartupIdea,
		Outputs:       outputs,
		History:       history,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// TurnResult is the outcome of SendMessage.
type TurnResult struct {
	Session       *JourneySession
	Output        string
	PreviousStage journey.Stage
	Advanced      bool
	// Failed is set when the stage collaborator failed; the session was
	// left untouched and Output asks the founder to retry.
	Failed bool
}

// Response converts the turn to its public shape.
func (r *TurnResult) Response() models.TurnResponse {
	return models.TurnResponse{
		SessionID:     r.Session.ID,
		Output:        r.Output,
		Stage:         r.Session.Stage.Tag(),
		PreviousStage: r.PreviousStage.Tag(),
		Advanced:      r.Advanced,
		Version:       r.Session.Version,
	}
}

// SessionService manages journey session lifecycle.
type SessionService struct {
	store            *store.SessionStore
	runner           StageRunner
	warnings         *SystemWarningsService
	masker           MessageMasker
	notifier         *slack.Service
	maxMessageLength int
}

// NewSessionService creates a new SessionService. warnings may be nil.
func NewSessionService(st *store.SessionStore, runner StageRunner, maxMessageLength int, warnings *SystemWarningsService) *SessionService {
	if maxMessageLength <= 0 {
		maxMessageLength = DefaultMaxMessageLength
	}
	return &SessionService{
		store:            st,
		runner:           runner,
		warnings:         warnings,
		maxMessageLength: maxMessageLength,
	}
}

// SetMasker installs the redaction applied to every founder message
// before it reaches a collaborator or the store.
func (s *SessionService) SetMasker(m MessageMasker) {
	s.masker = m
}

// SetNotifier installs the Slack milestone notifier. A nil notifier is a no-op.
func (s *SessionService) SetNotifier(n *slack.Service) {
	s.notifier = n
}

// CreateSession starts a new journey at Onboarding.
func (s *SessionService) CreateSession(ctx context.Context, req models.CreateSessionRequest) (*JourneySession, error) {
	name := strings.TrimSpace(req.UserName)
	if len(name) > MaxUserNameLength {
		return nil, NewValidationError("user_name", fmt.Sprintf("must be at most %d characters", MaxUserNameLength))
	}

	sc := journey.New()
	if name != "" {
		sc.UserName = name
	}
	sc.IndustryFocus = strings.TrimSpace(req.IndustryFocus)

	rec, err := s.store.Create(ctx, uuid.New().String(), journey.StageOnboarding.Tag(), sc.ToText())
	if err != nil {
		return nil, mapStoreError(err)
	}
	slog.Info("Journey session created", "session_id", rec.ID)
	return toJourneySession(rec), nil
}

// GetSession loads a session by ID.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*JourneySession, error) {
	if sessionID == "" {
		return nil, NewValidationError("session_id", "required")
	}
	rec, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return toJourneySession(rec), nil
}

// SendMessage runs one turn of the journey: load, run the current stage,
// save the new context with an optimistic version check.
func (s *SessionService) SendMessage(ctx context.Context, sessionID, message string) (*TurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, NewValidationError("message", "required")
	}
	if len(message) > s.maxMessageLength {
		return nil, NewValidationError("message", fmt.Sprintf("must be at most %d characters", s.maxMessageLength))
	}

	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	log := slog.With("session_id", sess.ID, "stage", sess.Stage.Tag())

	if s.masker != nil {
		message = s.masker.MaskMessage(message)
	}

	sc := sess.Context.Clone()
	sc.UserMessage = message
	result := s.runner.RunStage(orchestrator.WithSessionID(ctx, sess.ID), sess.Stage, sc)

	if result.Failed() {
		log.Warn("Stage turn failed", "error", result.Err)
		if s.warnings != nil {
			s.warnings.AddWarning(WarningCategoryStageFailure, "Stage turn failed", result.Err.Error(), sess.Stage.Tag())
		}
		return &TurnResult{
			Session:       sess,
			Output:        result.Output,
			PreviousStage: sess.Stage,
			Failed:        true,
		}, nil
	}
	if s.warnings != nil {
		s.warnings.ClearBySource(WarningCategoryStageFailure, sess.Stage.Tag())
	}

	next := result.Context
	next.UserMessage = ""

	// The turn may have taken minutes; persist it even if the caller left.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	rec, err := s.store.Update(saveCtx, sess.ID, result.NextStage.Tag(), next.ToText(), sess.Version)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if result.Advanced {
		log.Info("Journey advanced", "next_stage", result.NextStage.Tag(), "confidence", result.Decision.Confidence)
		s.notifyAdvanced(ctx, sess, result.NextStage, next)
	}

	return &TurnResult{
		Session:       toJourneySession(rec),
		Output:        result.Output,
		PreviousStage: sess.Stage,
		Advanced:      result.Advanced,
	}, nil
}

// RestartSession resets a session to a fresh context at Onboarding.
func (s *SessionService) RestartSession(ctx context.Context, sessionID string) (*JourneySession, error) {
	sess, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Update(ctx, sess.ID, journey.StageOnboarding.Tag(), journey.New().ToText(), sess.Version)
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.notifier.Forget(sess.ID)
	slog.Info("Journey session restarted", "session_id", sess.ID, "from_stage", sess.Stage.Tag())
	return toJourneySession(rec), nil
}

// DeleteSession removes a session.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return NewValidationError("session_id", "required")
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return mapStoreError(err)
	}
	s.notifier.Forget(sessionID)
	slog.Info("Journey session deleted", "session_id", sessionID)
	return nil
}

// ListSessions returns the most recently active sessions.
func (s *SessionService) ListSessions(ctx context.Context, limit int) (*models.SessionListResponse, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	recs, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := &models.SessionListResponse{
		Sessions: make([]models.SessionSummary, 0, len(recs)),
		Limit:    limit,
	}
	for _, rec := range recs {
		sess := toJourneySession(rec)
		resp.Sessions = append(resp.Sessions, models.SessionSummary{
			ID:        sess.ID,
			Stage:     sess.Stage.Tag(),
			UserName:  sess.Context.UserName,
			UpdatedAt: sess.UpdatedAt,
		})
	}
	return resp, nil
}

// DeleteIdleSessions removes sessions with no activity in the last
// retentionDays days and returns how many were deleted.
func (s *SessionService) DeleteIdleSessions(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays < 1 {
		return 0, NewValidationError("retention_days", "must be at least 1")
	}
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	ids, err := s.store.DeleteIdleSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.notifier.Forget(id)
	}
	return len(ids), nil
}

func (s *SessionService) notifyAdvanced(ctx context.Context, sess *JourneySession, to journey.Stage, sc *journey.StageContext) {
	if s.notifier == nil {
		return
	}
	input := slack.StageAdvancedInput{
		SessionID:     sess.ID,
		UserName:      sc.UserName,
		IndustryFocus: sc.IndustryFocus,
		FromStage:     sess.Stage.Tag(),
		FromStageName: sess.Stage.String(),
		ToStage:       to.Tag(),
		ToStageName:   to.String(),
		Summary:       sc.StageOutput(sess.Stage),
	}
	go s.notifier.NotifyStageAdvanced(context.WithoutCancel(ctx), input)
}

func toJourneySession(rec *store.Session) *JourneySession {
	stage, err := journey.ParseStage(rec.Stage)
	if err != nil {
		slog.Warn("Stored session has unknown stage, treating as onboarding",
			"session_id", rec.ID, "stage", rec.Stage)
		stage = journey.StageOnboarding
	}
	return &JourneySession{
		ID:        rec.ID,
		Stage:     stage,
		Context:   journey.FromText(rec.Context),
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrConcurrentModification):
		return fmt.Errorf("%w: %w", ErrConcurrentModification, err)
	case errors.Is(err, store.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	default:
		return err
	}
}
