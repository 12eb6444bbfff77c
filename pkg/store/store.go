// Package store persists journey sessions: the current stage tag and the
// serialized StageContext, guarded by an optimistic version counter.
package store

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ventureforge/ventureforge/pkg/database"
)

const tableSessions = "sessions"

// Column names of the sessions table.
const (
	ColumnID        = "id"
	ColumnStage     = "stage"
	ColumnContext   = "context"
	ColumnVersion   = "version"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

var sessionColumns = []string{ColumnID, ColumnStage, ColumnContext, ColumnVersion, ColumnCreatedAt, ColumnUpdatedAt}

var (
	// ErrNotFound is returned when no session has the requested ID.
	ErrNotFound = errors.New("session not found")
	// ErrConcurrentModification is returned when an update lost a race:
	// the stored version no longer matches the expected one.
	ErrConcurrentModification = errors.New("session was modified concurrently")
	// ErrAlreadyExists is returned when creating a session with a taken ID.
	ErrAlreadyExists = errors.New("session already exists")
)

// Session is one persisted journey session.
type Session struct {
	ID        string
	Stage     string
	Context   string
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionStore reads and writes sessions with dialect-aware queries.
type SessionStore struct {
	db      *stdsql.DB
	dialect string
	now     func() time.Time
}

// NewSessionStore creates a store over an open, migrated database client.
func NewSessionStore(client *database.Client) *SessionStore {
	return &SessionStore{
		db:      client.DB(),
		dialect: client.Dialect(),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *SessionStore) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// Create inserts a new session at version 1 and returns it.
func (s *SessionStore) Create(ctx context.Context, id, stage, stageContext string) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        id,
		Stage:     stage,
		Context:   stageContext,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query, args := s.builder().Insert(tableSessions).
		Columns(sessionColumns...).
		Values(sess.ID, sess.Stage, sess.Context, sess.Version, sess.CreatedAt, sess.UpdatedAt).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if _, getErr := s.Get(ctx, id); getErr == nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, id)
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Get loads a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	query, args := s.builder().Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ(ColumnID, id)).
		Query()

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Update stores a new stage and context if the session is still at
// expectedVersion, and returns the session at its new version.
func (s *SessionStore) Update(ctx context.Context, id, stage, stageContext string, expectedVersion int64) (*Session, error) {
	now := s.now()
	query, args := s.builder().Update(tableSessions).
		Set(ColumnStage, stage).
		Set(ColumnContext, stageContext).
		Set(ColumnVersion, expectedVersion+1).
		Set(ColumnUpdatedAt, now).
		Where(entsql.And(
			entsql.EQ(ColumnID, id),
			entsql.EQ(ColumnVersion, expectedVersion),
		)).
		Query()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		// Distinguish a missing row from a lost race.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s (expected version %d)", ErrConcurrentModification, id, expectedVersion)
	}
	return s.Get(ctx, id)
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	query, args := s.builder().Delete(tableSessions).
		Where(entsql.EQ(ColumnID, id)).
		Query()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// DeleteIdleSince removes sessions last updated before cutoff and returns
// the IDs of the deleted sessions. Both dialects support DELETE ... RETURNING.
func (s *SessionStore) DeleteIdleSince(ctx context.Context, cutoff time.Time) ([]string, error) {
	query, args := s.builder().Delete(tableSessions).
		Where(entsql.LT(ColumnUpdatedAt, cutoff.UTC())).
		Query()
	query += ` RETURNING "` + ColumnID + `"`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan deleted session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	return ids, nil
}

// List returns up to limit sessions, most recently updated first.
func (s *SessionStore) List(ctx context.Context, limit int) ([]*Session, error) {
	query, args := s.builder().Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		OrderBy(entsql.Desc(ColumnUpdatedAt), ColumnID).
		Limit(limit).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*Session, 0, limit)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	if err := row.Scan(&sess.ID, &sess.Stage, &sess.Context, &sess.Version, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return nil, err
	}
	sess.CreatedAt = sess.CreatedAt.UTC()
	sess.UpdatedAt = sess.UpdatedAt.UTC()
	return &sess, nil
}
