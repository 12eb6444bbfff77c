package orchestrator

import "context"

type sessionIDKey struct{}

// WithSessionID tags ctx with the session being served, for logging and
// for collaborators that correlate calls per session.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFrom returns the session ID set by WithSessionID, or "".
func SessionIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
