// Package session carries the visitor's session through the request context
// and keeps advisory per-session hints.
package session

import "context"

// Session identifies the browser session and, once signed in, the user
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`
}

// Authenticated reports whether the session carries a user id
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession stores the session in the context
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the session stored by WithSession
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// UserID returns the signed-in user id or ""
func UserID(ctx context.Context) string {
	s, _ := FromContext(ctx)
	return s.UserID
}
