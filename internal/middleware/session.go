package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/session"
)

// Session reads the session and user headers into the request context.
// A missing session id is replaced by a fresh one echoed back in the response.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if sessionID == "" {
			sessionID = uuid.NewString()
			logger.FromContext(r.Context()).Debug(LogMsgSessionIssued, "session_id", sessionID)
		}
		w.Header().Set(HeaderSessionID, sessionID)

		s := session.Session{
			ID:     sessionID,
			UserID: extractUserID(r),
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

// RequireUser rejects requests whose session carries no user id
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.UserID(r.Context()) == EmptyUserID {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(ErrMsgSignInRequired))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractUserID extracts user ID from request headers
func extractUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderUserID))
}
