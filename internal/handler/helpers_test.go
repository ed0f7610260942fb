package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ssbwatch/internal/session"
)

const (
	testUserID    = "6f1c1c5e-8d4a-4c59-9a51-3c1f0f9b2a10"
	testSessionID = "sess-1"
)

// newRequest builds a request carrying a session, with chi URL params set
func newRequest(t *testing.T, method, target string, body interface{}, userID string, params map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = session.WithSession(ctx, session.Session{ID: testSessionID, UserID: userID})
	return req.WithContext(ctx)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
