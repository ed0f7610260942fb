package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := WithSession(context.Background(), Session{ID: "s1", UserID: "u1"})

	s, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "s1", s.ID)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "u1", UserID(ctx))

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "", UserID(context.Background()))
}

func TestHintStore_Votes(t *testing.T) {
	store := NewHintStore(10, time.Hour)

	_, ok := store.VotedFor("s1", "alpha_vs_beta")
	assert.False(t, ok)

	store.RecordVote("s1", "alpha_vs_beta", "alpha")
	hint, ok := store.VotedFor("s1", "alpha_vs_beta")
	require.True(t, ok)
	assert.Equal(t, "alpha", hint.Value)
	assert.True(t, hint.Advisory)

	_, ok = store.VotedFor("s2", "alpha_vs_beta")
	assert.False(t, ok, "hints are per session")

	store.Forget("s1")
	_, ok = store.VotedFor("s1", "alpha_vs_beta")
	assert.False(t, ok)
}

func TestHintStore_Dismissals(t *testing.T) {
	store := NewHintStore(10, time.Hour)

	assert.False(t, store.IsDismissed("s1", "p1"))
	store.Dismiss("s1", "p1")
	assert.True(t, store.IsDismissed("s1", "p1"))
	assert.False(t, store.IsDismissed("s1", "p2"))

	store.Dismiss("", "p1")
	assert.False(t, store.IsDismissed("", "p1"), "anonymous sessions keep nothing")
}

func TestHintStore_Eviction(t *testing.T) {
	store := NewHintStore(1, time.Hour)
	store.Dismiss("s1", "p1")
	store.Dismiss("s2", "p1")

	assert.False(t, store.IsDismissed("s1", "p1"))
	assert.True(t, store.IsDismissed("s2", "p1"))
}
