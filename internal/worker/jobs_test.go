package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/statuscache"
)

func TestStatusPollJob_StoresSnapshots(t *testing.T) {
	source := newFakeSource()
	source.set("alpha", true)
	store := statuscache.NewMemoryStore(16)
	bus := &recordingBus{}

	job := NewStatusPollJob([]string{"alpha", "beta"}, source, store, bus)
	require.NoError(t, job.Process(context.Background()))

	alpha, ok, err := store.Get(context.Background(), "alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, alpha.IsLive)

	beta, ok, err := store.Get(context.Background(), "beta")
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, beta.IsLive)

	// first observation is not a transition
	assert.Empty(t, bus.types())
}

func TestStatusPollJob_PublishesTransitions(t *testing.T) {
	source := newFakeSource()
	store := statuscache.NewMemoryStore(16)
	bus := &recordingBus{}
	job := NewStatusPollJob([]string{"alpha", "beta"}, source, store, bus)

	require.NoError(t, job.Process(context.Background()))

	source.set("alpha", true)
	require.NoError(t, job.Process(context.Background()))
	assert.Equal(t, []event.Type{event.ChannelLive}, bus.types())

	// unchanged poll publishes nothing
	require.NoError(t, job.Process(context.Background()))
	assert.Len(t, bus.types(), 1)

	source.set("alpha", false)
	require.NoError(t, job.Process(context.Background()))
	assert.Equal(t, []event.Type{event.ChannelLive, event.ChannelOffline}, bus.types())
}

func TestStatusPollJob_CancelledPollWritesNothing(t *testing.T) {
	source := newFakeSource()
	source.set("alpha", true)
	store := statuscache.NewMemoryStore(16)

	ctx, cancel := context.WithCancel(context.Background())
	source.onFetch = cancel

	job := NewStatusPollJob([]string{"alpha"}, source, store, nil)
	err := job.Process(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, ok, err := store.Get(context.Background(), "alpha")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStatusPollJob_NoHandles(t *testing.T) {
	source := newFakeSource()
	job := NewStatusPollJob(nil, source, statuscache.NewMemoryStore(4), nil)
	require.NoError(t, job.Process(context.Background()))
	assert.Empty(t, source.calls)
}

func mustContest(t *testing.T, a, b string) domain.Contest {
	t.Helper()
	c, err := domain.NewContest(a, b)
	require.NoError(t, err)
	return c
}

func TestSettlementSweepJob_SettlesEveryContest(t *testing.T) {
	c1 := mustContest(t, "alpha", "beta")
	c2 := mustContest(t, "gamma", "delta")
	settler := newFakeSettler(c1, c2)
	source := newFakeSource()
	source.set("alpha", true)
	source.set("beta", true)
	source.set("gamma", true)
	store := statuscache.NewMemoryStore(16)

	job := NewSettlementSweepJob(settler, source, store)
	require.NoError(t, job.Process(context.Background()))

	require.Contains(t, settler.settled, c1.ID)
	got := settler.settled[c1.ID]
	assert.Equal(t, c1.HandleA, got[0].Handle)
	assert.Equal(t, c1.HandleB, got[1].Handle)

	require.Contains(t, settler.settled, c2.ID)
	got = settler.settled[c2.ID]
	assert.Equal(t, "delta", got[0].Handle)
	assert.False(t, got[0].IsLive)

	// sweep observations refresh the snapshot store
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestSettlementSweepJob_CancelledSweepSettlesNothing(t *testing.T) {
	c := mustContest(t, "alpha", "beta")
	settler := newFakeSettler(c)
	source := newFakeSource()

	ctx, cancel := context.WithCancel(context.Background())
	source.onFetch = cancel

	job := NewSettlementSweepJob(settler, source, nil)
	err := job.Process(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, settler.settled)
}

func TestSettlementSweepJob_ContinuesPastFailures(t *testing.T) {
	bad := mustContest(t, "alpha", "beta")
	good := mustContest(t, "gamma", "delta")
	settler := newFakeSettler(bad, good)
	boom := errors.New("boom")
	settler.failFor[bad.ID] = boom

	job := NewSettlementSweepJob(settler, newFakeSource(), nil)
	err := job.Process(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, settler.settled, good.ID)
}

func TestSettlementSweepJob_ListError(t *testing.T) {
	settler := newFakeSettler()
	settler.listErr = errors.New("db down")

	job := NewSettlementSweepJob(settler, newFakeSource(), nil)
	assert.Error(t, job.Process(context.Background()))
}
