package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ssbwatch/internal/channel"
	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/statuscache"
)

func TestHandleGetChannel(t *testing.T) {
	svc := &MockChannelService{}
	svc.On("Status", mock.Anything, "xqc").Return(domain.ChannelStatus{Handle: "xqc", IsLive: true, ViewerCount: 42})
	store := statuscache.NewMemoryStore(8)
	h := NewChannelHandlers(svc, store, 0)

	w := httptest.NewRecorder()
	h.HandleGetChannel().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"handle": "xqc"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 42, decode[domain.ChannelStatus](t, w).ViewerCount)

	_, ok, err := store.Get(context.Background(), "xqc")
	require.NoError(t, err)
	assert.True(t, ok)

	w = httptest.NewRecorder()
	h.HandleGetChannel().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"handle": "../etc"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListChannels_FallsBackToLiveFetch(t *testing.T) {
	store := statuscache.NewMemoryStore(8)
	require.NoError(t, store.Put(context.Background(), domain.ChannelStatus{Handle: "alpha", IsLive: true, FetchedAt: time.Now()}))

	svc := &MockChannelService{}
	svc.On("Statuses", mock.Anything, []string{"beta"}).Return([]domain.ChannelStatus{{Handle: "beta"}})
	h := NewChannelHandlers(svc, store, time.Minute)

	w := httptest.NewRecorder()
	h.HandleListChannels().ServeHTTP(w, newRequest(t, http.MethodGet, "/api/v1/channels?handles=Alpha,beta,alpha", nil, "", nil))

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]domain.ChannelStatus](t, w)
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Handle)
	assert.True(t, got[0].IsLive)
	assert.Equal(t, "beta", got[1].Handle)
	svc.AssertExpectations(t)
}

func TestHandleListChannels_BadInput(t *testing.T) {
	h := NewChannelHandlers(&MockChannelService{}, statuscache.NewMemoryStore(8), 0)

	for _, target := range []string{"/api/v1/channels", "/api/v1/channels?handles=,,", "/api/v1/channels?handles=a/b"} {
		w := httptest.NewRecorder()
		h.HandleListChannels().ServeHTTP(w, newRequest(t, http.MethodGet, target, nil, "", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestHandleListChannels_RefetchesStaleSnapshot(t *testing.T) {
	clock := time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)
	store := statuscache.NewMemoryStore(8)

	svc := &MockChannelService{}
	svc.On("Statuses", mock.Anything, []string{"gamma"}).
		Return([]domain.ChannelStatus{{Handle: "gamma", FetchedAt: clock}}).Once()
	svc.On("Statuses", mock.Anything, []string{"gamma"}).
		Return([]domain.ChannelStatus{{Handle: "gamma", IsLive: true, ViewerCount: 9, FetchedAt: clock.Add(61 * time.Second)}}).Once()

	h := NewChannelHandlers(svc, store, time.Minute)
	h.now = func() time.Time { return clock }

	list := func() domain.ChannelStatus {
		w := httptest.NewRecorder()
		h.HandleListChannels().ServeHTTP(w, newRequest(t, http.MethodGet, "/api/v1/channels?handles=gamma", nil, "", nil))
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]domain.ChannelStatus](t, w)
		require.Len(t, got, 1)
		return got[0]
	}

	assert.False(t, list().IsLive)

	clock = clock.Add(30 * time.Second)
	assert.False(t, list().IsLive, "snapshot within the poll interval is reused")

	clock = clock.Add(31 * time.Second)
	second := list()
	assert.True(t, second.IsLive, "stale snapshot is polled again")
	assert.Equal(t, 9, second.ViewerCount)

	clock = clock.Add(10 * time.Second)
	assert.True(t, list().IsLive, "refetched snapshot replaced the old one")

	svc.AssertExpectations(t)
	svc.AssertNumberOfCalls(t, "Statuses", 2)
}

func TestHandleListChannels_IgnoresSnapshotWithoutTimestamp(t *testing.T) {
	store := statuscache.NewMemoryStore(8)
	require.NoError(t, store.Put(context.Background(), domain.ChannelStatus{Handle: "delta"}))

	svc := &MockChannelService{}
	svc.On("Statuses", mock.Anything, []string{"delta"}).
		Return([]domain.ChannelStatus{{Handle: "delta", IsLive: true, FetchedAt: time.Now()}})
	h := NewChannelHandlers(svc, store, time.Minute)

	w := httptest.NewRecorder()
	h.HandleListChannels().ServeHTTP(w, newRequest(t, http.MethodGet, "/api/v1/channels?handles=delta", nil, "", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[[]domain.ChannelStatus](t, w)[0].IsLive)
	svc.AssertExpectations(t)
}

func TestHandleGetClips(t *testing.T) {
	svc := &MockChannelService{}
	svc.On("Clips", mock.Anything, "alpha").
		Return(map[string]any{"clips": []any{map[string]any{"id": "c1"}}})
	svc.On("Clips", mock.Anything, "gamma").Return(channel.EmptyClips())
	h := NewChannelHandlers(svc, statuscache.NewMemoryStore(8), 0)

	w := httptest.NewRecorder()
	h.HandleGetClips().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"handle": "alpha"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clips":[{"id":"c1"}]}`, w.Body.String())

	w = httptest.NewRecorder()
	h.HandleGetClips().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"handle": "gamma"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clips":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	h.HandleGetClips().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"handle": "../etc"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}
