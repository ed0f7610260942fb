package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
)

const testWait = time.Second

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, testWait, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChannel:
		return e
	case <-time.After(testWait):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHub_FiltersByType(t *testing.T) {
	hub := startHub(t)

	all := hub.Register(nil)
	liveOnly := hub.Register([]string{EventTypeChannelLive})
	waitClients(t, hub, 2)

	hub.Broadcast(EventTypeWagerSettled, WagerSettledPayload{ContestID: "a_vs_b"})
	hub.Broadcast(EventTypeChannelLive, ChannelPayload{Handle: "a"})

	assert.Equal(t, EventTypeWagerSettled, receive(t, all).Type)
	assert.Equal(t, EventTypeChannelLive, receive(t, all).Type)
	assert.Equal(t, EventTypeChannelLive, receive(t, liveOnly).Type)

	select {
	case e := <-liveOnly.EventChannel:
		t.Fatalf("filtered client received %s", e.Type)
	default:
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := startHub(t)
	c := hub.Register(nil)
	waitClients(t, hub, 1)

	hub.Unregister(c.ID)
	waitClients(t, hub, 0)

	_, ok := <-c.EventChannel
	assert.False(t, ok)
}

func TestHub_StopIsIdempotent(t *testing.T) {
	hub := NewHub()
	hub.Start()
	c := hub.Register(nil)
	waitClients(t, hub, 1)

	hub.Stop()
	hub.Stop()

	_, ok := <-c.EventChannel
	assert.False(t, ok)
}

func TestParseTypes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty means all", "", nil, false},
		{"single", "channel.live", []string{"channel.live"}, false},
		{"trims and skips blanks", " wager.settled, ,prediction.started", []string{"wager.settled", "prediction.started"}, false},
		{"unknown", "channel.live,nope", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTypes(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubscriber_BridgesBusToHub(t *testing.T) {
	hub := startHub(t)
	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	c := hub.Register(nil)
	waitClients(t, hub, 1)

	status := domain.ChannelStatus{Handle: "alpha", DisplayName: "Alpha", IsLive: true, ViewerCount: 12}
	require.NoError(t, bus.Publish(context.Background(), event.NewChannelTransitionEvent(status)))

	got := receive(t, c)
	assert.Equal(t, EventTypeChannelLive, got.Type)
	payload, ok := got.Payload.(ChannelPayload)
	require.True(t, ok)
	assert.Equal(t, "alpha", payload.Handle)
	assert.Equal(t, 12, payload.ViewerCount)

	w := domain.Wager{UserID: "u1", ContestID: "alpha_vs_beta", ChosenHandle: "beta", State: domain.WagerWon}
	require.NoError(t, bus.Publish(context.Background(), event.NewWagerSettledEvent(w, 100)))

	got = receive(t, c)
	assert.Equal(t, EventTypeWagerSettled, got.Type)
	settled, ok := got.Payload.(WagerSettledPayload)
	require.True(t, ok)
	assert.Equal(t, "WON", settled.State)
	assert.Equal(t, int64(100), settled.Credited)
}

func TestHandler_StreamsEvents(t *testing.T) {
	hub := startHub(t)
	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?types=prediction.started", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readData(t, reader)
	assert.Equal(t, EventTypeConnected, first.Type)

	waitClients(t, hub, 1)
	hub.Broadcast(EventTypeChannelLive, ChannelPayload{Handle: "ignored"})
	hub.Broadcast(EventTypePredictionStarted, PredictionPayload{ContestID: "a_vs_b"})

	next := readData(t, reader)
	assert.Equal(t, EventTypePredictionStarted, next.Type)
}

func TestHandler_RejectsUnknownTypes(t *testing.T) {
	hub := startHub(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events?types=bogus", nil)

	Handler(hub).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, hub.ClientCount())
}

func readData(t *testing.T, r *bufio.Reader) Event {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var e Event
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(data)), &e))
			return e
		}
	}
}

func TestHub_RegisterAfterStopReturnsClosedClient(t *testing.T) {
	hub := NewHub()
	hub.Start()
	hub.Stop()

	c := hub.Register(nil)
	_, ok := <-c.EventChannel
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())

	hub.Unregister(c.ID)
}

func TestClient_Wants(t *testing.T) {
	hub := startHub(t)
	all := hub.Register(nil)
	some := hub.Register([]string{EventTypeWagerSettled})

	assert.True(t, all.Wants(EventTypeChannelOffline))
	assert.True(t, some.Wants(EventTypeWagerSettled))
	assert.False(t, some.Wants(EventTypeChannelOffline))
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "e1", Type: EventTypeChannelLive, Timestamp: 1, Payload: ChannelPayload{Handle: "a"}})
	require.NoError(t, err)
	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: e1\nevent: channel.live\ndata: {"))
	assert.True(t, strings.HasSuffix(s, "}\n\n"))

	keepalive, err := FormatSSEMessage(Event{Type: EventTypeKeepalive})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(keepalive), "event: keepalive\n"))
}
