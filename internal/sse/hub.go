package sse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ssbwatch/internal/metrics"
)

// Drop reasons reported on the stream metrics
const (
	dropQueueFull  = "queue_full"
	dropSlowClient = "slow_client"
)

// Event is one message on a page's stream
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Payload   any    `json:"payload"`
}

// Client is a connected page. EventChannel is closed when the client is
// unregistered or the hub stops.
type Client struct {
	ID           string
	EventChannel chan Event
	types        map[string]struct{}
}

// Wants reports whether the client subscribed to eventType. A client with
// no filter wants everything.
func (c *Client) Wants(eventType string) bool {
	if c.types == nil {
		return true
	}
	_, ok := c.types[eventType]
	return ok
}

// Hub fans events out to connected pages. Registration is synchronous;
// delivery happens on a single goroutine fed by a bounded queue so
// publishers never block on a slow page.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	stopped bool

	queue    chan Event
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	now      func() time.Time
}

// NewHub creates a hub. Call Start before broadcasting.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		queue:   make(chan Event, BroadcastBufferSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
}

// Start launches the delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.deliverLoop()
}

// Stop ends delivery and closes every client channel. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		defer h.mu.Unlock()
		h.stopped = true
		for id, c := range h.clients {
			close(c.EventChannel)
			delete(h.clients, id)
		}
		metrics.StreamClients.Set(0)
	})
}

func (h *Hub) deliverLoop() {
	defer h.wg.Done()
	for {
		select {
		case evt := <-h.queue:
			h.deliver(evt)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) deliver(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.Wants(evt.Type) {
			continue
		}
		select {
		case c.EventChannel <- evt:
		default:
			metrics.StreamEventsDropped.WithLabelValues(evt.Type, dropSlowClient).Inc()
		}
	}
}

// Register adds a client filtered to eventTypes (empty means all). After
// Stop the returned client's channel is already closed.
func (h *Hub) Register(eventTypes []string) *Client {
	c := &Client{
		ID:           uuid.NewString(),
		EventChannel: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			c.types[t] = struct{}{}
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		close(c.EventChannel)
		return c
	}
	h.clients[c.ID] = c
	metrics.StreamClients.Inc()
	return c
}

// Unregister removes a client and closes its channel. Unknown ids are ignored.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(c.EventChannel)
	delete(h.clients, clientID)
	metrics.StreamClients.Dec()
}

// Broadcast queues an event for every interested client. A full queue
// drops the event.
func (h *Hub) Broadcast(eventType string, payload any) {
	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: h.now().Unix(),
		Payload:   payload,
	}

	select {
	case h.queue <- evt:
	default:
		metrics.StreamEventsDropped.WithLabelValues(eventType, dropQueueFull).Inc()
		slog.Warn(LogMsgEventDropped, "event_type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in text/event-stream framing
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if evt.ID != "" {
		buf.WriteString("id: ")
		buf.WriteString(evt.ID)
		buf.WriteByte('\n')
	}
	buf.WriteString("event: ")
	buf.WriteString(evt.Type)
	buf.WriteString("\ndata: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}
