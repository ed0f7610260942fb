package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Event types carried on the bus
const (
	ChannelLive       Type = domain.EventTypeChannelLive
	ChannelOffline    Type = domain.EventTypeChannelOffline
	WagerPlaced       Type = domain.EventTypeWagerPlaced
	WagerSettled      Type = domain.EventTypeWagerSettled
	PredictionStarted Type = domain.EventTypePredictionStarted
	LedgerCredited    Type = domain.EventTypeLedgerCredited
)

// NewChannelTransitionEvent creates a channel.live or channel.offline event from a fresh status
func NewChannelTransitionEvent(status domain.ChannelStatus) Event {
	t := ChannelOffline
	if status.IsLive {
		t = ChannelLive
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: domain.ChannelTransitionPayload{
			Handle:      status.Handle,
			DisplayName: status.DisplayName,
			IsLive:      status.IsLive,
			ViewerCount: status.ViewerCount,
			Title:       status.Title,
			Timestamp:   status.FetchedAt.Unix(),
		},
		Metadata: map[string]interface{}{
			"degraded": status.Degraded,
		},
	}
}

// NewWagerPlacedEvent creates a wager.placed event
func NewWagerPlacedEvent(w domain.Wager, tally domain.TallyRecord) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    WagerPlaced,
		Payload: domain.WagerPlacedPayload{
			UserID:       w.UserID,
			ContestID:    w.ContestID,
			ChosenHandle: w.ChosenHandle,
			CountA:       tally.CountA,
			CountB:       tally.CountB,
			Timestamp:    w.CreatedAt.Unix(),
		},
	}
}

// NewWagerSettledEvent creates a wager.settled event
func NewWagerSettledEvent(w domain.Wager, credited int64) Event {
	ts := time.Now()
	if w.SettledAt != nil {
		ts = *w.SettledAt
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    WagerSettled,
		Payload: domain.WagerSettledPayload{
			UserID:       w.UserID,
			ContestID:    w.ContestID,
			ChosenHandle: w.ChosenHandle,
			State:        w.State,
			Credited:     credited,
			Timestamp:    ts.Unix(),
		},
	}
}

// NewPredictionStartedEvent creates a prediction.started event
func NewPredictionStartedEvent(p domain.ActivePrediction) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PredictionStarted,
		Payload: domain.PredictionStartedPayload{
			ID:        p.ID,
			ContestID: p.ContestID,
			HandleA:   p.HandleA,
			HandleB:   p.HandleB,
			ExpiresAt: p.ExpiresAt.Unix(),
		},
	}
}

// NewLedgerCreditedEvent creates a ledger.credited event
func NewLedgerCreditedEvent(userID string, delta, balance int64, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LedgerCredited,
		Payload: domain.LedgerCreditedPayload{
			UserID:    userID,
			Delta:     delta,
			Balance:   balance,
			Reason:    reason,
			Timestamp: time.Now().Unix(),
		},
		Metadata: map[string]interface{}{
			"reason": reason,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
