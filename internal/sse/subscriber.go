package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for every streamable event type
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.ChannelLive, s.handleChannel)
	s.bus.Subscribe(event.ChannelOffline, s.handleChannel)
	s.bus.Subscribe(event.WagerSettled, s.handleWagerSettled)
	s.bus.Subscribe(event.PredictionStarted, s.handlePredictionStarted)

	slog.Info(LogMsgSubscribed, "types", StreamableTypes)
}

func (s *Subscriber) handleChannel(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.ChannelTransitionPayload](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(string(evt.Type), ChannelPayload{
		Handle:      p.Handle,
		DisplayName: p.DisplayName,
		IsLive:      p.IsLive,
		ViewerCount: p.ViewerCount,
		Title:       p.Title,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "handle", p.Handle)
	return nil
}

func (s *Subscriber) handleWagerSettled(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.WagerSettledPayload](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypeWagerSettled, WagerSettledPayload{
		UserID:       p.UserID,
		ContestID:    p.ContestID,
		ChosenHandle: p.ChosenHandle,
		State:        string(p.State),
		Credited:     p.Credited,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "contest_id", p.ContestID)
	return nil
}

func (s *Subscriber) handlePredictionStarted(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.PredictionStartedPayload](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "event_type", evt.Type, "error", err)
		return nil
	}
	s.hub.Broadcast(EventTypePredictionStarted, PredictionPayload{
		ID:        p.ID,
		ContestID: p.ContestID,
		HandleA:   p.HandleA,
		HandleB:   p.HandleB,
		ExpiresAt: p.ExpiresAt,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "contest_id", p.ContestID)
	return nil
}
