package metrics

import (
	"context"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.ChannelLive,
		event.ChannelOffline,
		event.WagerPlaced,
		event.WagerSettled,
		event.PredictionStarted,
		event.LedgerCredited,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.WagerPlaced:
		VotesCast.Inc()

	case event.WagerSettled:
		payload, err := event.DecodePayload[domain.WagerSettledPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		WagersSettled.WithLabelValues(string(payload.State)).Inc()

	case event.LedgerCredited:
		payload, err := event.DecodePayload[domain.LedgerCreditedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		if payload.Delta > 0 {
			CoinsCredited.WithLabelValues(payload.Reason).Add(float64(payload.Delta))
		}

	case event.PredictionStarted:
		PredictionsStarted.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
