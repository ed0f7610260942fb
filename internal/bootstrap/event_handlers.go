package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/ssbwatch/internal/discord"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/metrics"
	"github.com/osse101/ssbwatch/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Hub      *sse.Hub
	// Notifier is nil when Discord is not configured
	Notifier *discord.Notifier
}

// RegisterEventHandlers sets up all event subscribers:
// - Metrics collector (event counters)
// - SSE subscriber (bridges events to browser streams)
// - Discord notifier (prediction starts and won wagers)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	if deps.Hub != nil {
		sse.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
		slog.Info(LogMsgSSESubscriberRegistered)
	}

	if deps.Notifier != nil {
		deps.Notifier.Register(deps.EventBus)
		slog.Info(LogMsgDiscordNotifierRegistered)
	} else {
		slog.Info(LogMsgDiscordNotifierDisabled)
	}

	return nil
}
