package sse

import (
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50
)

// SSE connection settings
const (
	// KeepaliveInterval is how often to send keepalive pings
	KeepaliveInterval = 30 * time.Second
)

// Event types streamed to pages
const (
	EventTypeChannelLive       = domain.EventTypeChannelLive
	EventTypeChannelOffline    = domain.EventTypeChannelOffline
	EventTypeWagerSettled      = domain.EventTypeWagerSettled
	EventTypePredictionStarted = domain.EventTypePredictionStarted

	// EventTypeConnected is the first message on every stream
	EventTypeConnected = "connected"

	// EventTypeKeepalive is the keepalive ping event type
	EventTypeKeepalive = "keepalive"
)

// StreamableTypes lists the types a client may filter on
var StreamableTypes = []string{
	EventTypeChannelLive,
	EventTypeChannelOffline,
	EventTypeWagerSettled,
	EventTypePredictionStarted,
}

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgInvalidPayload     = "Invalid event payload for SSE"
	LogMsgSubscribed         = "SSE subscriber registered for event types"
)

// ErrMsgUnknownTypes is returned for a ?types= filter naming nothing streamable
const ErrMsgUnknownTypes = "unknown event types: %s"
