package domain

// Event type constants used across the application for event bus subscriptions,
// SSE fan-out and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "wager.settled")
const (
	// EventTypeChannelLive is published when a featured channel starts broadcasting
	EventTypeChannelLive = "channel.live"

	// EventTypeChannelOffline is published when a featured channel stops broadcasting
	EventTypeChannelOffline = "channel.offline"

	// EventTypeWagerPlaced is published on a first-time vote
	EventTypeWagerPlaced = "wager.placed"

	// EventTypeWagerSettled is published when a wager moves to WON or LOST
	EventTypeWagerSettled = "wager.settled"

	// EventTypePredictionStarted is published when an admin features a contest
	EventTypePredictionStarted = "prediction.started"

	// EventTypeLedgerCredited is published after a successful balance change
	EventTypeLedgerCredited = "ledger.credited"
)

// ChannelTransitionPayload is carried by channel.live and channel.offline
type ChannelTransitionPayload struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	IsLive      bool   `json:"is_live"`
	ViewerCount int    `json:"viewer_count"`
	Title       string `json:"title,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// WagerPlacedPayload is carried by wager.placed
type WagerPlacedPayload struct {
	UserID       string `json:"user_id"`
	ContestID    string `json:"contest_id"`
	ChosenHandle string `json:"chosen_handle"`
	CountA       int64  `json:"count_a"`
	CountB       int64  `json:"count_b"`
	Timestamp    int64  `json:"timestamp"`
}

// WagerSettledPayload is carried by wager.settled
type WagerSettledPayload struct {
	UserID       string     `json:"user_id"`
	ContestID    string     `json:"contest_id"`
	ChosenHandle string     `json:"chosen_handle"`
	State        WagerState `json:"state"`
	Credited     int64      `json:"credited"`
	Timestamp    int64      `json:"timestamp"`
}

// PredictionStartedPayload is carried by prediction.started
type PredictionStartedPayload struct {
	ID        string `json:"id"`
	ContestID string `json:"contest_id"`
	HandleA   string `json:"handle_a"`
	HandleB   string `json:"handle_b"`
	ExpiresAt int64  `json:"expires_at"`
}

// LedgerCreditedPayload is carried by ledger.credited
type LedgerCreditedPayload struct {
	UserID    string `json:"user_id"`
	Delta     int64  `json:"delta"`
	Balance   int64  `json:"balance"`
	Reason    string `json:"reason"`
	Timestamp int64  `json:"timestamp"`
}
