package sse

// ChannelPayload is streamed for channel.live and channel.offline
type ChannelPayload struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	IsLive      bool   `json:"is_live"`
	ViewerCount int    `json:"viewer_count"`
	Title       string `json:"title,omitempty"`
}

// WagerSettledPayload is streamed for wager.settled. Pages match on user_id.
type WagerSettledPayload struct {
	UserID       string `json:"user_id"`
	ContestID    string `json:"contest_id"`
	ChosenHandle string `json:"chosen_handle"`
	State        string `json:"state"`
	Credited     int64  `json:"credited"`
}

// PredictionPayload is streamed for prediction.started
type PredictionPayload struct {
	ID        string `json:"id"`
	ContestID string `json:"contest_id"`
	HandleA   string `json:"handle_a"`
	HandleB   string `json:"handle_b"`
	ExpiresAt int64  `json:"expires_at"`
}

// ConnectedPayload is the body of the first message on a stream
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Filters  []string `json:"filters"`
}
