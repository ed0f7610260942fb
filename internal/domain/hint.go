package domain

import "time"

// ClientHint wraps per-session state a visitor can clear or forge at will.
// Nothing that authorizes a vote or a credit reads it.
type ClientHint[T any] struct {
	Value      T         `json:"value"`
	Advisory   bool      `json:"advisory"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewClientHint stamps a value as advisory
func NewClientHint[T any](v T, now time.Time) ClientHint[T] {
	return ClientHint[T]{Value: v, Advisory: true, RecordedAt: now}
}
