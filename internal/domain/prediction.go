package domain

import "time"

// DefaultPredictionDuration is how long a featured prediction stays open
const DefaultPredictionDuration = 20 * time.Minute

// ActivePrediction is the single featured contest promoted site-wide
type ActivePrediction struct {
	ID        string    `json:"id"`
	ContestID string    `json:"contest_id"`
	HandleA   string    `json:"handle_a"`
	HandleB   string    `json:"handle_b"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsOpen reports whether the prediction has not expired yet
func (p *ActivePrediction) IsOpen(now time.Time) bool {
	return now.Before(p.ExpiresAt)
}

// StartPredictionRequest is the body of the admin call that features a contest
type StartPredictionRequest struct {
	HandleA         string `json:"handle_a" validate:"required,handle"`
	HandleB         string `json:"handle_b" validate:"required,handle"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
}

// DismissPredictionRequest is the body of a dismissal call
type DismissPredictionRequest struct {
	PredictionID string `json:"prediction_id" validate:"required"`
}

// PredictionView is what a page renders for the featured prediction
type PredictionView struct {
	Prediction *ActivePrediction `json:"prediction"`
	Tally      TallyRecord       `json:"tally"`
	Total      int64             `json:"total"`
	Dismissed  bool              `json:"dismissed"`
	VotedFor   string            `json:"voted_for,omitempty"`
}
