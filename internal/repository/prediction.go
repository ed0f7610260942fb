package repository

import (
	"context"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Prediction defines the interface for the featured prediction
type Prediction interface {
	// ReplacePrediction stores p as the only active prediction
	ReplacePrediction(ctx context.Context, p *domain.ActivePrediction) error
	GetActivePrediction(ctx context.Context) (*domain.ActivePrediction, error)
}
