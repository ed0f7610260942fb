package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/prediction"
	"github.com/osse101/ssbwatch/internal/session"
)

// PredictionHandlers handles the featured prediction
type PredictionHandlers struct {
	service prediction.Service
	hints   *session.HintStore
}

// NewPredictionHandlers creates a new prediction handlers instance
func NewPredictionHandlers(service prediction.Service, hints *session.HintStore) *PredictionHandlers {
	return &PredictionHandlers{service: service, hints: hints}
}

// HandleGetPrediction returns the featured prediction with its tally and the
// session's advisory hints. No active prediction is a 200 with a null prediction.
// @Summary Featured prediction
// @Tags prediction
// @Produce json
// @Success 200 {object} domain.PredictionView
// @Router /api/v1/prediction [get]
func (h *PredictionHandlers) HandleGetPrediction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.service.GetActivePrediction(r.Context())
		if errors.Is(err, domain.ErrNoActivePrediction) {
			respondJSON(w, http.StatusOK, domain.PredictionView{})
			return
		}
		if err != nil {
			respondServiceError(w, r, "Get prediction", err)
			return
		}

		tally, err := h.service.GetTally(r.Context(), p.ContestID)
		if err != nil {
			respondServiceError(w, r, "Get prediction tally", err)
			return
		}

		view := domain.PredictionView{
			Prediction: p,
			Tally:      *tally,
			Total:      tally.Total(),
		}
		if sess := currentSession(r); h.hints != nil && sess.ID != "" {
			view.Dismissed = h.hints.IsDismissed(sess.ID, p.ID)
			if hint, ok := h.hints.VotedFor(sess.ID, p.ContestID); ok {
				view.VotedFor = hint.Value
			}
		}
		respondJSON(w, http.StatusOK, view)
	}
}

// HandleDismiss hides a prediction for the current session
// @Summary Dismiss the featured prediction
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body domain.DismissPredictionRequest true "Prediction to hide"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/prediction/dismiss [post]
func (h *PredictionHandlers) HandleDismiss() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.DismissPredictionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Dismiss prediction"); err != nil {
			return
		}
		if sess := currentSession(r); h.hints != nil && sess.ID != "" {
			h.hints.Dismiss(sess.ID, req.PredictionID)
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPredictionDismissed})
	}
}

// HandleStartPrediction features a contest site-wide, replacing the current one
// @Summary Start a featured prediction
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.StartPredictionRequest true "Contest to feature"
// @Success 201 {object} domain.ActivePrediction
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/prediction [post]
func (h *PredictionHandlers) HandleStartPrediction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.StartPredictionRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Start prediction"); err != nil {
			return
		}
		p, err := h.service.StartPrediction(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, "Start prediction", err)
			return
		}
		respondJSON(w, http.StatusCreated, p)
	}
}
