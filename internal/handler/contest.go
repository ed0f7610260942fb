package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/prediction"
	"github.com/osse101/ssbwatch/internal/session"
)

// ContestHandlers serves votes, tallies and settlement checks
type ContestHandlers struct {
	service prediction.Service
	hints   *session.HintStore
}

// NewContestHandlers creates the contest handlers
func NewContestHandlers(service prediction.Service, hints *session.HintStore) *ContestHandlers {
	return &ContestHandlers{service: service, hints: hints}
}

// TallyResponse is a tally with its derived total
type TallyResponse struct {
	ContestID string `json:"contest_id"`
	HandleA   string `json:"handle_a"`
	HandleB   string `json:"handle_b"`
	CountA    int64  `json:"count_a"`
	CountB    int64  `json:"count_b"`
	Total     int64  `json:"total"`
}

func newTallyResponse(t domain.TallyRecord) TallyResponse {
	resp := TallyResponse{ContestID: t.ContestID, CountA: t.CountA, CountB: t.CountB, Total: t.Total()}
	if c, err := domain.ParseContestID(t.ContestID); err == nil {
		resp.HandleA, resp.HandleB = c.HandleA, c.HandleB
	}
	return resp
}

// VoteResponse is returned from a vote
type VoteResponse struct {
	Wager   domain.Wager  `json:"wager"`
	Tally   TallyResponse `json:"tally"`
	Created bool          `json:"created"`
}

// HandleVote records the signed-in user's pick. A repeat vote returns the
// stored wager unchanged with 200; a first vote answers 201.
// @Summary Vote in a head-to-head contest
// @Tags contests
// @Accept json
// @Produce json
// @Param request body domain.VoteRequest true "Pick"
// @Success 201 {object} VoteResponse
// @Success 200 {object} VoteResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/contests/vote [post]
func (h *ContestHandlers) HandleVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.VoteRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Vote"); err != nil {
			return
		}

		sess := currentSession(r)
		logger.FromContext(r.Context()).Debug(LogMsgVoteRequest,
			"user_id", sess.UserID,
			"handle_a", req.HandleA,
			"handle_b", req.HandleB,
			"chosen", req.ChosenHandle)

		result, err := h.service.CastVote(r.Context(), sess.UserID, req)
		if err != nil {
			respondServiceError(w, r, "Vote", err)
			return
		}

		if h.hints != nil && sess.ID != "" {
			h.hints.RecordVote(sess.ID, result.Wager.ContestID, result.Wager.ChosenHandle)
		}

		status := http.StatusOK
		if result.Created {
			status = http.StatusCreated
		}
		respondJSON(w, status, VoteResponse{
			Wager:   result.Wager,
			Tally:   newTallyResponse(result.Tally),
			Created: result.Created,
		})
	}
}

// HandleGetTally returns the vote counts of a contest
// @Summary Contest tally
// @Tags contests
// @Produce json
// @Param contestID path string true "Contest id, e.g. alpha_vs_beta"
// @Success 200 {object} TallyResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/contests/{contestID}/tally [get]
func (h *ContestHandlers) HandleGetTally() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tally, err := h.service.GetTally(r.Context(), chi.URLParam(r, "contestID"))
		if err != nil {
			respondServiceError(w, r, "Get tally", err)
			return
		}
		respondJSON(w, http.StatusOK, newTallyResponse(*tally))
	}
}

// HandleGetWager returns the signed-in user's wager in a contest
// @Summary Current user's wager
// @Tags contests
// @Produce json
// @Param contestID path string true "Contest id"
// @Success 200 {object} domain.Wager
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/contests/{contestID}/wager [get]
func (h *ContestHandlers) HandleGetWager() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wager, err := h.service.GetWager(r.Context(), session.UserID(r.Context()), chi.URLParam(r, "contestID"))
		if err != nil {
			respondServiceError(w, r, "Get wager", err)
			return
		}
		respondJSON(w, http.StatusOK, wager)
	}
}

// HandleSettle polls both sides and settles the signed-in user's wager if decided
// @Summary Evaluate the current user's wager
// @Tags contests
// @Produce json
// @Param contestID path string true "Contest id"
// @Success 200 {object} domain.SettlementResult
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/contests/{contestID}/settle [post]
func (h *ContestHandlers) HandleSettle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := h.service.EvaluateWager(r.Context(), session.UserID(r.Context()), chi.URLParam(r, "contestID"))
		if err != nil {
			respondServiceError(w, r, "Settle wager", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}
