package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/economy"
	"github.com/osse101/ssbwatch/internal/session"
	"github.com/osse101/ssbwatch/internal/user"
)

// UserHandlers serves registration, profiles and balance changes
type UserHandlers struct {
	users  user.Service
	ledger economy.Service
	now    func() time.Time
}

// NewUserHandlers creates the user handlers
func NewUserHandlers(users user.Service, ledger economy.Service) *UserHandlers {
	return &UserHandlers{users: users, ledger: ledger, now: time.Now}
}

// HandleRegisterUser creates an account with zero balance
// @Summary Register
// @Tags user
// @Accept json
// @Produce json
// @Param request body domain.RegisterUserRequest true "Username"
// @Success 201 {object} domain.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/user/register [post]
func (h *UserHandlers) HandleRegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
			return
		}
		u, err := h.users.Register(r.Context(), req.Username)
		if err != nil {
			respondServiceError(w, r, "Register user", err)
			return
		}
		respondJSON(w, http.StatusCreated, u)
	}
}

// HandleGetMe returns the signed-in user with a freshly read balance
// @Summary Current user
// @Tags user
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/user/me [get]
func (h *UserHandlers) HandleGetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := session.UserID(r.Context())
		u, err := h.users.GetUser(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Get current user", err)
			return
		}
		// the cached user may lag behind credits
		balance, err := h.ledger.Balance(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "Get balance", err)
			return
		}
		u.Balance = balance
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleGetProfile returns another user's public profile
// @Summary Public profile
// @Tags user
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} domain.PublicProfile
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/user/profile/{username} [get]
func (h *UserHandlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.users.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			respondServiceError(w, r, "Get profile", err)
			return
		}
		respondJSON(w, http.StatusOK, u.Profile(h.now()))
	}
}

// HandleAwardPoints credits the signed-in user
// @Summary Award points
// @Tags user
// @Accept json
// @Produce json
// @Param request body domain.AwardPointsRequest true "Amount"
// @Success 200 {object} domain.BalanceResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/user/award-points [post]
func (h *UserHandlers) HandleAwardPoints() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.AwardPointsRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Award points"); err != nil {
			return
		}
		userID := session.UserID(r.Context())
		balance, err := h.ledger.Credit(r.Context(), userID, req.Amount, economy.ReasonAward)
		if err != nil {
			respondServiceError(w, r, "Award points", err)
			return
		}
		respondJSON(w, http.StatusOK, domain.BalanceResult{UserID: userID, Balance: balance})
	}
}
