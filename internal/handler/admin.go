package handler

import (
	"net/http"
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/user"
)

// AdminUserHandler handles admin user operations
type AdminUserHandler struct {
	users user.Service
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(users user.Service) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// HandleBan bans a user from voting and earning
// @Summary Ban user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.BanUserRequest true "Ban"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/user/ban [post]
func (h *AdminUserHandler) HandleBan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.BanUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Ban user"); err != nil {
			return
		}
		u, err := h.users.Ban(r.Context(), req.UserID, time.Duration(req.Hours)*time.Hour, req.Reason)
		if err != nil {
			respondServiceError(w, r, "Ban user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleUnban lifts a ban
// @Summary Unban user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.UnbanUserRequest true "Unban"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/user/unban [post]
func (h *AdminUserHandler) HandleUnban() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.UnbanUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Unban user"); err != nil {
			return
		}
		if err := h.users.Unban(r.Context(), req.UserID); err != nil {
			respondServiceError(w, r, "Unban user", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgUserUnbanned})
	}
}

// HandleListUsers pages through registered accounts, newest first
// @Summary List users
// @Tags admin
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} domain.UserPage
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/admin/users [get]
func (h *AdminUserHandler) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := GetIntQueryParam(r, w, "limit", 0)
		if !ok {
			return
		}
		offset, ok := GetIntQueryParam(r, w, "offset", 0)
		if !ok {
			return
		}
		page, err := h.users.ListUsers(r.Context(), limit, offset)
		if err != nil {
			respondServiceError(w, r, "List users", err)
			return
		}
		respondJSON(w, http.StatusOK, page)
	}
}

// HandleVerify sets or clears a user's verified badge
// @Summary Verify user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.VerifyUserRequest true "Verification"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/user/verify [post]
func (h *AdminUserHandler) HandleVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.VerifyUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Verify user"); err != nil {
			return
		}
		u, err := h.users.Verify(r.Context(), req.UserID, req.Verified, req.Badge)
		if err != nil {
			respondServiceError(w, r, "Verify user", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleSetRole grants or revokes the admin role
// @Summary Set user role
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.SetRoleRequest true "Role"
// @Success 200 {object} domain.User
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/admin/user/role [post]
func (h *AdminUserHandler) HandleSetRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.SetRoleRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set role"); err != nil {
			return
		}
		u, err := h.users.SetRole(r.Context(), req.UserID, req.Role)
		if err != nil {
			respondServiceError(w, r, "Set role", err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

// HandleCacheStats reports the user cache counters
// @Summary User cache statistics
// @Tags admin
// @Produce json
// @Success 200 {object} user.CacheStats
// @Router /api/v1/admin/cache/stats [get]
func (h *AdminUserHandler) HandleCacheStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.users.CacheStats())
	}
}
