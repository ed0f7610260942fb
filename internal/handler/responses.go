package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode before writing the header so a failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages derived from domain errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgUserBannedError     = "You are banned from voting and rewards"
	ErrMsgSignInError         = "Sign in to take part"
	ErrMsgUsernameTakenError  = "That username is taken"
	ErrMsgContestNotFoundErr  = "Contest not found"
	ErrMsgInvalidContestError = "Pick two different channels"
	ErrMsgInvalidChoiceError  = "Your pick must be one of the two channels"
	ErrMsgWagerNotFoundError  = "You have not voted in this contest"
	ErrMsgNoPredictionError   = "No active prediction"
	ErrMsgNotEnoughCoinsError = "Not enough coins"
	ErrMsgInvalidInputError   = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP statuses and messages
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, ErrMsgGenericServerError
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, ErrMsgSignInError
	case errors.Is(err, domain.ErrUserBanned):
		return http.StatusForbidden, ErrMsgUserBannedError
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrContestNotFound):
		return http.StatusNotFound, ErrMsgContestNotFoundErr
	case errors.Is(err, domain.ErrWagerNotFound):
		return http.StatusNotFound, ErrMsgWagerNotFoundError
	case errors.Is(err, domain.ErrNoActivePrediction):
		return http.StatusNotFound, ErrMsgNoPredictionError
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, ErrMsgUsernameTakenError
	case errors.Is(err, domain.ErrInvalidContest):
		return http.StatusBadRequest, ErrMsgInvalidContestError
	case errors.Is(err, domain.ErrInvalidChoice):
		return http.StatusBadRequest, ErrMsgInvalidChoiceError
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, ErrMsgNotEnoughCoinsError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidInputError
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// respondServiceError logs err and writes the mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "op", op, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "op", op, "status", status, "error", err)
	}
	respondError(w, status, msg)
}
