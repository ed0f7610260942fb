package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/ssbwatch/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: until tomorrow", domain.ErrUserBanned), http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrWagerNotFound, http.StatusNotFound},
		{domain.ErrContestNotFound, http.StatusNotFound},
		{domain.ErrNoActivePrediction, http.StatusNotFound},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{fmt.Errorf("wrapped twice: %w", fmt.Errorf("%w: x", domain.ErrInvalidContest)), http.StatusBadRequest},
		{domain.ErrInvalidChoice, http.StatusBadRequest},
		{domain.ErrInsufficientFunds, http.StatusBadRequest},
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("pq: connection reset"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		status, msg := mapServiceErrorToUserMessage(tt.err)
		assert.Equal(t, tt.wantStatus, status, "%v", tt.err)
		assert.NotEmpty(t, msg)
	}

	_, msg := mapServiceErrorToUserMessage(errors.New("pq: connection reset"))
	assert.Equal(t, ErrMsgGenericServerError, msg)
}
