package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/session"
)

func TestHandleVote(t *testing.T) {
	voteReq := domain.VoteRequest{HandleA: "alpha", HandleB: "beta", ChosenHandle: "beta"}
	wager := domain.Wager{UserID: testUserID, ContestID: "alpha_vs_beta", ChosenHandle: "beta", State: domain.WagerPending}
	tally := domain.TallyRecord{ContestID: "alpha_vs_beta", CountA: 2, CountB: 3}

	tests := []struct {
		name       string
		body       interface{}
		setup      func(m *MockPredictionService)
		wantStatus int
	}{
		{
			name: "first vote",
			body: voteReq,
			setup: func(m *MockPredictionService) {
				m.On("CastVote", mock.Anything, testUserID, voteReq).
					Return(&domain.VoteResult{Wager: wager, Tally: tally, Created: true}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "repeat vote",
			body: voteReq,
			setup: func(m *MockPredictionService) {
				m.On("CastVote", mock.Anything, testUserID, voteReq).
					Return(&domain.VoteResult{Wager: wager, Tally: tally}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "banned",
			body: voteReq,
			setup: func(m *MockPredictionService) {
				m.On("CastVote", mock.Anything, testUserID, voteReq).
					Return(nil, fmt.Errorf("%w: until tomorrow", domain.ErrUserBanned))
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "choice outside contest",
			body: voteReq,
			setup: func(m *MockPredictionService) {
				m.On("CastVote", mock.Anything, testUserID, voteReq).Return(nil, domain.ErrInvalidChoice)
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid handle rejected before the service",
			body:       domain.VoteRequest{HandleA: "al/pha", HandleB: "beta", ChosenHandle: "beta"},
			setup:      func(m *MockPredictionService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown field",
			body:       map[string]string{"handle_a": "a", "handle_b": "b", "chosen_handle": "a", "extra": "x"},
			setup:      func(m *MockPredictionService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPredictionService{}
			tt.setup(svc)
			hints := session.NewHintStore(10, 0)
			h := NewContestHandlers(svc, hints)

			w := httptest.NewRecorder()
			h.HandleVote().ServeHTTP(w, newRequest(t, http.MethodPost, "/api/v1/contests/vote", tt.body, testUserID, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)

			if w.Code < 300 {
				resp := decode[VoteResponse](t, w)
				assert.Equal(t, int64(5), resp.Tally.Total)
				assert.Equal(t, "alpha", resp.Tally.HandleA)

				hint, ok := hints.VotedFor(testSessionID, "alpha_vs_beta")
				assert.True(t, ok)
				assert.Equal(t, "beta", hint.Value)
				assert.True(t, hint.Advisory)
			}
		})
	}
}

func TestHandleGetTally(t *testing.T) {
	svc := &MockPredictionService{}
	svc.On("GetTally", mock.Anything, "alpha_vs_beta").
		Return(&domain.TallyRecord{ContestID: "alpha_vs_beta", CountA: 1, CountB: 0}, nil)
	svc.On("GetTally", mock.Anything, "nonsense").Return(nil, domain.ErrInvalidContest)

	h := NewContestHandlers(svc, nil)

	w := httptest.NewRecorder()
	h.HandleGetTally().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"contestID": "alpha_vs_beta"}))
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[TallyResponse](t, w)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "beta", resp.HandleB)

	w = httptest.NewRecorder()
	h.HandleGetTally().ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, "", map[string]string{"contestID": "nonsense"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetWager_NotVoted(t *testing.T) {
	svc := &MockPredictionService{}
	svc.On("GetWager", mock.Anything, testUserID, "alpha_vs_beta").Return(nil, domain.ErrWagerNotFound)

	w := httptest.NewRecorder()
	NewContestHandlers(svc, nil).HandleGetWager().
		ServeHTTP(w, newRequest(t, http.MethodGet, "/", nil, testUserID, map[string]string{"contestID": "alpha_vs_beta"}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgWagerNotFoundError)
}

func TestHandleSettle(t *testing.T) {
	svc := &MockPredictionService{}
	won := domain.Wager{UserID: testUserID, ContestID: "alpha_vs_beta", ChosenHandle: "beta", State: domain.WagerWon}
	svc.On("EvaluateWager", mock.Anything, testUserID, "alpha_vs_beta").
		Return(&domain.SettlementResult{Wager: won, Settled: true, Credited: 100}, nil)

	w := httptest.NewRecorder()
	NewContestHandlers(svc, nil).HandleSettle().
		ServeHTTP(w, newRequest(t, http.MethodPost, "/", nil, testUserID, map[string]string{"contestID": "alpha_vs_beta"}))

	assert.Equal(t, http.StatusOK, w.Code)
	res := decode[domain.SettlementResult](t, w)
	assert.True(t, res.Settled)
	assert.Equal(t, domain.WagerWon, res.Wager.State)
	assert.Equal(t, int64(100), res.Credited)
}

func TestHandleSettle_BannedUser(t *testing.T) {
	svc := &MockPredictionService{}
	svc.On("EvaluateWager", mock.Anything, testUserID, "alpha_vs_beta").
		Return(nil, fmt.Errorf("%w: until tomorrow", domain.ErrUserBanned))

	w := httptest.NewRecorder()
	NewContestHandlers(svc, nil).HandleSettle().
		ServeHTTP(w, newRequest(t, http.MethodPost, "/", nil, testUserID, map[string]string{"contestID": "alpha_vs_beta"}))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgUserBannedError)
}
