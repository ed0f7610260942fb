package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/user"
)

type MockPredictionService struct {
	mock.Mock
}

func (m *MockPredictionService) CastVote(ctx context.Context, userID string, req domain.VoteRequest) (*domain.VoteResult, error) {
	args := m.Called(ctx, userID, req)
	res, _ := args.Get(0).(*domain.VoteResult)
	return res, args.Error(1)
}

func (m *MockPredictionService) EvaluateWager(ctx context.Context, userID, contestID string) (*domain.SettlementResult, error) {
	args := m.Called(ctx, userID, contestID)
	res, _ := args.Get(0).(*domain.SettlementResult)
	return res, args.Error(1)
}

func (m *MockPredictionService) SettleContest(ctx context.Context, c domain.Contest, a, b domain.ChannelStatus) ([]domain.SettlementResult, error) {
	args := m.Called(ctx, c, a, b)
	res, _ := args.Get(0).([]domain.SettlementResult)
	return res, args.Error(1)
}

func (m *MockPredictionService) GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error) {
	args := m.Called(ctx, userID, contestID)
	res, _ := args.Get(0).(*domain.Wager)
	return res, args.Error(1)
}

func (m *MockPredictionService) GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error) {
	args := m.Called(ctx, contestID)
	res, _ := args.Get(0).(*domain.TallyRecord)
	return res, args.Error(1)
}

func (m *MockPredictionService) StartPrediction(ctx context.Context, req domain.StartPredictionRequest) (*domain.ActivePrediction, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*domain.ActivePrediction)
	return res, args.Error(1)
}

func (m *MockPredictionService) GetActivePrediction(ctx context.Context) (*domain.ActivePrediction, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*domain.ActivePrediction)
	return res, args.Error(1)
}

func (m *MockPredictionService) ListPendingContests(ctx context.Context) ([]domain.Contest, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.Contest)
	return res, args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) Authorize(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) Ban(ctx context.Context, userID string, d time.Duration, reason string) (*domain.User, error) {
	args := m.Called(ctx, userID, d, reason)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) Unban(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) (*domain.UserPage, error) {
	args := m.Called(ctx, limit, offset)
	res, _ := args.Get(0).(*domain.UserPage)
	return res, args.Error(1)
}

func (m *MockUserService) Verify(ctx context.Context, userID string, verified bool, badge string) (*domain.User, error) {
	args := m.Called(ctx, userID, verified, badge)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	args := m.Called(ctx, userID, role)
	res, _ := args.Get(0).(*domain.User)
	return res, args.Error(1)
}

func (m *MockUserService) CacheStats() user.CacheStats {
	return m.Called().Get(0).(user.CacheStats)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Credit(ctx context.Context, userID string, delta int64, reason string) (int64, error) {
	args := m.Called(ctx, userID, delta, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) Balance(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockChannelService struct {
	mock.Mock
}

func (m *MockChannelService) Status(ctx context.Context, handle string) domain.ChannelStatus {
	return m.Called(ctx, handle).Get(0).(domain.ChannelStatus)
}

func (m *MockChannelService) Statuses(ctx context.Context, handles ...string) []domain.ChannelStatus {
	return m.Called(ctx, handles).Get(0).([]domain.ChannelStatus)
}

func (m *MockChannelService) Clips(ctx context.Context, handle string) map[string]any {
	return m.Called(ctx, handle).Get(0).(map[string]any)
}
