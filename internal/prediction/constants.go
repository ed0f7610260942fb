package prediction

// Default rewards
const (
	DefaultWinBonus           int64 = 100
	DefaultParticipationBonus int64 = 1
)

// Log messages
const (
	LogMsgVoteCast               = "Vote cast"
	LogMsgRepeatVote             = "Repeat vote ignored"
	LogMsgWagerSettled           = "Wager settled"
	LogMsgSettlementLost         = "Wager already settled by another run"
	LogMsgParticipationBonusFail = "Failed to credit participation bonus"
	LogMsgWinBonusFailed         = "Failed to credit win bonus"
	LogMsgPublishFailed          = "Failed to publish event"
	LogMsgPredictionStarted      = "Prediction started"
	LogMsgSettlementCancelled    = "Settlement cancelled, discarding observation"
	LogMsgSettlementSkipped      = "Wager left pending, user not authorized"
)

// Error message formats
const (
	ErrMsgBeginTxFailed      = "failed to begin vote transaction: %w"
	ErrMsgCommitFailed       = "failed to commit vote: %w"
	ErrMsgTransitionFailed   = "failed to transition wager: %w"
	ErrMsgListWagersFailed   = "failed to list pending wagers: %w"
	ErrMsgStorePredictionErr = "failed to store prediction: %w"
)
