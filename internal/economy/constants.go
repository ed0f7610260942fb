package economy

// Credit reasons, used as the metric label and the ledger.credited reason
const (
	ReasonParticipation = "participation"
	ReasonWinBonus      = "win_bonus"
	ReasonAward         = "award"
)

// ==================== Error Messages ====================

// Database operation error messages
const (
	ErrMsgGetUserFailed          = "failed to get user: %w"
	ErrMsgIncrementBalanceFailed = "failed to increment balance: %w"
	ErrMsgReadBalanceFailed      = "failed to read balance: %w"
)

// ==================== Log Messages ====================

const (
	LogMsgCreditRejectedBanned = "Credit rejected for banned user"
	LogMsgCreditApplied        = "Ledger credit applied"
	LogMsgPublishFailed        = "Failed to publish ledger event"
)
