package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeForeignKeyViolation is raised when a wager references a missing user
	PgErrorCodeForeignKeyViolation = "23503"
)

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - User Operations
const (
	ErrMsgInvalidUserID              = "invalid user id"
	ErrMsgFailedToInsertUser         = "failed to insert user"
	ErrMsgFailedToGetUser            = "failed to get user"
	ErrMsgFailedToGetUserByUsername  = "failed to get user by username"
	ErrMsgFailedToUpdateBan          = "failed to update ban"
	ErrMsgFailedToListUsers          = "failed to list users"
	ErrMsgFailedToUpdateVerification = "failed to update verification"
	ErrMsgFailedToUpdateRole         = "failed to update role"
)

// Error Messages - Ledger Operations
const (
	ErrMsgFailedToIncrementBalance = "failed to increment balance"
	ErrMsgFailedToGetBalance       = "failed to get balance"
)

// Error Messages - Contest Operations
const (
	ErrMsgFailedToEnsureTally      = "failed to ensure tally"
	ErrMsgFailedToIncrementTally   = "failed to increment tally"
	ErrMsgFailedToGetTally         = "failed to get tally"
	ErrMsgFailedToInsertWager      = "failed to insert wager"
	ErrMsgFailedToGetWager         = "failed to get wager"
	ErrMsgFailedToTransitionWager  = "failed to transition wager"
	ErrMsgFailedToListContests     = "failed to list pending contests"
	ErrMsgFailedToListWagers       = "failed to list pending wagers"
	ErrMsgFailedToScanRow          = "failed to scan row"
	ErrMsgFailedToClearPredictions = "failed to clear predictions"
	ErrMsgFailedToInsertPrediction = "failed to insert prediction"
	ErrMsgFailedToGetPrediction    = "failed to get prediction"
)
