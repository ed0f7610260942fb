package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound  = "user not found"
	ErrMsgUserBanned    = "user is banned"
	ErrMsgUnauthorized  = "unauthorized"
	ErrMsgUsernameTaken = "username already taken"

	// Contest errors
	ErrMsgContestNotFound = "contest not found"
	ErrMsgInvalidContest  = "invalid contest"
	ErrMsgInvalidChoice   = "chosen handle is not part of the contest"
	ErrMsgWagerNotFound   = "wager not found"

	// Prediction errors
	ErrMsgNoActivePrediction = "no active prediction"

	// Ledger errors
	ErrMsgInsufficientFunds = "insufficient funds"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// User errors
	ErrUserNotFound  = errors.New(ErrMsgUserNotFound)
	ErrUserBanned    = errors.New(ErrMsgUserBanned)
	ErrUnauthorized  = errors.New(ErrMsgUnauthorized)
	ErrUsernameTaken = errors.New(ErrMsgUsernameTaken)

	// Contest errors
	ErrContestNotFound = errors.New(ErrMsgContestNotFound)
	ErrInvalidContest  = errors.New(ErrMsgInvalidContest)
	ErrInvalidChoice   = errors.New(ErrMsgInvalidChoice)
	ErrWagerNotFound   = errors.New(ErrMsgWagerNotFound)

	// Prediction errors
	ErrNoActivePrediction = errors.New(ErrMsgNoActivePrediction)

	// Ledger errors
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
