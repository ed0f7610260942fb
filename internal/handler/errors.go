package handler

import "time"

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
	ErrMsgTooManyHandlesText    = "Too many handles in one request"
	ErrMsgInvalidHandle         = "Invalid channel handle"
)

// Success messages for API responses
const (
	MsgPredictionDismissed = "Prediction dismissed"
	MsgUserUnbanned        = "User unbanned"
)

// MaxHandlesPerRequest bounds GET /channels?handles=
const MaxHandlesPerRequest = 20

// DefaultSnapshotMaxAge is how old a stored snapshot may be before the list
// view polls again. It matches the default status poll cadence.
const DefaultSnapshotMaxAge = 60 * time.Second

// Log messages
const (
	LogMsgServiceError     = "Service call failed"
	LogMsgVoteRequest      = "Vote request"
	LogMsgSnapshotFallback = "No fresh snapshot, fetching live status"
	LogMsgSnapshotStoreErr = "Failed to store fetched snapshot"
)
