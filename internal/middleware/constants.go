package middleware

// Request headers set by the fan-site session layer
const (
	HeaderSessionID = "X-Session-ID"
	HeaderUserID    = "X-User-ID"
)

// Default Values
const (
	// EmptyUserID represents an empty or missing user ID
	EmptyUserID = ""
)

// Response bodies
const (
	ErrMsgSignInRequired = `{"error":"sign in required"}`
)

// Log Messages
const (
	LogMsgSessionIssued = "Issued new session id"
)
