package channel

import "time"

// API versions tried in order within one attempt
const (
	APIVersionV2 = "v2"
	APIVersionV1 = "v1"
)

// DefaultAPIVersions is the endpoint order used when none is configured
var DefaultAPIVersions = []string{APIVersionV2, APIVersionV1}

// Retry defaults
const (
	DefaultMaxAttempts    = 3
	DefaultInitialBackoff = 500 * time.Millisecond
	DefaultHTTPTimeout    = 10 * time.Second
)

// MaxConcurrentFetches bounds the upstream requests one Statuses call makes at once
const MaxConcurrentFetches = 8

// Clip listing
const (
	ClipsKey = "clips"
	// ClipsMetricVersion labels clip fetches on the attempts counter
	ClipsMetricVersion = "v2_clips"
)

// Thumbnail template dimensions
const (
	ThumbnailWidth  = "1280"
	ThumbnailHeight = "720"
)

// Request headers the upstream expects from a browser-like client
const (
	HeaderUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	HeaderReferer   = "https://kick.com/"
	HeaderOrigin    = "https://kick.com"
)

// Metric label values
const (
	OutcomeSuccess   = "success"
	OutcomeHTTPError = "http_error"
	OutcomeMalformed = "malformed"
	OutcomeTransport = "transport"

	ResultLive     = "live"
	ResultOffline  = "offline"
	ResultDegraded = "degraded"
)

// Log messages
const (
	LogMsgFetchFailed     = "Channel fetch failed"
	LogMsgRetrying        = "Retrying channel fetch"
	LogMsgFallback        = "All channel fetch attempts failed, returning offline fallback"
	LogMsgFetchCancelled  = "Channel fetch cancelled"
	LogMsgCloseBodyFailed = "failed to close response body"
	LogMsgClipsFallback   = "Clip fetch failed, returning empty listing"
)
