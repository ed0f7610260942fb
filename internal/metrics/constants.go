package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Upstream metric names
const (
	MetricNameChannelFetchAttempts = "channel_fetch_attempts_total"
	MetricNameChannelStatusResults = "channel_status_results_total"
)

// Business metric names
const (
	MetricNameVotesCast        = "votes_cast_total"
	MetricNameWagersSettled    = "wagers_settled_total"
	MetricNameCoinsCredited    = "coins_credited_total"
	MetricNameScheduledRuns    = "scheduled_task_runs_total"
	MetricNamePredictionsStart = "predictions_started_total"
)

// Stream metric names
const (
	MetricNameStreamClients       = "sse_clients"
	MetricNameStreamEventsDropped = "sse_events_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Upstream metric help text
const (
	HelpTextChannelFetchAttempts = "Upstream channel fetches by endpoint version and outcome"
	HelpTextChannelStatusResults = "Channel statuses produced by result"
)

// Business metric help text
const (
	HelpTextVotesCast        = "Total number of first-time votes"
	HelpTextWagersSettled    = "Total number of wagers moved to a terminal state"
	HelpTextCoinsCredited    = "Total coins added to balances"
	HelpTextScheduledRuns    = "Scheduled task runs by task and outcome"
	HelpTextPredictionsStart = "Total number of featured predictions started"
)

// Stream metric help text
const (
	HelpTextStreamClients       = "Connected event stream clients"
	HelpTextStreamEventsDropped = "Stream events not delivered, by type and reason"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelVersion = "version"
	LabelOutcome = "outcome"
	LabelResult  = "result"
	LabelState   = "state"
	LabelReason  = "reason"
	LabelTask    = "task"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
