package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Upstream Metrics
var (
	ChannelFetchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChannelFetchAttempts,
			Help: HelpTextChannelFetchAttempts,
		},
		[]string{LabelVersion, LabelOutcome},
	)

	ChannelStatusResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChannelStatusResults,
			Help: HelpTextChannelStatusResults,
		},
		[]string{LabelResult},
	)
)

// Business Metrics
var (
	VotesCast = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameVotesCast,
			Help: HelpTextVotesCast,
		},
	)

	WagersSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersSettled,
			Help: HelpTextWagersSettled,
		},
		[]string{LabelState},
	)

	CoinsCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCoinsCredited,
			Help: HelpTextCoinsCredited,
		},
		[]string{LabelReason},
	)

	ScheduledRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameScheduledRuns,
			Help: HelpTextScheduledRuns,
		},
		[]string{LabelTask, LabelOutcome},
	)

	PredictionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePredictionsStart,
			Help: HelpTextPredictionsStart,
		},
	)
)

// Stream Metrics
var (
	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameStreamClients,
			Help: HelpTextStreamClients,
		},
	)

	StreamEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStreamEventsDropped,
			Help: HelpTextStreamEventsDropped,
		},
		[]string{LabelType, LabelReason},
	)
)
