package config

import "time"

const (
	DefaultEnvironment = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultVersion     = "dev"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultWorkerCount = 4

	DefaultKickAPIBaseURL     = "https://kick.com/api"
	DefaultKickHTTPTimeout    = 10 * time.Second
	DefaultKickMaxAttempts    = 3
	DefaultKickInitialBackoff = 500 * time.Millisecond

	DefaultPollInterval = 60 * time.Second

	DefaultWinBonus           = 100
	DefaultParticipationBonus = 1
	DefaultPredictionDuration = 20 * time.Minute

	DefaultDeadLetterPath  = "logs/event_deadletter.jsonl"
	DefaultEventMaxRetries = 5
	DefaultEventRetryDelay = 2 * time.Second
)
