package worker

import "errors"

// Task names, used as log fields and metric labels
const (
	TaskStatusPoll      = "status_poll"
	TaskSettlementSweep = "settlement_sweep"
)

// ErrPoolStopped is returned by Submit after Stop
var ErrPoolStopped = errors.New("worker pool stopped")

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// LogMsgWorkerJobFailed is logged when a worker fails to process a job
const LogMsgWorkerJobFailed = "Worker job failed"

// LogMsgWorkerJobSkipped is logged when a queued job's context was cancelled before it ran
const LogMsgWorkerJobSkipped = "Skipping cancelled job"

// ============================================================================
// Log Messages - Jobs
// ============================================================================

const (
	LogMsgChannelTransition    = "Channel transition observed"
	LogMsgSnapshotWriteFailed  = "Failed to store channel snapshot"
	LogMsgSnapshotReadFailed   = "Failed to read channel snapshot"
	LogMsgTransitionPublishErr = "Failed to publish channel transition"
	LogMsgPollDiscarded        = "Poll cancelled, discarding results"
	LogMsgSweepCompleted       = "Settlement sweep completed"
	LogMsgSweepContestFailed   = "Failed to settle contest"
)
