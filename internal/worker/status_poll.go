package worker

import (
	"context"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/statuscache"
)

// StatusSource polls several handles at once, keeping input order
type StatusSource interface {
	Statuses(ctx context.Context, handles ...string) []domain.ChannelStatus
}

// StatusPollJob refreshes the snapshots of the featured handles and
// announces went-live / went-offline transitions.
type StatusPollJob struct {
	handles []string
	source  StatusSource
	store   statuscache.Store
	bus     event.Bus
}

// NewStatusPollJob creates the poll job. bus may be nil.
func NewStatusPollJob(handles []string, source StatusSource, store statuscache.Store, bus event.Bus) *StatusPollJob {
	return &StatusPollJob{handles: handles, source: source, store: store, bus: bus}
}

// Name implements the scheduler's task naming
func (j *StatusPollJob) Name() string { return TaskStatusPoll }

// Process polls once. A cancelled poll writes nothing.
func (j *StatusPollJob) Process(ctx context.Context) error {
	if len(j.handles) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	statuses := j.source.Statuses(ctx, j.handles...)
	if err := ctx.Err(); err != nil {
		log.Debug(LogMsgPollDiscarded, "task", TaskStatusPoll)
		return err
	}

	for _, status := range statuses {
		prev, known, err := j.store.Get(ctx, status.Handle)
		if err != nil {
			log.Warn(LogMsgSnapshotReadFailed, "handle", status.Handle, "error", err)
		}
		if err := j.store.Put(ctx, status); err != nil {
			log.Warn(LogMsgSnapshotWriteFailed, "handle", status.Handle, "error", err)
			continue
		}

		if !known || prev.IsLive == status.IsLive || j.bus == nil {
			continue
		}
		log.Info(LogMsgChannelTransition, "handle", status.Handle, "live", status.IsLive, "degraded", status.Degraded)
		if err := j.bus.Publish(ctx, event.NewChannelTransitionEvent(status)); err != nil {
			log.Warn(LogMsgTransitionPublishErr, "handle", status.Handle, "error", err)
		}
	}
	return nil
}
