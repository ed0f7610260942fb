package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/statuscache"
)

// Settler is the part of the prediction service the sweep drives
type Settler interface {
	ListPendingContests(ctx context.Context) ([]domain.Contest, error)
	SettleContest(ctx context.Context, contest domain.Contest, statusA, statusB domain.ChannelStatus) ([]domain.SettlementResult, error)
}

// SettlementSweepJob polls both sides of every contest with pending wagers
// and settles them from that single observation.
type SettlementSweepJob struct {
	settler Settler
	source  StatusSource
	store   statuscache.Store
}

// NewSettlementSweepJob creates the sweep job. store may be nil; when set it
// receives the statuses observed during the sweep.
func NewSettlementSweepJob(settler Settler, source StatusSource, store statuscache.Store) *SettlementSweepJob {
	return &SettlementSweepJob{settler: settler, source: source, store: store}
}

// Name implements the scheduler's task naming
func (j *SettlementSweepJob) Name() string { return TaskSettlementSweep }

func (j *SettlementSweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	contests, err := j.settler.ListPendingContests(ctx)
	if err != nil {
		return fmt.Errorf("listing pending contests: %w", err)
	}

	var (
		errs    []error
		settled int
	)
	for _, c := range contests {
		statuses := j.source.Statuses(ctx, c.HandleA, c.HandleB)
		if err := ctx.Err(); err != nil {
			log.Debug(LogMsgPollDiscarded, "task", TaskSettlementSweep, "contest_id", c.ID)
			return err
		}

		if j.store != nil {
			for _, s := range statuses {
				if err := j.store.Put(ctx, s); err != nil {
					log.Warn(LogMsgSnapshotWriteFailed, "handle", s.Handle, "error", err)
				}
			}
		}

		results, err := j.settler.SettleContest(ctx, c, statuses[0], statuses[1])
		if err != nil {
			log.Error(LogMsgSweepContestFailed, "contest_id", c.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", c.ID, err))
			continue
		}
		for _, r := range results {
			if r.Settled {
				settled++
			}
		}
	}

	log.Info(LogMsgSweepCompleted, "contests", len(contests), "settled", settled)
	return errors.Join(errs...)
}
