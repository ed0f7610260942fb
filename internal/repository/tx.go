package repository

import (
	"context"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
)

// LogMsgRollbackFailed is logged when a deferred rollback fails
const LogMsgRollbackFailed = "Failed to rollback transaction"

// Tx is the commit/rollback surface shared by repository transactions
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SafeRollback rolls back tx and ignores the error a committed tx returns.
// Meant to be deferred right after Begin.
func SafeRollback(ctx context.Context, tx Tx) {
	err := tx.Rollback(ctx)
	if err == nil || err.Error() == domain.ErrMsgTxClosed {
		return
	}
	logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
}
