// Package statuscache keeps the latest polled ChannelStatus per handle.
// Every Put replaces the previous snapshot wholesale.
package statuscache

import (
	"context"
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Snapshot TTLs. Offline snapshots live longer since they change less often.
const (
	LiveStatusTTL    = 2 * time.Hour
	OfflineStatusTTL = 6 * time.Hour
)

// Store holds the latest status per handle
type Store interface {
	Put(ctx context.Context, status domain.ChannelStatus) error
	// Get reports found=false when no unexpired snapshot exists
	Get(ctx context.Context, handle string) (domain.ChannelStatus, bool, error)
	// List returns every unexpired snapshot ordered by handle
	List(ctx context.Context) ([]domain.ChannelStatus, error)
}

// TTLFor picks the retention for a snapshot
func TTLFor(status domain.ChannelStatus) time.Duration {
	if status.IsLive {
		return LiveStatusTTL
	}
	return OfflineStatusTTL
}
