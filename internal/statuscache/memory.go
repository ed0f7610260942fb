package statuscache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ssbwatch/internal/domain"
)

// DefaultMemorySize bounds the in-memory store
const DefaultMemorySize = 512

type memoryEntry struct {
	status    domain.ChannelStatus
	expiresAt time.Time
}

// MemoryStore is the in-process Store used when no Redis is configured.
// The LRU enforces the longer offline TTL; live entries are checked against
// their own deadline on read.
type MemoryStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryStore creates a MemoryStore holding at most size handles
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, OfflineStatusTTL),
		now: time.Now,
	}
}

func (m *MemoryStore) Put(_ context.Context, status domain.ChannelStatus) error {
	handle := domain.NormalizeHandle(status.Handle)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(handle, memoryEntry{status: status, expiresAt: m.now().Add(TTLFor(status))})
	return nil
}

func (m *MemoryStore) Get(_ context.Context, handle string) (domain.ChannelStatus, bool, error) {
	handle = domain.NormalizeHandle(handle)
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Get(handle)
	if !ok {
		return domain.ChannelStatus{}, false, nil
	}
	if !m.now().Before(e.expiresAt) {
		m.lru.Remove(handle)
		return domain.ChannelStatus{}, false, nil
	}
	return e.status, true, nil
}

func (m *MemoryStore) List(_ context.Context) ([]domain.ChannelStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := []domain.ChannelStatus{}
	for _, e := range m.lru.Values() {
		if now.Before(e.expiresAt) {
			out = append(out, e.status)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, nil
}
