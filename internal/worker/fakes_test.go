package worker

import (
	"context"
	"sync"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
)

// fakeSource returns whatever live map says, optionally cancelling mid-poll
type fakeSource struct {
	mu      sync.Mutex
	live    map[string]bool
	onFetch func()
	calls   [][]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{live: make(map[string]bool)}
}

func (f *fakeSource) set(handle string, live bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[handle] = live
}

func (f *fakeSource) Statuses(_ context.Context, handles ...string) []domain.ChannelStatus {
	f.mu.Lock()
	f.calls = append(f.calls, handles)
	hook := f.onFetch
	out := make([]domain.ChannelStatus, len(handles))
	for i, h := range handles {
		out[i] = domain.ChannelStatus{Handle: h, DisplayName: h, IsLive: f.live[h]}
	}
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out
}

// recordingBus captures published events
type recordingBus struct {
	mu     sync.Mutex
	events []event.Event
}

func (b *recordingBus) Publish(_ context.Context, evt event.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

func (b *recordingBus) Subscribe(event.Type, event.Handler) {}

func (b *recordingBus) types() []event.Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]event.Type, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeSettler records the statuses each contest was settled with
type fakeSettler struct {
	mu       sync.Mutex
	contests []domain.Contest
	listErr  error
	failFor  map[string]error
	settled  map[string][2]domain.ChannelStatus
}

func newFakeSettler(contests ...domain.Contest) *fakeSettler {
	return &fakeSettler{
		contests: contests,
		failFor:  make(map[string]error),
		settled:  make(map[string][2]domain.ChannelStatus),
	}
}

func (s *fakeSettler) ListPendingContests(context.Context) ([]domain.Contest, error) {
	return s.contests, s.listErr
}

func (s *fakeSettler) SettleContest(_ context.Context, c domain.Contest, a, b domain.ChannelStatus) ([]domain.SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failFor[c.ID]; err != nil {
		return nil, err
	}
	s.settled[c.ID] = [2]domain.ChannelStatus{a, b}
	settled := !a.IsLive || !b.IsLive
	return []domain.SettlementResult{{Settled: settled}}, nil
}
