package prediction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/repository"
)

type wagerKey struct{ user, contest string }

// fakeContestRepo is an in-memory repository.Contest. Transactions are
// serialized and roll back to a snapshot taken at begin.
type fakeContestRepo struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	contests map[string]domain.Contest
	tallies  map[string]domain.TallyRecord
	wagers   map[wagerKey]domain.Wager
}

func newFakeContestRepo() *fakeContestRepo {
	return &fakeContestRepo{
		contests: make(map[string]domain.Contest),
		tallies:  make(map[string]domain.TallyRecord),
		wagers:   make(map[wagerKey]domain.Wager),
	}
}

func (r *fakeContestRepo) GetWager(_ context.Context, userID, contestID string) (*domain.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wagers[wagerKey{userID, contestID}]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrWagerNotFound, contestID)
	}
	return &w, nil
}

func (r *fakeContestRepo) GetTally(_ context.Context, contestID string) (*domain.TallyRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tallies[contestID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrContestNotFound, contestID)
	}
	return &t, nil
}

func (r *fakeContestRepo) TransitionWager(_ context.Context, userID, contestID string, to domain.WagerState, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := wagerKey{userID, contestID}
	w, ok := r.wagers[k]
	if !ok || w.State != domain.WagerPending {
		return 0, nil
	}
	w.State = to
	w.SettledAt = &at
	r.wagers[k] = w
	return 1, nil
}

func (r *fakeContestRepo) ListPendingContests(_ context.Context) ([]domain.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []domain.Contest{}
	for _, w := range r.wagers {
		if w.State == domain.WagerPending && !seen[w.ContestID] {
			seen[w.ContestID] = true
			out = append(out, r.contests[w.ContestID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeContestRepo) ListPendingWagers(_ context.Context, contestID string) ([]domain.Wager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Wager{}
	for _, w := range r.wagers {
		if w.ContestID == contestID && w.State == domain.WagerPending {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *fakeContestRepo) BeginContestTx(_ context.Context) (repository.ContestTx, error) {
	r.txMu.Lock()
	r.mu.Lock()
	snap := fakeSnapshot{
		contests: copyMap(r.contests),
		tallies:  copyMap(r.tallies),
		wagers:   copyMap(r.wagers),
	}
	r.mu.Unlock()
	return &fakeContestTx{repo: r, snap: snap}, nil
}

func (r *fakeContestRepo) pendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, w := range r.wagers {
		if w.State == domain.WagerPending {
			n++
		}
	}
	return n
}

type fakeSnapshot struct {
	contests map[string]domain.Contest
	tallies  map[string]domain.TallyRecord
	wagers   map[wagerKey]domain.Wager
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fakeContestTx struct {
	repo *fakeContestRepo
	snap fakeSnapshot
	done bool
}

func (t *fakeContestTx) Commit(_ context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.done = true
	t.repo.txMu.Unlock()
	return nil
}

func (t *fakeContestTx) Rollback(_ context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.done = true
	t.repo.mu.Lock()
	t.repo.contests, t.repo.tallies, t.repo.wagers = t.snap.contests, t.snap.tallies, t.snap.wagers
	t.repo.mu.Unlock()
	t.repo.txMu.Unlock()
	return nil
}

func (t *fakeContestTx) EnsureTally(_ context.Context, c domain.Contest) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	if _, ok := t.repo.tallies[c.ID]; !ok {
		t.repo.contests[c.ID] = c
		t.repo.tallies[c.ID] = domain.TallyRecord{ContestID: c.ID}
	}
	return nil
}

func (t *fakeContestTx) InsertWager(_ context.Context, w *domain.Wager) (bool, error) {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	k := wagerKey{w.UserID, w.ContestID}
	if _, ok := t.repo.wagers[k]; ok {
		return false, nil
	}
	w.State = domain.WagerPending
	w.CreatedAt = time.Now()
	t.repo.wagers[k] = *w
	return true, nil
}

func (t *fakeContestTx) IncrementTally(_ context.Context, c domain.Contest, chosen string) error {
	t.repo.mu.Lock()
	defer t.repo.mu.Unlock()
	tally, ok := t.repo.tallies[c.ID]
	if !ok {
		return domain.ErrContestNotFound
	}
	switch chosen {
	case c.HandleA:
		tally.CountA++
	case c.HandleB:
		tally.CountB++
	default:
		return domain.ErrInvalidChoice
	}
	t.repo.tallies[c.ID] = tally
	return nil
}

func (t *fakeContestTx) GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error) {
	return t.repo.GetWager(ctx, userID, contestID)
}

func (t *fakeContestTx) GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error) {
	return t.repo.GetTally(ctx, contestID)
}

type fakePredictionRepo struct {
	mu      sync.Mutex
	current *domain.ActivePrediction
}

func (r *fakePredictionRepo) ReplacePrediction(_ context.Context, p *domain.ActivePrediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	c := *p
	r.current = &c
	return nil
}

func (r *fakePredictionRepo) GetActivePrediction(_ context.Context) (*domain.ActivePrediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil, domain.ErrNoActivePrediction
	}
	c := *r.current
	return &c, nil
}

// fakeStatuses answers from a table of live handles
type fakeStatuses struct {
	mu    sync.Mutex
	live  map[string]bool
	calls int
	// onFetch runs before answering, e.g. to cancel the caller's context
	onFetch func()
}

func newFakeStatuses(live ...string) *fakeStatuses {
	f := &fakeStatuses{live: map[string]bool{}}
	for _, h := range live {
		f.live[h] = true
	}
	return f
}

func (f *fakeStatuses) set(handle string, live bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[handle] = live
}

func (f *fakeStatuses) Statuses(_ context.Context, handles ...string) []domain.ChannelStatus {
	if f.onFetch != nil {
		f.onFetch()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]domain.ChannelStatus, len(handles))
	for i, h := range handles {
		out[i] = domain.ChannelStatus{Handle: h, DisplayName: h, IsLive: f.live[h], AvatarURL: domain.PlaceholderAvatar(h)}
	}
	return out
}

type credit struct {
	userID string
	delta  int64
	reason string
}

// fakeLedger records credits
type fakeLedger struct {
	mu      sync.Mutex
	credits []credit
	err     error
}

func (l *fakeLedger) Credit(_ context.Context, userID string, delta int64, reason string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return 0, l.err
	}
	l.credits = append(l.credits, credit{userID, delta, reason})
	return l.total(userID), nil
}

func (l *fakeLedger) total(userID string) int64 {
	var sum int64
	for _, c := range l.credits {
		if c.userID == userID {
			sum += c.delta
		}
	}
	return sum
}

func (l *fakeLedger) creditsFor(userID, reason string) []credit {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []credit
	for _, c := range l.credits {
		if c.userID == userID && c.reason == reason {
			out = append(out, c)
		}
	}
	return out
}

// fakeAuthorizer knows a fixed set of users
type fakeAuthorizer struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (a *fakeAuthorizer) Authorize(_ context.Context, userID string) (*domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.IsBanned(time.Now()) {
		return nil, domain.ErrUserBanned
	}
	c := *u
	return &c, nil
}

func (a *fakeAuthorizer) ban(userID string, until time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[userID].BannedUntil = &until
}

func (a *fakeAuthorizer) unban(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[userID].BannedUntil = nil
}
