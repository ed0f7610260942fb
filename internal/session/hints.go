package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Hint store sizing
const (
	DefaultHintSessions = 10000
	DefaultHintTTL      = 24 * time.Hour
)

type sessionHints struct {
	mu        sync.Mutex
	votes     map[string]domain.ClientHint[string]
	dismissed map[string]domain.ClientHint[bool]
}

// HintStore remembers which contest a session voted in and which
// predictions it dismissed. Values are advisory: the vote and settlement
// paths never read them.
type HintStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *sessionHints]
	now func() time.Time
}

// NewHintStore creates a store holding at most size sessions for ttl each
func NewHintStore(size int, ttl time.Duration) *HintStore {
	if size <= 0 {
		size = DefaultHintSessions
	}
	if ttl <= 0 {
		ttl = DefaultHintTTL
	}
	return &HintStore{
		lru: expirable.NewLRU[string, *sessionHints](size, nil, ttl),
		now: time.Now,
	}
}

func (s *HintStore) hints(sessionID string, create bool) *sessionHints {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.lru.Get(sessionID); ok {
		return h
	}
	if !create {
		return nil
	}
	h := &sessionHints{
		votes:     make(map[string]domain.ClientHint[string]),
		dismissed: make(map[string]domain.ClientHint[bool]),
	}
	s.lru.Add(sessionID, h)
	return h
}

// RecordVote remembers the handle a session picked in a contest
func (s *HintStore) RecordVote(sessionID, contestID, handle string) {
	if sessionID == "" {
		return
	}
	h := s.hints(sessionID, true)
	h.mu.Lock()
	h.votes[contestID] = domain.NewClientHint(handle, s.now())
	h.mu.Unlock()
}

// VotedFor returns the hint recorded by RecordVote
func (s *HintStore) VotedFor(sessionID, contestID string) (domain.ClientHint[string], bool) {
	h := s.hints(sessionID, false)
	if h == nil {
		return domain.ClientHint[string]{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.votes[contestID]
	return v, ok
}

// Dismiss remembers that a session closed a prediction prompt
func (s *HintStore) Dismiss(sessionID, predictionID string) {
	if sessionID == "" {
		return
	}
	h := s.hints(sessionID, true)
	h.mu.Lock()
	h.dismissed[predictionID] = domain.NewClientHint(true, s.now())
	h.mu.Unlock()
}

// IsDismissed reports whether Dismiss was called for the prediction
func (s *HintStore) IsDismissed(sessionID, predictionID string) bool {
	h := s.hints(sessionID, false)
	if h == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dismissed[predictionID].Value
}

// Forget drops every hint of a session, like clearing local storage
func (s *HintStore) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(sessionID)
}
