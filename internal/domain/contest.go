package domain

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ContestSeparator joins the two sorted handles of a contest id
const ContestSeparator = "_vs_"

// WagerState is the lifecycle state of a wager. The absence of a wager row is NO_WAGER.
type WagerState string

const (
	WagerPending WagerState = "PENDING"
	WagerWon     WagerState = "WON"
	WagerLost    WagerState = "LOST"
)

// IsTerminal reports whether no further transitions are allowed
func (s WagerState) IsTerminal() bool {
	return s == WagerWon || s == WagerLost
}

// NormalizeHandle trims and case-folds a broadcaster handle
func NormalizeHandle(handle string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(handle))
}

// Contest is a head-to-head pairing of two handles. HandleA sorts before HandleB.
type Contest struct {
	ID      string `json:"id"`
	HandleA string `json:"handle_a"`
	HandleB string `json:"handle_b"`
}

// NewContest builds the canonical contest for a pair of handles in either order
func NewContest(a, b string) (Contest, error) {
	a, b = NormalizeHandle(a), NormalizeHandle(b)
	if a == "" || b == "" || a == b {
		return Contest{}, fmt.Errorf("%w: need two distinct handles, got %q and %q", ErrInvalidContest, a, b)
	}
	if b < a {
		a, b = b, a
	}
	return Contest{ID: a + ContestSeparator + b, HandleA: a, HandleB: b}, nil
}

// ContestID returns the order-independent id for a pair of handles
func ContestID(a, b string) (string, error) {
	c, err := NewContest(a, b)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// ParseContestID splits a contest id back into its contest
func ParseContestID(id string) (Contest, error) {
	a, b, ok := strings.Cut(id, ContestSeparator)
	if !ok {
		return Contest{}, fmt.Errorf("%w: malformed id %q", ErrInvalidContest, id)
	}
	c, err := NewContest(a, b)
	if err != nil {
		return Contest{}, err
	}
	if c.ID != id {
		return Contest{}, fmt.Errorf("%w: non-canonical id %q", ErrInvalidContest, id)
	}
	return c, nil
}

// Has reports whether handle is one of the two participants
func (c Contest) Has(handle string) bool {
	h := NormalizeHandle(handle)
	return h == c.HandleA || h == c.HandleB
}

// Opponent returns the other participant. The handle must be part of the contest.
func (c Contest) Opponent(handle string) string {
	if NormalizeHandle(handle) == c.HandleA {
		return c.HandleB
	}
	return c.HandleA
}

// Wager is a single user's pick in a contest
type Wager struct {
	UserID       string     `json:"user_id"`
	ContestID    string     `json:"contest_id"`
	ChosenHandle string     `json:"chosen_handle"`
	State        WagerState `json:"state"`
	CreatedAt    time.Time  `json:"created_at"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
}

// TallyRecord holds the aggregate vote counts of a contest
type TallyRecord struct {
	ContestID string `json:"contest_id"`
	CountA    int64  `json:"count_a"`
	CountB    int64  `json:"count_b"`
}

// Total is always derived from the two sides
func (t TallyRecord) Total() int64 {
	return t.CountA + t.CountB
}

// VoteRequest is the body of a vote call
type VoteRequest struct {
	HandleA      string `json:"handle_a" validate:"required,handle"`
	HandleB      string `json:"handle_b" validate:"required,handle"`
	ChosenHandle string `json:"chosen_handle" validate:"required,handle"`
}

// VoteResult is returned from a vote call
type VoteResult struct {
	Wager   Wager       `json:"wager"`
	Tally   TallyRecord `json:"tally"`
	Created bool        `json:"created"`
}

// SettlementResult describes the outcome of evaluating one wager
type SettlementResult struct {
	Wager    Wager `json:"wager"`
	Settled  bool  `json:"settled"`
	Credited int64 `json:"credited"`
}
