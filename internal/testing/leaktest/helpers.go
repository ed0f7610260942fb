// Package leaktest wraps goleak with the ignore rules shared by this module's tests.
package leaktest

import (
	"testing"

	"go.uber.org/goleak"
)

// backgroundOptions ignores long-lived goroutines owned by libraries, not by the code under test
func backgroundOptions() []goleak.Option {
	return []goleak.Option{
		// opencensus workers pulled in by testcontainers
		goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"),
		// net/http keep-alive connections left by httptest clients
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
	}
}

// GoroutineChecker snapshots the running goroutines and later reports new ones
type GoroutineChecker struct {
	ignore goleak.Option
	t      testing.TB
}

// NewGoroutineChecker records the goroutines already running
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()
	return &GoroutineChecker{ignore: goleak.IgnoreCurrent(), t: t}
}

// Check fails the test if goroutines started after the snapshot are still alive.
// goleak retries internally, so goroutines that are winding down get time to exit.
func (g *GoroutineChecker) Check(extra ...goleak.Option) {
	g.t.Helper()
	opts := append(backgroundOptions(), g.ignore)
	opts = append(opts, extra...)
	if err := goleak.Find(opts...); err != nil {
		g.t.Errorf("goroutine leak: %v", err)
	}
}

// CheckNoGoroutineLeak runs fn and verifies it left nothing running
func CheckNoGoroutineLeak(t testing.TB, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check()
}

// VerifyTestMain is the package-wide variant for TestMain
func VerifyTestMain(m *testing.M) {
	goleak.VerifyTestMain(m, backgroundOptions()...)
}
