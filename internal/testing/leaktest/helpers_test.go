package leaktest

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	checker := NewGoroutineChecker(t)
	checker.Check()
}

func TestGoroutineChecker_IgnoresExplicitFunction(t *testing.T) {
	checker := NewGoroutineChecker(t)

	done := make(chan struct{})
	go parked(done)
	defer close(done)

	checker.Check(goleak.IgnoreTopFunction("github.com/osse101/ssbwatch/internal/testing/leaktest.parked"))
}

func TestCheckNoGoroutineLeak_Success(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
		}()
		wg.Wait()
	})
}

func parked(done chan struct{}) {
	<-done
}
