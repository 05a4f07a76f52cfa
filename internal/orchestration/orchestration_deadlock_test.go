package orchestration

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/verify"
)

// stalledReporter waits before draining, so that every task runs against a
// full progress channel.
type stalledReporter struct{ delay time.Duration }

func (s stalledReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	time.Sleep(s.delay)
	DrainChannel(progressChan)
}

func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("DEADLOCK: ExecuteVerifications did not complete within timeout")
	}
}

// TestOrchestrationNoDeadlock_Reporters verifies that ExecuteVerifications
// completes whatever the pace of the progress reporter.
func TestOrchestrationNoDeadlock_Reporters(t *testing.T) {
	cases := verify.NewCorpus(verify.QuickCorpus)
	backends := kernel.Builtins()

	testCases := []struct {
		name     string
		reporter ProgressReporter
		workers  int
	}{
		{"null", NullProgressReporter{}, 0},
		{"stalled", stalledReporter{delay: 50 * time.Millisecond}, 0},
		{"single_worker", NullProgressReporter{}, 1},
		{"func_adapter", ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
			defer wg.Done()
			for range ch {
			}
		}), 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runWithTimeout(t, 30*time.Second, func() {
				results := ExecuteVerifications(context.Background(), backends, cases,
					RunOptions{Workers: tc.workers, Checks: []string{verify.CheckOracleKronecker, verify.CheckRoundTrip}},
					tc.reporter, io.Discard)
				if len(results) != len(backends) {
					t.Errorf("got %d results, want %d", len(results), len(backends))
				}
			})
		})
	}
}

// TestOrchestrationNoDeadlock_ContextCancellation verifies that canceling
// the context mid-run does not deadlock and surfaces the context error.
func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cases := verify.NewCorpus(verify.DefaultCorpus)

	var results []VerificationResult
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	runWithTimeout(t, 30*time.Second, func() {
		results = ExecuteVerifications(ctx, kernel.Builtins(), cases, RunOptions{}, stalledReporter{}, io.Discard)
	})
	for _, r := range results {
		if r.Err == nil && len(r.Reports) == len(verify.Checks()) {
			continue // finished before the cancellation
		}
		if r.Err == nil {
			t.Errorf("%s: partial run without error", r.Backend)
		}
	}
}
