package tui

import (
	"time"

	"github.com/agbru/kroncalc/internal/orchestration"
)

// ProgressMsg carries one progress update of a backend together with the
// aggregate across all backends.
type ProgressMsg struct {
	TaskIndex       int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent when the progress channel closes.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the per-backend results of a finished run.
type ComparisonResultsMsg struct {
	Results []orchestration.VerificationResult
}

// ReportsMsg carries the per-check breakdown of one backend.
type ReportsMsg struct {
	Result orchestration.VerificationResult
}

// ErrorMsg reports an error raised while analyzing results.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives the periodic sampling of runtime and system stats.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a system-wide CPU and memory sample, in percent.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// VerificationCompleteMsg is sent once the run and its analysis are over.
// Generation discards messages of runs replaced by a reset.
type VerificationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
