package orchestration

import (
	"time"

	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/progress"
)

// ProgressAggregator merges the progress of several tasks. It wraps
// format.ProgressWithETA so that the CLI and the TUI share the same
// aggregation logic.
type ProgressAggregator struct {
	state    *format.ProgressWithETA
	numTasks int
}

// NewProgressAggregator returns nil if numTasks <= 0.
func NewProgressAggregator(numTasks int) *ProgressAggregator {
	if numTasks <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:    format.NewProgressWithETA(numTasks),
		numTasks: numTasks,
	}
}

// AggregatedProgress is the result of processing one update.
type AggregatedProgress struct {
	TaskIndex int
	// Value is the raw progress of the task (0.0 to 1.0).
	Value float64
	// AverageProgress is the mean across all tasks.
	AverageProgress float64
	// ETA is the estimated remaining time from the smoothed rate.
	ETA time.Duration
}

// Update processes one progress update.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.TaskIndex, update.Value)
	return AggregatedProgress{
		TaskIndex:       update.TaskIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating, for
// periodic refreshes between updates.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumTasks returns the number of tracked tasks.
func (a *ProgressAggregator) NumTasks() int {
	return a.numTasks
}

// IsMultiTask reports whether more than one task is tracked.
func (a *ProgressAggregator) IsMultiTask() bool {
	return a.numTasks > 1
}

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
