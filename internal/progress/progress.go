// Package progress carries progress notifications from long-running tasks
// (verification checks, benchmark series) to the front ends.
package progress

// ProgressUpdate is one notification sent on a progress channel.
type ProgressUpdate struct {
	// TaskIndex identifies the sender among the concurrently running tasks.
	TaskIndex int
	// Value is the completed fraction, from 0 to 1.
	Value float64
}

// ProgressCallback receives the completed fraction of a single task.
type ProgressCallback func(value float64)

// minDelta is the smallest progress step forwarded by a throttled callback.
const minDelta = 0.01

// ChannelCallback returns a callback that forwards values for task index
// to ch. Sends never block: when the channel is full the update is dropped,
// since a later one supersedes it. Updates smaller than one percent are
// coalesced, except the final 1.0.
func ChannelCallback(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return func(float64) {}
	}
	last := -1.0
	return func(value float64) {
		if value < 1 && value-last < minDelta {
			return
		}
		select {
		case ch <- ProgressUpdate{TaskIndex: index, Value: value}:
			last = value
		default:
		}
	}
}

// Fraction returns done/total clamped to [0, 1]; a zero total counts as
// complete.
func Fraction(done, total int) float64 {
	if total <= 0 || done >= total {
		return 1
	}
	if done <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}
