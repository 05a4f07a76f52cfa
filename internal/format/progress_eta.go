package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps the estimates so that a stalled task does not print absurd
// values.
const maxETA = 24 * time.Hour

// rateSmoothing is the weight of the newest sample in the exponential
// moving average of the progress rate.
const rateSmoothing = 0.3

// ProgressState tracks the progress of a fixed number of concurrent tasks.
type ProgressState struct {
	mu         sync.Mutex
	progresses []float64
	numTasks   int
}

// NewProgressState returns a state for numTasks tasks, all at 0.
func NewProgressState(numTasks int) *ProgressState {
	if numTasks < 0 {
		numTasks = 0
	}
	return &ProgressState{progresses: make([]float64, numTasks), numTasks: numTasks}
}

// Update records the progress of task index, clamped to [0, 1]. Out of
// range indices are ignored.
func (s *ProgressState) Update(index int, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateLocked(index, value)
}

func (s *ProgressState) updateLocked(index int, value float64) {
	if index < 0 || index >= s.numTasks {
		return
	}
	s.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean progress of all tasks.
func (s *ProgressState) CalculateAverage() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.averageLocked()
}

func (s *ProgressState) averageLocked() float64 {
	if s.numTasks == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.progresses {
		sum += p
	}
	return sum / float64(s.numTasks)
}

// ProgressWithETA extends ProgressState with a smoothed progress rate used
// to estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	numTasks     int
	progressRate float64 // fraction per second
	startTime    time.Time
	lastTime     time.Time
	lastProgress float64
}

// NewProgressWithETA returns a tracker for numTasks tasks starting now.
func NewProgressWithETA(numTasks int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState: NewProgressState(numTasks),
		numTasks:      numTasks,
		startTime:     now,
		lastTime:      now,
	}
}

// UpdateWithETA records an update and returns the new average progress and
// the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.mu.Lock()
	p.updateLocked(index, value)
	avg := p.averageLocked()
	p.mu.Unlock()

	now := time.Now()
	if dt := now.Sub(p.lastTime).Seconds(); dt > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / dt
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = rateSmoothing*rate + (1-rateSmoothing)*p.progressRate
		}
		p.lastTime = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated time remaining, or 0 when no rate is known
// yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	secs := remaining / p.progressRate
	if secs > maxETA.Seconds() {
		return maxETA
	}
	return time.Duration(secs * float64(time.Second))
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration { return time.Since(p.startTime) }

// FormatETA renders an estimate compactly: "45s", "2m30s", "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

// ProgressBar renders progress as a bar of the given length.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 1m5s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
