package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/ui"
)

const (
	// TruncationLimit is the length from which an operand is truncated in
	// standard output to avoid cluttering the terminal.
	TruncationLimit = 100
	// HexDisplayEdges specifies the number of hex characters to display at
	// the beginning and end of a truncated operand.
	HexDisplayEdges = 40
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner is an interface that abstracts the behavior of a terminal spinner,
// so that DisplayProgress can be tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

var newSpinner = func(options ...spinner.Option) Spinner {
	// Using the same interval as ProgressRefreshRate to synchronize
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner followed by the average progress of all
// tasks and an ETA, until progressChan is closed. It calls wg.Done on
// return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numTasks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	label := "Verifying"
	if agg.IsMultiTask() {
		label = fmt.Sprintf("Verifying %d backends", numTasks)
	}
	render := func(avg float64, eta time.Duration) {
		s.UpdateSuffix(fmt.Sprintf(" %s %s%s%s",
			label, ui.ColorCyan(), format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth), ui.ColorReset()))
	}
	render(0, 0)
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				render(1, 0)
				s.Stop()
				fmt.Fprintln(out)
				return
			}
			p := agg.Update(update)
			render(p.AverageProgress, p.ETA)
		case <-ticker.C:
			render(agg.CalculateAverage(), agg.GetETA())
		}
	}
}

// truncateHex shortens long hexadecimal strings to their edges.
func truncateHex(s string, verbose bool) string {
	if verbose || len(s) <= TruncationLimit {
		return s
	}
	return format.FormatHexDigest(s, HexDisplayEdges)
}

// ProgressLine returns a callback that redraws a single "label [bar] ETA"
// line on out, at most once per ProgressRefreshRate. The line is finished
// with a newline when the progress reaches 1.
func ProgressLine(out io.Writer, label string) progress.ProgressCallback {
	var mu sync.Mutex
	tracker := format.NewProgressWithETA(1)
	var last time.Time
	done := false
	return func(v float64) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return
		}
		avg, eta := tracker.UpdateWithETA(0, v)
		if avg < 1 && time.Since(last) < ProgressRefreshRate {
			return
		}
		last = time.Now()
		fmt.Fprintf(out, "\r%s %s%s%s", label, ui.ColorCyan(), format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth), ui.ColorReset())
		if avg >= 1 {
			done = true
			fmt.Fprintln(out)
		}
	}
}
