package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/progress"
)

// programRef is a shared reference to the tea.Program. Bubbletea copies the
// model on every Update, so the bridge goroutines need a pointer that
// survives the copies.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It is a no-op before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter by turning
// progress updates into ProgressMsg.
type TUIProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan, sending one ProgressMsg per update
// and ProgressDoneMsg once it closes.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numTasks)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			TaskIndex:       update.TaskIndex,
			Value:           update.Value,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
		})
	}
	t.ref.Send(ProgressDoneMsg{})
}

// TUIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler by sending messages instead of writing.
type TUIResultPresenter struct {
	ref *programRef
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends the results to the dashboard.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.VerificationResult, _ io.Writer) {
	t.ref.Send(ComparisonResultsMsg{Results: results})
}

// PresentReports sends the per-check breakdown of one backend.
func (t *TUIResultPresenter) PresentReports(result orchestration.VerificationResult, _ orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(ReportsMsg{Result: result})
}

// HandleError sends err to the dashboard and returns its exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err != nil {
		t.ref.Send(ErrorMsg{Err: err, Duration: duration})
	}
	return apperrors.ExitCodeFor(err)
}
