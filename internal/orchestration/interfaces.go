package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/verify"
)

// VerificationResult is the outcome of every selected check for one
// backend. It is the shared domain type between orchestration and
// presentation.
type VerificationResult struct {
	// Backend is the name of the kernel backend under test.
	Backend string
	// Reports holds one entry per completed check.
	Reports []verify.Report
	// Duration is the wall time of the whole run for this backend.
	Duration time.Duration
	// Err is set when the run itself could not complete (cancellation,
	// unknown check). Check mismatches are carried by Reports.
	Err error
}

// Failures returns the number of failed cases across all reports.
func (r VerificationResult) Failures() int {
	n := 0
	for _, rep := range r.Reports {
		n += rep.Failures
	}
	return n
}

// Cases returns the number of evaluated cases across all reports.
func (r VerificationResult) Cases() int {
	n := 0
	for _, rep := range r.Reports {
		n += rep.Cases
	}
	return n
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Details bool
	// CorpusSize is the number of operand pairs each check ran over.
	CorpusSize int
}

// ProgressReporter displays progress for a set of concurrent tasks.
//
// DisplayProgress runs in its own goroutine until progressChan is closed,
// then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer) {
	f(wg, progressChan, numTasks, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders verification results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per backend.
	PresentComparisonTable(results []VerificationResult, out io.Writer)
	// PresentReports displays the per-check breakdown of one backend.
	PresentReports(result VerificationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler maps errors to messages and exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
