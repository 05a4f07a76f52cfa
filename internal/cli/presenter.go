package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/metrics"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing runs.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTasks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler for the command line.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

func durationLabel(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// PresentComparisonTable displays one row per backend with its duration,
// case count and status. Uses manual padding to correctly handle ANSI
// color codes.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.VerificationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	maxNameLen := len("Backend")
	maxDurationLen := len("Duration")
	for _, res := range results {
		maxNameLen = max(maxNameLen, len(res.Backend))
		maxDurationLen = max(maxDurationLen, len([]rune(durationLabel(res.Duration))))
	}

	fmt.Fprintf(out, "%sBackend%s%s   %sDuration%s%s   %sCases%s      %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-len("Backend")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		switch {
		case res.Err != nil:
			status = fmt.Sprintf("%s❌ Incomplete (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		case res.Failures() > 0:
			status = fmt.Sprintf("%s❌ %d mismatches%s", ui.ColorRed(), res.Failures(), ui.ColorReset())
		default:
			status = fmt.Sprintf("%s✅ Agrees%s", ui.ColorGreen(), ui.ColorReset())
		}
		duration := durationLabel(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %-10s %s\n",
			ui.ColorBlue(), res.Backend, ui.ColorReset(), padRight("", maxNameLen-len(res.Backend)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len([]rune(duration))),
			format.FormatNumberString(fmt.Sprint(res.Cases())), status)
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentReports displays the per-check breakdown of one backend.
func (CLIResultPresenter) PresentReports(result orchestration.VerificationResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n%sBackend %s%s", ui.ColorBold(), result.Backend, ui.ColorReset())
	if opts.CorpusSize > 0 {
		fmt.Fprintf(out, " (%d operand pairs)", opts.CorpusSize)
	}
	fmt.Fprintln(out)
	for _, r := range result.Reports {
		mark := ui.ColorGreen() + "✓" + ui.ColorReset()
		if !r.Passed() {
			mark = ui.ColorRed() + "✗" + ui.ColorReset()
		}
		fmt.Fprintf(out, "  %s %-20s %6d cases %4d skipped %4d failed  %s\n",
			mark, r.Check, r.Cases, r.Skipped, r.Failures, durationLabel(r.Duration))
		if r.First != nil && (opts.Verbose || opts.Details) {
			fmt.Fprintf(out, "      %sfirst: %v%s\n", ui.ColorDim(), r.First, ui.ColorReset())
		}
	}
}

// HandleError prints err and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleVerificationError(err, duration, out)
}

// DisplayMemoryStats shows the memory used by a run.
func DisplayMemoryStats(u metrics.MemoryUsage, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(u.PeakHeap))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(u.Allocated))
	fmt.Fprintf(out, "  GC cycles:       %d\n", u.GCs)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(u.GCPause)/1e6)
}
