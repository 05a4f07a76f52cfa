package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/metrics"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/verify"
)

func sampleResults() []orchestration.VerificationResult {
	return []orchestration.VerificationResult{
		{
			Backend:  "unrolled",
			Duration: 2 * time.Millisecond,
			Reports: []verify.Report{
				{Check: verify.CheckOracleKronecker, Cases: 40},
				{Check: verify.CheckOracleSub, Cases: 40},
			},
		},
		{
			Backend:  "mathbig",
			Duration: 3 * time.Millisecond,
			Reports: []verify.Report{
				{Check: verify.CheckOracleKronecker, Cases: 40, Failures: 2,
					First: apperrors.MismatchError{Input: "kronecker(0x3, 0x5)", Got: "1", Want: "-1"}},
			},
		},
		{Backend: "reference", Err: context.Canceled},
	}
}

func TestPresentComparisonTable(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(sampleResults(), &buf)
	out := buf.String()

	assert.Contains(t, out, "Comparison Summary")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[2], "unrolled")
	assert.Contains(t, lines[2], "80")
	assert.Contains(t, lines[2], "Agrees")
	assert.Contains(t, lines[3], "2 mismatches")
	assert.Contains(t, lines[4], "Incomplete (context canceled)")
	assert.Contains(t, lines[4], "< 1µs")
	// Columns line up without colors.
	assert.Equal(t, strings.Index(lines[2], "80"), strings.Index(lines[3], "40"))
}

func TestPresentReports(t *testing.T) {
	useNoColor(t)
	res := sampleResults()[1]

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentReports(res, orchestration.PresentationOptions{CorpusSize: 40}, &buf)
	assert.Contains(t, buf.String(), "Backend mathbig (40 operand pairs)")
	assert.Contains(t, buf.String(), "✗ oracle-kronecker")
	assert.NotContains(t, buf.String(), "first:")

	buf.Reset()
	CLIResultPresenter{}.PresentReports(res, orchestration.PresentationOptions{Details: true}, &buf)
	assert.Contains(t, buf.String(), "first: kronecker(0x3, 0x5)")
}

func TestHandleError(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	code := CLIResultPresenter{}.HandleError(context.DeadlineExceeded, time.Second, &buf)
	assert.Equal(t, apperrors.ExitErrorTimeout, code)
	assert.Contains(t, buf.String(), "Timeout")

	buf.Reset()
	assert.Equal(t, apperrors.ExitErrorGeneric, CLIResultPresenter{}.HandleError(errors.New("boom"), 0, &buf))
	assert.Contains(t, buf.String(), "boom")
}

func TestAnalyzeWithCLIPresenter(t *testing.T) {
	useNoColor(t)
	var buf bytes.Buffer
	p := CLIResultPresenter{}
	code := orchestration.AnalyzeVerificationResults(sampleResults(), orchestration.PresentationOptions{}, p, p, &buf)
	assert.Equal(t, apperrors.ExitErrorMismatch, code)
	assert.Contains(t, buf.String(), "1 backend(s) disagree")
	assert.Contains(t, buf.String(), "Mismatch:")
}

func TestCLIProgressReporter(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	wg.Add(1)
	ch := make(chan progress.ProgressUpdate)
	close(ch)
	var buf bytes.Buffer
	CLIProgressReporter{}.DisplayProgress(&wg, ch, 0, &buf)
	wg.Wait()
	assert.Empty(t, buf.String())
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemoryUsage{Allocated: 3 << 20, PeakHeap: 1 << 30, GCs: 4, GCPause: 2500 * time.Microsecond}, &buf)
	out := buf.String()
	assert.Contains(t, out, "Peak heap:       1.0 GiB")
	assert.Contains(t, out, "Total allocated: 3.0 MiB")
	assert.Contains(t, out, "GC cycles:       4")
	assert.Contains(t, out, "2.50ms")
}
