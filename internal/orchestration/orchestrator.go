package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/oracle"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/verify"
)

// ProgressBufferMultiplier sizes the progress channel per task. A larger
// buffer keeps slow UIs from dropping too many updates.
const ProgressBufferMultiplier = 5

const tracerName = "github.com/agbru/kroncalc/internal/orchestration"

// RunOptions configures ExecuteVerifications.
type RunOptions struct {
	// Oracle is the trusted implementation; nil selects math/big.
	Oracle oracle.Oracle
	// Checks restricts the run to the named checks. Empty means all.
	Checks []string
	// FailFast stops each check at its first mismatch.
	FailFast bool
	// Workers bounds the number of backends verified at once. Zero means
	// one goroutine per backend.
	Workers int
	Logger  zerolog.Logger
	Tracer  trace.Tracer
}

// ExecuteVerifications verifies every backend against the oracle on the
// same corpus, one goroutine per backend, and streams progress to the
// reporter. Results are returned in the order of backends.
//
// A failing backend never cancels the others: each result carries its own
// reports and error.
func ExecuteVerifications(ctx context.Context, backends []*kernel.Backend, cases []verify.Case, opts RunOptions, reporter ProgressReporter, out io.Writer) []VerificationResult {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	ctx, span := tracer.Start(ctx, "verify.run", trace.WithAttributes(
		attribute.Int("kroncalc.backends", len(backends)),
		attribute.Int("kroncalc.cases", len(cases)),
	))
	defer span.End()

	results := make([]VerificationResult, len(backends))
	progressChan := make(chan progress.ProgressUpdate, len(backends)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(backends), out)

	var g errgroup.Group
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, b := range backends {
		g.Go(func() error {
			start := time.Now()
			env := verify.NewEnv(mpint.NewOps(b), opts.Oracle)
			reports, err := verify.Run(ctx, env, cases, verify.Options{
				Checks:   opts.Checks,
				FailFast: opts.FailFast,
				Progress: progress.ChannelCallback(progressChan, i),
				Logger:   opts.Logger.With().Str("backend", b.Name()).Logger(),
				Tracer:   tracer,
			})
			results[i] = VerificationResult{
				Backend: b.Name(), Reports: reports, Duration: time.Since(start), Err: err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()
	return results
}

// AnalyzeVerificationResults presents the results and derives the exit
// code: success when every backend completed and agreed with the oracle,
// ExitErrorMismatch on any disagreement, and the error handler's code when
// no backend completed.
func AnalyzeVerificationResults(results []VerificationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstError error
	completed := 0
	var failed []VerificationResult
	for _, res := range results {
		if res.Err != nil {
			if firstError == nil {
				firstError = res.Err
			}
			continue
		}
		completed++
		if res.Failures() > 0 {
			failed = append(failed, res)
		}
	}

	presenter.PresentComparisonTable(results, out)

	if completed == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No backend could complete the verification.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	if len(failed) > 0 {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %d backend(s) disagree with the oracle.\n", len(failed))
		for _, res := range failed {
			presenter.PresentReports(res, opts, out)
			for _, rep := range verify.Failed(res.Reports) {
				errHandler.HandleError(rep.Err(), 0, out)
			}
		}
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All backends agree with the oracle.\n")
	if opts.Details {
		for _, res := range results {
			if res.Err == nil {
				presenter.PresentReports(res, opts, out)
			}
		}
	}
	if firstError != nil {
		fmt.Fprintf(out, "Note: %d backend(s) did not complete: %v\n", len(results)-completed, firstError)
	}
	return apperrors.ExitSuccess
}
