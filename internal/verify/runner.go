package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/progress"
)

// ErrUnknownCheck is returned for check names that are not registered.
var ErrUnknownCheck = errors.New("verify: unknown check")

const tracerName = "github.com/agbru/kroncalc/internal/verify"

// ctxPollInterval is how many cases run between context checks.
const ctxPollInterval = 16

// Report summarizes one check over a corpus for one backend.
type Report struct {
	Check    string
	Backend  string
	Cases    int
	Skipped  int
	Failures int
	// First is the first mismatch, nil when the check passed.
	First    error
	Duration time.Duration
}

// Passed reports whether the check found no mismatch.
func (r Report) Passed() bool { return r.Failures == 0 }

// Err returns nil for a passing report and an apperrors.VerificationError
// wrapping the first mismatch otherwise.
func (r Report) Err() error {
	if r.Passed() {
		return nil
	}
	return apperrors.VerificationError{Check: r.Check, Backend: r.Backend, Cause: r.First}
}

// Options tunes Run.
type Options struct {
	// Checks selects the checks to run, in order. Empty means all.
	Checks []string
	// FailFast stops a check at its first mismatch.
	FailFast bool
	// Progress receives the completed fraction of the whole run.
	Progress progress.ProgressCallback
	Logger   zerolog.Logger
	// Tracer defaults to the global otel tracer provider.
	Tracer trace.Tracer
}

// Run executes the selected checks over cases. It returns the reports of
// every check that completed; when ctx is canceled it stops early and
// returns the context error alongside the partial reports.
func Run(ctx context.Context, env *Env, cases []Case, opts Options) ([]Report, error) {
	names := opts.Checks
	if len(names) == 0 {
		names = checkOrder
	}
	fns := make([]caseCheck, len(names))
	for i, name := range names {
		fn, ok := checkFuncs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, name)
		}
		fns[i] = fn
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	report := opts.Progress
	if report == nil {
		report = func(float64) {}
	}

	backend := env.Ops.Backend().Name()
	total := len(names) * len(cases)
	reports := make([]Report, 0, len(names))

	for ci, name := range names {
		_, span := tracer.Start(ctx, "verify."+name, trace.WithAttributes(
			attribute.String("kroncalc.backend", backend),
			attribute.String("kroncalc.oracle", env.Oracle.Name()),
			attribute.Int("kroncalc.cases", len(cases)),
		))
		r, err := runCheck(ctx, env, name, fns[ci], cases, opts.FailFast, func(done int) {
			report(progress.Fraction(ci*len(cases)+done, total))
		})
		r.Backend = backend

		span.SetAttributes(attribute.Int("kroncalc.failures", r.Failures), attribute.Int("kroncalc.skipped", r.Skipped))
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "canceled")
		case !r.Passed():
			span.SetStatus(codes.Error, r.First.Error())
		default:
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		if err != nil {
			return reports, err
		}
		reports = append(reports, r)

		ev := opts.Logger.Debug()
		if !r.Passed() {
			ev = opts.Logger.Warn().AnErr("first", r.First)
		}
		ev.Str("check", name).Str("backend", backend).
			Int("cases", r.Cases).Int("failures", r.Failures).
			Dur("duration", r.Duration).Msg("check finished")
	}
	report(1)
	return reports, nil
}

func runCheck(ctx context.Context, env *Env, name string, fn caseCheck, cases []Case, failFast bool, step func(int)) (Report, error) {
	r := Report{Check: name}
	start := time.Now()

	for i, c := range cases {
		if i%ctxPollInterval == 0 {
			if err := ctx.Err(); err != nil {
				r.Duration = time.Since(start)
				return r, err
			}
			step(i)
		}
		err := fn(env, c)
		switch {
		case errors.Is(err, errSkip):
			r.Skipped++
			continue
		case err != nil:
			r.Failures++
			if r.First == nil {
				r.First = err
			}
		}
		r.Cases++
		if failFast && r.Failures > 0 {
			break
		}
	}
	r.Duration = time.Since(start)
	return r, nil
}

// Failed returns the reports that found a mismatch.
func Failed(reports []Report) []Report {
	var out []Report
	for _, r := range reports {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}
