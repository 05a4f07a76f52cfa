package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/kroncalc/internal/bench"
	"github.com/agbru/kroncalc/internal/cli"
	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/logging"
	"github.com/agbru/kroncalc/internal/metrics"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/primality"
	"github.com/agbru/kroncalc/internal/server"
	"github.com/agbru/kroncalc/internal/sysmon"
	"github.com/agbru/kroncalc/internal/tui"
	"github.com/agbru/kroncalc/internal/verify"
)

func (a *Application) corpus() []verify.Case {
	return verify.NewCorpus(verify.CorpusConfig{
		Seed:    a.Config.Seed,
		Lengths: a.Config.Lengths,
		Step:    a.Config.Step,
		Offset:  a.Config.Offset,
	})
}

// runVerify cross-checks the selected backends against the oracle.
func (a *Application) runVerify(ctx context.Context, out io.Writer) int {
	backends, err := orchestration.GetBackendsToRun(a.Config.Backend, a.Registry)
	if err != nil {
		return a.fail(apperrors.NewConfigError("%v", err))
	}
	o, err := a.oracle()
	if err != nil {
		return a.fail(err)
	}
	cases := a.corpus()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, len(cases), out)
		cli.PrintHostHeader(sysmon.DescribeHost(ctx), out)
		cli.PrintExecutionMode(backends, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	mc := metrics.NewMemoryCollector()
	before := mc.Snapshot()
	results := orchestration.ExecuteVerifications(ctx, backends, cases, orchestration.RunOptions{
		Oracle:   o,
		Checks:   a.Config.CheckList(),
		FailFast: a.Config.FailFast,
		Workers:  a.Config.Workers,
		Logger:   a.logger,
	}, reporter, progressOut)

	presenter := cli.CLIResultPresenter{}
	code := orchestration.AnalyzeVerificationResults(results, orchestration.PresentationOptions{
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
		CorpusSize: len(cases),
	}, presenter, presenter, out)

	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(mc.Since(before), out)
	}
	return code
}

// runTUI launches the interactive dashboard on the verification run.
func (a *Application) runTUI(ctx context.Context) int {
	backends, err := orchestration.GetBackendsToRun(a.Config.Backend, a.Registry)
	if err != nil {
		return a.fail(apperrors.NewConfigError("%v", err))
	}
	o, err := a.oracle()
	if err != nil {
		return a.fail(err)
	}
	return tui.Run(ctx, tui.Session{
		Backends: backends,
		Cases:    a.corpus(),
		Oracle:   o,
		Config:   a.Config,
		Version:  Version,
		Logger:   a.logger,
	})
}

// runBench times the kernels and the symbol and writes the series in the
// configured format. Progress goes to the error writer so that stdout
// stays parseable.
func (a *Application) runBench(ctx context.Context, out io.Writer) int {
	backends, err := orchestration.GetBackendsToRun(a.Config.Backend, a.Registry)
	if err != nil {
		return a.fail(apperrors.NewConfigError("%v", err))
	}
	o, err := a.oracle()
	if err != nil {
		return a.fail(err)
	}
	m, err := bench.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return a.fail(err)
	}

	opts := []bench.Option{bench.WithLogger(a.logger), bench.WithMetrics(m)}
	if !a.Config.Quiet {
		opts = append(opts, bench.WithProgress(cli.ProgressLine(a.ErrWriter, "Benchmarking")))
	}
	series, err := bench.NewRunner(backends, o, bench.Config{
		Seed:    a.Config.Seed,
		Lengths: a.Config.Lengths,
		Step:    a.Config.Step,
		Offset:  a.Config.Offset,
		Loops:   a.Config.Loops,
	}, opts...).Run(ctx)
	if err != nil {
		return a.fail(err)
	}

	w := out
	if a.Config.OutputFile != "" {
		f, err := os.Create(a.Config.OutputFile)
		if err != nil {
			return a.fail(err)
		}
		defer f.Close()
		w = f
	}
	if err := bench.Write(w, a.Config.BenchFormat, series); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runPrime runs the Solovay-Strassen test on the configured candidate.
func (a *Application) runPrime(ctx context.Context, out io.Writer) int {
	b, err := a.backend()
	if err != nil {
		return a.fail(err)
	}
	n, err := mpint.ParseOperand(a.Config.Prime)
	if err != nil {
		return a.fail(apperrors.NewConfigError("--prime: %v", err))
	}
	tester := primality.New(kronecker.New(mpint.NewOps(b)), a.Config.Seed)
	start := time.Now()
	res, err := tester.Test(ctx, n.Big(), a.Config.PrimeRounds)
	if err != nil {
		return apperrors.HandleVerificationError(err, time.Since(start), a.ErrWriter)
	}
	cli.DisplayPrime(out, n, res, time.Since(start), a.Config.Quiet)
	return apperrors.ExitSuccess
}

// runSymbol evaluates the Kronecker symbol of the two operands.
func (a *Application) runSymbol(out io.Writer) int {
	b, err := a.backend()
	if err != nil {
		return a.fail(err)
	}
	x, err := mpint.ParseOperand(a.Config.X)
	if err != nil {
		return a.fail(apperrors.NewConfigError("x: %v", err))
	}
	y, err := mpint.ParseOperand(a.Config.Y)
	if err != nil {
		return a.fail(apperrors.NewConfigError("y: %v", err))
	}

	engine := kronecker.New(mpint.NewOps(b))
	start := time.Now()
	s := engine.Symbol(x, y)
	d := time.Since(start)
	a.logger.Debug().Str("backend", b.Name()).Int("symbol", s).Dur("duration", d).Msg("symbol computed")

	err = cli.DisplaySymbolWithConfig(out, cli.SymbolResult{
		X: x, Y: y, Backend: b.Name(), Symbol: s, Duration: d,
	}, cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	})
	if err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runServer serves the HTTP API until ctx is canceled.
func (a *Application) runServer(ctx context.Context) int {
	backend := a.Config.Backend
	if backend == "all" {
		backend = "auto"
	}
	sec := server.DefaultSecurityConfig()
	sec.MaxOperandBits = a.Config.MaxBits
	srv, err := server.New(server.Config{
		Addr:     a.Config.Addr,
		Backend:  backend,
		Security: sec,
	}, a.Registry, logging.NewZerologAdapter(a.logger))
	if err != nil {
		return a.fail(apperrors.NewConfigError("%v", err))
	}
	if err := srv.Start(ctx); err != nil {
		return a.fail(err)
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive session on stdin.
func (a *Application) runREPL(out io.Writer) int {
	r := cli.NewREPL(a.Registry, cli.REPLConfig{
		Backend:     a.Config.Backend,
		Timeout:     a.Config.Timeout,
		PrimeRounds: a.Config.PrimeRounds,
		Verbose:     a.Config.Verbose,
	})
	r.SetOutput(out)
	r.Start()
	return apperrors.ExitSuccess
}
