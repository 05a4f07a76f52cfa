// Package calibration measures the kernel backends on the current machine
// and remembers the fastest one for the Kronecker symbol.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/kroncalc/internal/bench"
	"github.com/agbru/kroncalc/internal/config"
	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/progress"
	"github.com/agbru/kroncalc/internal/ui"
)

// calibrationResult is the measurement of one backend.
type calibrationResult struct {
	Backend string
	// MeanNs is the mean Kronecker time over the sampled lengths.
	MeanNs   float64
	Duration time.Duration
	Err      error
}

// Options tunes RunCalibration.
type Options struct {
	// ProfilePath defaults to GetDefaultProfilePath.
	ProfilePath string
	// Bench defaults to FullBenchConfig.
	Bench    bench.Config
	Progress progress.ProgressCallback
	Logger   zerolog.Logger
}

// calibrate benchmarks each backend on the Kronecker series. Backends that
// fail a quick equivalence check are reported with an error and never
// chosen. It returns the results in input order and the fastest backend
// name, empty when none completed.
func calibrate(ctx context.Context, backends []*kernel.Backend, cfg bench.Config, report progress.ProgressCallback) ([]calibrationResult, string) {
	if report == nil {
		report = func(float64) {}
	}
	cfg.Ops = []string{bench.OpKronecker}
	results := make([]calibrationResult, len(backends))
	best, bestNs := "", 0.0

	for i, b := range backends {
		results[i].Backend = b.Name()
		if err := kernel.Verify(b, kernel.Reference(), kernel.QuickCheck); err != nil {
			results[i].Err = err
			continue
		}
		start := time.Now()
		inner := func(v float64) { report((float64(i) + v) / float64(len(backends))) }
		series, err := bench.NewRunner([]*kernel.Backend{b}, nil, cfg, bench.WithProgress(inner)).Run(ctx)
		results[i].Duration = time.Since(start)
		if err != nil {
			results[i].Err = err
			continue
		}
		// Column 0 is the oracle.
		results[i].MeanNs = series[0].MeanNs(1)
		if best == "" || results[i].MeanNs < bestNs {
			best, bestNs = b.Name(), results[i].MeanNs
		}
	}
	report(1)
	return results, best
}

func newProfileFrom(results []calibrationResult, best string, cfg bench.Config, elapsed time.Duration) *CalibrationProfile {
	p := NewProfile()
	p.OptimalBackend = best
	for _, r := range results {
		if r.Err == nil {
			p.BackendTimings[r.Backend] = r.MeanNs
		}
	}
	p.CalibrationBits = cfg.Step*(cfg.Lengths-1) + cfg.Offset
	p.CalibrationTime = elapsed.Round(time.Millisecond).String()
	return p
}

// RunCalibration runs the full calibration, prints the summary and saves
// the profile. It returns a process exit code.
func RunCalibration(ctx context.Context, out io.Writer, backends []*kernel.Backend, opts Options) int {
	cfg := opts.Bench
	if cfg.Lengths == 0 {
		cfg = FullBenchConfig()
	}
	fmt.Fprintf(out, "--- Calibration: %d backends, %d lengths up to %d bits ---\n",
		len(backends), cfg.Lengths, cfg.Step*(cfg.Lengths-1)+cfg.Offset)

	start := time.Now()
	results, best := calibrate(ctx, backends, cfg, opts.Progress)
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		fmt.Fprintf(out, "%sCalibration interrupted: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitCodeFor(err)
	}
	printCalibrationResults(out, results, best)
	if best == "" {
		fmt.Fprintf(out, "%sNo backend completed the calibration.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	p := newProfileFrom(results, best, cfg, elapsed)
	path := profilePath(opts.ProfilePath)
	if err := p.SaveProfile(path); err != nil {
		opts.Logger.Warn().Err(err).Str("path", path).Msg("could not save calibration profile")
		fmt.Fprintf(out, "%sWarning: profile not saved: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "Profile saved to %s\n", path)
	}
	fmt.Fprintf(out, "%sOptimal backend: %s%s%s\n", ui.ColorGreen(), ui.ColorBold(), best, ui.ColorReset())
	return apperrors.ExitSuccess
}

// AutoCalibrate runs a quick calibration when the backend is "auto" and
// returns cfg with the fastest backend selected. The result is saved to
// cfg.CalibrationProfile so that later runs can use LoadCachedCalibration.
func AutoCalibrate(ctx context.Context, cfg config.AppConfig, out io.Writer, backends []*kernel.Backend) (config.AppConfig, bool) {
	if cfg.Backend != config.DefaultBackend {
		return cfg, false
	}
	bcfg := QuickBenchConfig()
	start := time.Now()
	results, best := calibrate(ctx, backends, bcfg, nil)
	if best == "" {
		return cfg, false
	}
	// Saving is best-effort.
	_ = newProfileFrom(results, best, bcfg, time.Since(start)).SaveProfile(profilePath(cfg.CalibrationProfile))

	cfg.Backend = best
	if !cfg.Quiet {
		printCalibrationOutput(cfg, out)
	}
	return cfg, true
}

// LoadCachedCalibration applies a valid, fresh cached profile to cfg when
// the backend is "auto" and the cached backend is still registered.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.Backend != config.DefaultBackend {
		return cfg, false
	}
	p, err := loadProfile(profilePath(path))
	if err != nil || !p.IsValid() || p.IsStale(DefaultMaxProfileAge) {
		return cfg, false
	}
	v, err := kernel.ParseVersion(p.OptimalBackend)
	if err != nil {
		return cfg, false
	}
	if _, err := kernel.Default().Lookup(v); err != nil {
		return cfg, false
	}
	cfg.Backend = p.OptimalBackend
	return cfg, true
}
