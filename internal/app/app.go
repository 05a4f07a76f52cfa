// Package app wires the configuration, the kernel registry and the
// presentation layers into the kroncalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/kroncalc/internal/calibration"
	"github.com/agbru/kroncalc/internal/cli"
	"github.com/agbru/kroncalc/internal/config"
	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/logging"
	"github.com/agbru/kroncalc/internal/oracle"
	"github.com/agbru/kroncalc/internal/orchestration"
	"github.com/agbru/kroncalc/internal/ui"
)

// Application represents the kroncalc application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *kernel.Registry
	ErrWriter io.Writer

	logger zerolog.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the backend registry. The default is the process
// registry of built-in backends.
func WithRegistry(r *kernel.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = kernel.Default()
	}

	programName := "kroncalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.Names())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	}
	cfg = config.ApplyAdaptiveDefaults(cfg)

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	mode := a.Config.Mode()
	switch mode {
	case config.ModeVersion:
		PrintVersion(out)
		return apperrors.ExitSuccess
	case config.ModeCompletion:
		return a.runCompletion(out)
	}

	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	zerolog.SetGlobalLevel(level)
	a.logger = logging.NewConsoleLogger(a.ErrWriter, "kroncalc", level)
	ui.InitTheme(a.Config.NoColor)

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	// The server and the REPL run until stopped; everything else is bounded.
	switch mode {
	case config.ModeServe:
		return a.runServer(ctx)
	case config.ModeREPL:
		return a.runREPL(out)
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()

	if mode == config.ModeCalibrate {
		return a.runCalibration(ctx, out)
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	switch mode {
	case config.ModeTUI:
		return a.runTUI(ctx)
	case config.ModeBench:
		return a.runBench(ctx, out)
	case config.ModePrime:
		return a.runPrime(ctx, out)
	case config.ModeSymbol:
		return a.runSymbol(out)
	}
	return a.runVerify(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.Names()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, out, a.supportedBackends(), calibration.Options{
		ProfilePath: a.Config.CalibrationProfile,
		Progress:    cli.ProgressLine(out, "Calibrating"),
		Logger:      a.logger,
	})
}

// runAutoCalibrationIfEnabled runs auto-calibration if enabled.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if a.Config.AutoCalibrate {
		if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out, a.supportedBackends()); ok {
			return updated
		}
	}
	return a.Config
}

// supportedBackends lists the registered backends usable on this CPU.
func (a *Application) supportedBackends() []*kernel.Backend {
	all, _ := orchestration.GetBackendsToRun("all", a.Registry)
	return all
}

// backend resolves the configured selector to a single backend. "all"
// resolves to the best one.
func (a *Application) backend() (*kernel.Backend, error) {
	if a.Config.Backend == "all" {
		return a.Registry.Best(), nil
	}
	backends, err := orchestration.GetBackendsToRun(a.Config.Backend, a.Registry)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return backends[0], nil
}

// oracle resolves the configured oracle name.
func (a *Application) oracle() (oracle.Oracle, error) {
	o, err := oracle.Get(a.Config.Oracle)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	return o, nil
}

// fail prints err the way the CLI reports errors and returns its exit code.
func (a *Application) fail(err error) int {
	return apperrors.HandleVerificationError(err, 0, a.ErrWriter)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
