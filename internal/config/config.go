// Package config parses the command line and the KRONCALC_ environment into
// an AppConfig. Priority is: CLI flags, then environment variables, then
// defaults (possibly adjusted to the hardware by ApplyAdaptiveDefaults).
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "KRONCALC_"

// Defaults.
const (
	DefaultBackend     = "auto"
	DefaultOracle      = "big"
	DefaultTimeout     = 5 * time.Minute
	DefaultStep        = 100
	DefaultOffset      = 100
	DefaultLoops       = 200
	DefaultBenchFormat = "table"
	DefaultAddr        = ":8080"
	DefaultMaxBits     = 1 << 16
	DefaultPrimeRounds = 32
	DefaultLogLevel    = "warn"
)

// Execution modes returned by AppConfig.Mode.
const (
	ModeVersion    = "version"
	ModeCompletion = "completion"
	ModeCalibrate  = "calibrate"
	ModeServe      = "serve"
	ModeTUI        = "tui"
	ModeREPL       = "repl"
	ModeBench      = "bench"
	ModePrime      = "prime"
	ModeSymbol     = "symbol"
	ModeVerify     = "verify"
)

// BenchFormats lists the accepted --format values.
var BenchFormats = []string{"table", "gnuplot", "json"}

// AppConfig aggregates the application's configuration.
type AppConfig struct {
	// Operands of the symbol mode, as hex (0x...) or decimal.
	X, Y string
	// Prime is the candidate of the probable-prime mode.
	Prime       string
	PrimeRounds int

	// Backend is a kernel backend name, "auto" or "all".
	Backend string
	Oracle  string
	// Checks is a comma-separated list of verification checks; empty runs all.
	Checks   string
	FailFast bool
	Workers  int

	// Corpus shape: Lengths steps of Step*i + Offset bits.
	Seed    int64
	Lengths int
	Step    int
	Offset  int

	Bench       bool
	Loops       int
	BenchFormat string

	Calibrate          bool
	AutoCalibrate      bool
	CalibrationProfile string

	Serve   bool
	Addr    string
	MaxBits int

	TUI         bool
	Interactive bool
	Completion  string
	ShowVersion bool

	Timeout    time.Duration
	Verbose    bool
	Details    bool
	Quiet      bool
	NoColor    bool
	LogLevel   string
	OutputFile string
}

// Mode returns the execution mode selected by the flags. The first match
// wins, in the order of the Mode constants.
func (c AppConfig) Mode() string {
	switch {
	case c.ShowVersion:
		return ModeVersion
	case c.Completion != "":
		return ModeCompletion
	case c.Calibrate:
		return ModeCalibrate
	case c.Serve:
		return ModeServe
	case c.TUI:
		return ModeTUI
	case c.Interactive:
		return ModeREPL
	case c.Bench:
		return ModeBench
	case c.Prime != "":
		return ModePrime
	case c.X != "" || c.Y != "":
		return ModeSymbol
	}
	return ModeVerify
}

// CheckList splits Checks on commas, dropping empty entries.
func (c AppConfig) CheckList() []string {
	var out []string
	for _, s := range strings.Split(c.Checks, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseConfig parses args (without the program name) into an AppConfig.
// backends lists the registered backend names accepted by --backend in
// addition to "auto", "all" and the kernel aliases. Usage and parse errors
// are written to errWriter; --help returns flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer, backends []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	cfg := AppConfig{}
	fs.StringVar(&cfg.X, "x", "", "Numerator of the symbol (hex 0x... or decimal).")
	fs.StringVar(&cfg.Y, "y", "", "Denominator of the symbol (hex 0x... or decimal).")
	fs.StringVar(&cfg.Prime, "prime", "", "Run the Solovay-Strassen test on this value.")
	fs.IntVar(&cfg.PrimeRounds, "prime-rounds", DefaultPrimeRounds, "Number of Solovay-Strassen rounds.")

	fs.StringVar(&cfg.Backend, "backend", DefaultBackend, fmt.Sprintf("Kernel backend: auto, all, %s.", strings.Join(backends, ", ")))
	fs.StringVar(&cfg.Backend, "b", DefaultBackend, "Shorthand for --backend.")
	fs.StringVar(&cfg.Oracle, "oracle", DefaultOracle, "Reference implementation used by verify and bench.")
	fs.StringVar(&cfg.Checks, "checks", "", "Comma-separated verification checks (default all).")
	fs.BoolVar(&cfg.FailFast, "fail-fast", false, "Stop each check at its first mismatch.")
	fs.IntVar(&cfg.Workers, "workers", 0, "Backends verified concurrently (0 = number of CPUs).")

	fs.Int64Var(&cfg.Seed, "seed", 0, "Seed of the operand corpus.")
	fs.IntVar(&cfg.Lengths, "lengths", 0, "Number of operand lengths (0 = adaptive).")
	fs.IntVar(&cfg.Step, "step", DefaultStep, "Bit-length increment between corpus steps.")
	fs.IntVar(&cfg.Offset, "offset", DefaultOffset, "Bit length of the first corpus step.")

	fs.BoolVar(&cfg.Bench, "bench", false, "Time the kernels and the symbol against the oracle.")
	fs.IntVar(&cfg.Loops, "loops", DefaultLoops, "Iterations per timing.")
	fs.StringVar(&cfg.BenchFormat, "format", DefaultBenchFormat, "Benchmark output: table, gnuplot or json.")

	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Benchmark every backend and store the fastest.")
	fs.BoolVar(&cfg.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration before the main mode.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile.")

	fs.BoolVar(&cfg.Serve, "serve", false, "Run the HTTP server.")
	fs.StringVar(&cfg.Addr, "addr", DefaultAddr, "Listen address of the HTTP server.")
	fs.IntVar(&cfg.MaxBits, "max-bits", DefaultMaxBits, "Largest operand, in bits, accepted by the server.")

	fs.BoolVar(&cfg.TUI, "tui", false, "Run the verification in the interactive dashboard.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start the interactive REPL.")
	fs.BoolVar(&cfg.Interactive, "i", false, "Shorthand for --interactive.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script: bash, zsh, fish or powershell.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print the version and exit.")

	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print full operands.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Details, "details", false, "Print the per-check breakdown.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Minimal output.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colors.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Also write the results to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] [x y]\n\n", programName)
		fmt.Fprintf(errWriter, "Computes Kronecker symbols over multi-precision integers and verifies the kernels.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 2:
		if cfg.X == "" && cfg.Y == "" {
			cfg.X, cfg.Y = rest[0], rest[1]
			break
		}
		fallthrough
	default:
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments %q: give the operands either as x y or with -x/-y", rest)
	}

	applyEnvOverrides(&cfg, fs)

	if err := cfg.Validate(backends); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c AppConfig) Validate(backends []string) error {
	if c.Backend != "all" && !slices.Contains(backends, c.Backend) {
		if _, err := kernel.ParseVersion(c.Backend); err != nil {
			return apperrors.NewConfigError("unknown backend %q (available: auto, all, %s)", c.Backend, strings.Join(backends, ", "))
		}
	}
	if (c.X == "") != (c.Y == "") {
		return apperrors.NewConfigError("both -x and -y are required")
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.Lengths < 0 || c.Step < 0 || c.Offset < 0 {
		return apperrors.NewConfigError("corpus sizes must not be negative")
	}
	if c.Step == 0 && c.Offset == 0 {
		return apperrors.NewConfigError("--step and --offset cannot both be zero")
	}
	if c.Loops <= 0 {
		return apperrors.NewConfigError("--loops must be positive, got %d", c.Loops)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must not be negative, got %d", c.Workers)
	}
	if !slices.Contains(BenchFormats, c.BenchFormat) {
		return apperrors.NewConfigError("unknown --format %q (available: %s)", c.BenchFormat, strings.Join(BenchFormats, ", "))
	}
	if c.MaxBits <= 0 {
		return apperrors.NewConfigError("--max-bits must be positive, got %d", c.MaxBits)
	}
	if c.PrimeRounds <= 0 {
		return apperrors.NewConfigError("--prime-rounds must be positive, got %d", c.PrimeRounds)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	return nil
}
