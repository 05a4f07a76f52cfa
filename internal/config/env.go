// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the KRONCALC_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func intOverride(dst func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst(c) = parsed
		}
	}
}

func boolOverride(dst func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := dst(c)
		*p = parseBoolEnv(v, *p)
	}
}

func stringOverride(dst func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *dst(c) = v }
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}},
	{"LENGTHS", []string{"lengths"}, intOverride(func(c *AppConfig) *int { return &c.Lengths })},
	{"STEP", []string{"step"}, intOverride(func(c *AppConfig) *int { return &c.Step })},
	{"OFFSET", []string{"offset"}, intOverride(func(c *AppConfig) *int { return &c.Offset })},
	{"LOOPS", []string{"loops"}, intOverride(func(c *AppConfig) *int { return &c.Loops })},
	{"WORKERS", []string{"workers"}, intOverride(func(c *AppConfig) *int { return &c.Workers })},
	{"MAX_BITS", []string{"max-bits"}, intOverride(func(c *AppConfig) *int { return &c.MaxBits })},
	{"PRIME_ROUNDS", []string{"prime-rounds"}, intOverride(func(c *AppConfig) *int { return &c.PrimeRounds })},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"BACKEND", []string{"backend", "b"}, stringOverride(func(c *AppConfig) *string { return &c.Backend })},
	{"ORACLE", []string{"oracle"}, stringOverride(func(c *AppConfig) *string { return &c.Oracle })},
	{"CHECKS", []string{"checks"}, stringOverride(func(c *AppConfig) *string { return &c.Checks })},
	{"FORMAT", []string{"format"}, stringOverride(func(c *AppConfig) *string { return &c.BenchFormat })},
	{"ADDR", []string{"addr"}, stringOverride(func(c *AppConfig) *string { return &c.Addr })},
	{"OUTPUT", []string{"output", "o"}, stringOverride(func(c *AppConfig) *string { return &c.OutputFile })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringOverride(func(c *AppConfig) *string { return &c.CalibrationProfile })},
	{"LOG_LEVEL", []string{"log-level"}, stringOverride(func(c *AppConfig) *string { return &c.LogLevel })},

	// Boolean overrides
	{"VERBOSE", []string{"v", "verbose"}, boolOverride(func(c *AppConfig) *bool { return &c.Verbose })},
	{"DETAILS", []string{"d", "details"}, boolOverride(func(c *AppConfig) *bool { return &c.Details })},
	{"QUIET", []string{"quiet", "q"}, boolOverride(func(c *AppConfig) *bool { return &c.Quiet })},
	{"FAIL_FAST", []string{"fail-fast"}, boolOverride(func(c *AppConfig) *bool { return &c.FailFast })},
	{"NO_COLOR", []string{"no-color"}, boolOverride(func(c *AppConfig) *bool { return &c.NoColor })},
	{"AUTO_CALIBRATE", []string{"auto-calibrate"}, boolOverride(func(c *AppConfig) *bool { return &c.AutoCalibrate })},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with KRONCALC_) are listed
// in envOverrides; mode switches such as --serve or --bench have no
// environment counterpart.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
