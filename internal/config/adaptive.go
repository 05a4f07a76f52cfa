package config

import "runtime"

// Resolution chain for the corpus size and worker count (highest priority
// first):
//   1. CLI flags (--lengths, --workers)
//   2. Environment variables (KRONCALC_LENGTHS, KRONCALC_WORKERS)
//   3. Cached calibration profile (~/.kroncalc_calibration.json), backend only
//   4. Hardware estimation (this file)

// ApplyAdaptiveDefaults fills the settings left at zero with values derived
// from the hardware. Explicit values are preserved.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Lengths == 0 {
		cfg.Lengths = EstimateCorpusLengths()
	}
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers()
	}
	return cfg
}

// EstimateCorpusLengths returns how many operand lengths a default
// verification run covers. Small machines get a shorter corpus so that the
// run stays within seconds.
func EstimateCorpusLengths() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 25
	case numCPU <= 8:
		return 50
	default:
		return 100 // the full classic series, 100 to 10000 bits
	}
}

// EstimateWorkers returns the number of backends verified concurrently.
func EstimateWorkers() int {
	return max(runtime.NumCPU(), 1)
}
