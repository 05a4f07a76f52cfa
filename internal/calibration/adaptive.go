// This file sizes calibration runs according to the hardware.

package calibration

import (
	"runtime"

	"github.com/agbru/kroncalc/internal/bench"
	"github.com/agbru/kroncalc/internal/kernel"
)

// FullBenchConfig returns the series of a full calibration. Slower
// machines (few cores usually means a small or shared CPU) get fewer
// timed loops per cell.
func FullBenchConfig() bench.Config {
	cfg := bench.Config{Seed: 1, Lengths: 8, Step: 512, Offset: 256, Loops: 100}
	switch numCPU := runtime.NumCPU(); {
	case numCPU == 1:
		cfg.Loops = 25
	case numCPU <= 4:
		cfg.Loops = 50
	}
	return cfg
}

// QuickBenchConfig returns a short series for start-up auto-calibration.
func QuickBenchConfig() bench.Config {
	cfg := bench.Config{Seed: 1, Lengths: 3, Step: 1024, Offset: 256, Loops: 20}
	if runtime.NumCPU() == 1 {
		cfg.Loops = 5
	}
	return cfg
}

// EstimateOptimalBackend returns the backend the registry would pick from
// CPU features alone, without benchmarking.
func EstimateOptimalBackend() string { return kernel.Default().Best().Name() }
