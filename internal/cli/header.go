package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/kroncalc/internal/config"
	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/sysmon"
	"github.com/agbru/kroncalc/internal/ui"
)

// PrintExecutionConfig displays the configuration of a verification run:
// the corpus shape, the oracle, the timeout and the environment.
func PrintExecutionConfig(cfg config.AppConfig, corpusSize int, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Verifying against the %s%s%s oracle on %s%d%s operand pairs (seed %d, %d lengths of %d*i+%d bits), timeout %s%s%s.\n",
		ui.ColorMagenta(), cfg.Oracle, ui.ColorReset(),
		ui.ColorCyan(), corpusSize, ui.ColorReset(),
		cfg.Seed, cfg.Lengths, cfg.Step, cfg.Offset,
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, CPU features: %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(),
		kernel.GetCPUFeatures())
	if checks := cfg.CheckList(); len(checks) > 0 {
		fmt.Fprintf(out, "Checks: %s.\n", strings.Join(checks, ", "))
	}
}

// PrintExecutionMode displays whether one backend or several are verified.
func PrintExecutionMode(backends []*kernel.Backend, out io.Writer) {
	var modeDesc string
	if len(backends) > 1 {
		names := make([]string, len(backends))
		for i, b := range backends {
			names[i] = b.Name()
		}
		modeDesc = fmt.Sprintf("Parallel verification of %s%s%s", ui.ColorGreen(), strings.Join(names, ", "), ui.ColorReset())
	} else {
		modeDesc = fmt.Sprintf("Single verification of the %s%s%s backend",
			ui.ColorGreen(), backends[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintHostHeader describes the machine, for benchmark output.
func PrintHostHeader(h sysmon.Host, out io.Writer) {
	model := h.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	fmt.Fprintf(out, "Host: %s%s%s, %d logical CPUs, %s RAM, %s/%s, Go %s\n",
		ui.ColorCyan(), model, ui.ColorReset(),
		h.LogicalCPUs, format.FormatBytes(h.TotalMemory), h.GOOS, h.GOARCH, runtime.Version())
}
