package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/kroncalc/internal/config"
	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/ui"
)

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []calibrationResult, best string) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sBackend%s      │ %sMean symbol time%s │ %sRun time%s\n",
		ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s┼%s\n", strings.Repeat("─", 14), strings.Repeat("─", 18), strings.Repeat("─", 12))
	for _, res := range results {
		meanStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		runStr := "-"
		if res.Err == nil {
			meanStr = fmt.Sprintf("%.1f ns", res.MeanNs)
			runStr = format.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.Backend == best && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-12s%s │ %s%-16s%s │ %s%s\n",
			ui.ColorCyan(), res.Backend, ui.ColorReset(),
			ui.ColorYellow(), meanStr, ui.ColorReset(), runStr, highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the backend chosen by auto-calibration.
func printCalibrationOutput(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "%sAuto-calibration%s: backend=%s%s%s\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), cfg.Backend, ui.ColorReset())
}
