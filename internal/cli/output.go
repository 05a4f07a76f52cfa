// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplaySymbol], [DisplayPrime], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietSymbol], [FormatSymbolLine].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteSymbolToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/kroncalc/internal/format"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/primality"
	"github.com/agbru/kroncalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints the bare result.
	Quiet bool
	// Verbose prints operands in full.
	Verbose bool
}

// SymbolResult is one evaluated Kronecker symbol.
type SymbolResult struct {
	X, Y     *mpint.Int
	Backend  string
	Symbol   int
	Duration time.Duration
}

// FormatSymbolLine renders "(x | y) = s" with operands shortened unless
// verbose is set.
func FormatSymbolLine(r SymbolResult, verbose bool) string {
	return fmt.Sprintf("(%s | %s) = %d", truncateHex(r.X.Hex(), verbose), truncateHex(r.Y.Hex(), verbose), r.Symbol)
}

// FormatQuietSymbol returns the symbol alone, for scripting.
func FormatQuietSymbol(r SymbolResult) string {
	return fmt.Sprintf("%d", r.Symbol)
}

// DisplaySymbol prints a symbol result with its bit lengths and timing.
func DisplaySymbol(out io.Writer, r SymbolResult, verbose bool) {
	color := ui.ColorYellow()
	switch r.Symbol {
	case 1:
		color = ui.ColorGreen()
	case -1:
		color = ui.ColorRed()
	}
	fmt.Fprintf(out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  x: %s bits, y: %s bits\n",
		format.FormatNumberString(fmt.Sprint(r.X.BitLen())), format.FormatNumberString(fmt.Sprint(r.Y.BitLen())))
	fmt.Fprintf(out, "  %s%s%s\n", color, FormatSymbolLine(r, verbose), ui.ColorReset())
	fmt.Fprintf(out, "  Backend: %s%s%s, time: %s%s%s\n",
		ui.ColorBlue(), r.Backend, ui.ColorReset(),
		ui.ColorYellow(), durationLabel(r.Duration), ui.ColorReset())
}

// DisplaySymbolWithConfig prints r per cfg and saves it when cfg.OutputFile
// is set.
func DisplaySymbolWithConfig(out io.Writer, r SymbolResult, cfg OutputConfig) error {
	if cfg.Quiet {
		fmt.Fprintln(out, FormatQuietSymbol(r))
	} else {
		DisplaySymbol(out, r, cfg.Verbose)
	}
	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteSymbolToFile(r, cfg.OutputFile); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}

// WriteSymbolToFile writes r with a commented header to path, creating
// parent directories as needed. Operands are written in full.
func WriteSymbolToFile(r SymbolResult, path string) error {
	return writeFile(path, func(w io.Writer) {
		fmt.Fprintf(w, "# Kronecker Symbol Result\n")
		fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format(time.RFC3339))
		fmt.Fprintf(w, "# Backend: %s\n", r.Backend)
		fmt.Fprintf(w, "# Duration: %s\n", r.Duration)
		fmt.Fprintf(w, "# Bits: %d %d\n\n", r.X.BitLen(), r.Y.BitLen())
		fmt.Fprintf(w, "x = %s\ny = %s\n", r.X.Hex(), r.Y.Hex())
		fmt.Fprintf(w, "kronecker(x, y) = %d\n", r.Symbol)
	})
}

func writeFile(path string, body func(io.Writer)) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	body(file)
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DisplayPrime prints the outcome of a probable-prime test on n.
func DisplayPrime(out io.Writer, n *mpint.Int, r primality.Result, d time.Duration, quiet bool) {
	if quiet {
		fmt.Fprintln(out, r.Verdict)
		return
	}
	color := ui.ColorRed()
	if r.Verdict == primality.ProbablePrime {
		color = ui.ColorGreen()
	}
	fmt.Fprintf(out, "\n%s%s%s is %s%s%s\n", ui.ColorBold(), truncateHex(n.Hex(), false), ui.ColorReset(), color, r.Verdict, ui.ColorReset())
	switch {
	case r.Witness != nil:
		fmt.Fprintf(out, "  witness: 0x%s (round %d)\n", r.Witness.Text(16), r.Rounds)
	case r.Verdict == primality.ProbablePrime:
		fmt.Fprintf(out, "  %d rounds, error bound %.3g\n", r.Rounds, r.ErrorBound())
	}
	fmt.Fprintf(out, "  time: %s\n", durationLabel(d))
}
