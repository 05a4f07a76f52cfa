package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/primality"
	"github.com/agbru/kroncalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Backend is the initial backend selector ("auto" or a backend name).
	Backend string
	// Timeout bounds each probable-prime test.
	Timeout time.Duration
	// PrimeRounds is the default number of Solovay-Strassen rounds.
	PrimeRounds int
	// Verbose prints operands in full.
	Verbose bool
}

// REPL is an interactive Kronecker symbol session.
type REPL struct {
	config   REPLConfig
	registry *kernel.Registry
	backend  *kernel.Backend
	engine   *kronecker.Engine
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a session over the backends of reg. An unknown initial
// backend falls back to the best one.
func NewREPL(reg *kernel.Registry, config REPLConfig) *REPL {
	r := &REPL{config: config, registry: reg, in: os.Stdin, out: os.Stdout}
	if err := r.selectBackend(config.Backend); err != nil {
		r.use(reg.Best())
	}
	return r
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

func (r *REPL) use(b *kernel.Backend) {
	r.backend = b
	r.engine = kronecker.New(mpint.NewOps(b))
}

func (r *REPL) selectBackend(name string) error {
	if name == "" {
		name = "auto"
	}
	v, err := kernel.ParseVersion(name)
	if err != nil {
		return err
	}
	b, err := r.registry.Select(v)
	if err != nil {
		return err
	}
	r.use(b)
	return nil
}

// Start reads commands until exit or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<22)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"kron> "+ui.ColorReset())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sKronecker Symbol Calculator - Interactive Mode%s       %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %skronecker <x> <y>%s  - Compute the Kronecker symbol (x | y)\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sjacobi <a> <n>%s     - Compute the Jacobi symbol, n odd and positive\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare <x> <y>%s    - Compute (x | y) with every backend\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sprime <n> [rounds]%s - Solovay-Strassen probable-prime test\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sbackend <name>%s     - Change backend (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.registry.Names(), ", "))
	fmt.Fprintf(r.out, "  %slist%s               - List available backends\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %stable%s              - Show the (2 | n) table for n mod 8\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s             - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s               - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s        - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "Operands are decimal or 0x-prefixed hexadecimal.\n")
}

// processCommand executes one command line. It returns false on exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "kronecker", "kron", "k":
		r.cmdKronecker(args)
	case "jacobi", "j":
		r.cmdJacobi(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "prime", "p":
		r.cmdPrime(args)
	case "backend", "b":
		r.cmdBackend(args)
	case "list", "ls":
		r.cmdList()
	case "table":
		r.cmdTable()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// Two bare operands are a symbol.
		if len(parts) == 2 {
			r.cmdKronecker(parts)
			return true
		}
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) errorf(format string, args ...any) {
	fmt.Fprintf(r.out, "%s"+format+"%s\n", append(append([]any{ui.ColorRed()}, args...), ui.ColorReset())...)
}

// parsePair parses two operands, reporting usage on failure.
func (r *REPL) parsePair(args []string, usage string) (*mpint.Int, *mpint.Int, bool) {
	if len(args) != 2 {
		r.errorf("Usage: %s", usage)
		return nil, nil, false
	}
	x, err := mpint.ParseOperand(args[0])
	if err != nil {
		r.errorf("Invalid operand: %v", err)
		return nil, nil, false
	}
	y, err := mpint.ParseOperand(args[1])
	if err != nil {
		r.errorf("Invalid operand: %v", err)
		return nil, nil, false
	}
	return x, y, true
}

func (r *REPL) cmdKronecker(args []string) {
	x, y, ok := r.parsePair(args, "kronecker <x> <y>")
	if !ok {
		return
	}
	start := time.Now()
	s := r.engine.Symbol(x, y)
	DisplaySymbol(r.out, SymbolResult{X: x, Y: y, Backend: r.backend.Name(), Symbol: s, Duration: time.Since(start)}, r.config.Verbose)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdJacobi(args []string) {
	a, n, ok := r.parsePair(args, "jacobi <a> <n>")
	if !ok {
		return
	}
	s, err := r.engine.Jacobi(a, n)
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	fmt.Fprintf(r.out, "  J(%s, %s) = %s%d%s\n",
		truncateHex(a.Hex(), r.config.Verbose), truncateHex(n.Hex(), r.config.Verbose),
		ui.ColorGreen(), s, ui.ColorReset())
}

func (r *REPL) cmdCompare(args []string) {
	x, y, ok := r.parsePair(args, "compare <x> <y>")
	if !ok {
		return
	}
	fmt.Fprintf(r.out, "\n%sComparison for (%s | %s):%s\n", ui.ColorBold(),
		truncateHex(x.Hex(), false), truncateHex(y.Hex(), false), ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	first, seen := 0, false
	for _, b := range r.registry.List() {
		if !b.Supported(r.registry.Features()) {
			continue
		}
		start := time.Now()
		s := kronecker.New(mpint.NewOps(b)).Symbol(x, y)
		d := time.Since(start)
		if !seen {
			first, seen = s, true
		}
		status := ui.ColorGreen() + "✓" + ui.ColorReset()
		if s != first {
			status = ui.ColorRed() + "✗ INCONSISTENT" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  %s%-12s%s: %3d %s%12s%s %s\n",
			ui.ColorYellow(), b.Name(), ui.ColorReset(), s,
			ui.ColorCyan(), durationLabel(d), ui.ColorReset(), status)
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdPrime(args []string) {
	if len(args) == 0 || len(args) > 2 {
		r.errorf("Usage: prime <n> [rounds]")
		return
	}
	n, err := mpint.ParseOperand(args[0])
	if err != nil {
		r.errorf("Invalid operand: %v", err)
		return
	}
	rounds := r.config.PrimeRounds
	if len(args) == 2 {
		if rounds, err = strconv.Atoi(args[1]); err != nil {
			r.errorf("Invalid rounds: %s", args[1])
			return
		}
	}

	ctx := context.Background()
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}
	start := time.Now()
	res, err := primality.New(r.engine, time.Now().UnixNano()).Test(ctx, n.Big(), rounds)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.errorf("Error: timed out after %s", r.config.Timeout)
			return
		}
		r.errorf("Error: %v", err)
		return
	}
	DisplayPrime(r.out, n, res, time.Since(start), false)
}

func (r *REPL) cmdBackend(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: backend <name>")
		fmt.Fprintf(r.out, "Available backends: %s\n", strings.Join(r.registry.Names(), ", "))
		return
	}
	if err := r.selectBackend(args[0]); err != nil {
		r.errorf("Unknown backend: %s", args[0])
		fmt.Fprintf(r.out, "Available backends: %s\n", strings.Join(r.registry.Names(), ", "))
		return
	}
	fmt.Fprintf(r.out, "Backend changed to: %s%s%s\n", ui.ColorGreen(), r.backend.Name(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable backends:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, b := range r.registry.List() {
		marker := "  "
		if b == r.backend {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		note := ""
		if !b.Supported(r.registry.Features()) {
			note = " (unsupported on this CPU)"
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s v%d priority %d%s\n", marker, ui.ColorYellow(), b.Name(), ui.ColorReset(),
			int(b.Version()), b.Priority(), note)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdTable() {
	fmt.Fprintf(r.out, "\n%s(2 | n) by n mod 8:%s\n", ui.ColorBold(), ui.ColorReset())
	for i, v := range kronecker.Table() {
		fmt.Fprintf(r.out, "  %d: %2d\n", i, v)
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Backend:      %s%s%s\n", ui.ColorCyan(), r.backend.Name(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Prime rounds: %s%d%s\n", ui.ColorCyan(), r.config.PrimeRounds, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:      %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	verbose := "no"
	if r.config.Verbose {
		verbose = "yes"
	}
	fmt.Fprintf(r.out, "  Verbose:      %s%s%s\n", ui.ColorCyan(), verbose, ui.ColorReset())
	fmt.Fprintln(r.out)
}
