package cli

import (
	"fmt"
	"io"
	"strings"
)

// programName is the command the completion scripts attach to.
const programName = "kroncalc"

// FlagCompletion describes a CLI flag for shell completion generation.
// Every generator reads flagRegistry, so adding a flag only requires
// appending to it.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "backend")
	Short     string   // short flag without "-" (e.g., "b")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "bits", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsBackend bool     // true if values come from the backend list (dynamic)
	Section   string   // fish comment grouping
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message", Section: "Help and version"},
	{Long: "version", Help: "Show version information", Section: "Help and version"},
	{Long: "x", Help: "Numerator of the symbol", ValueName: "integer", Section: "Symbol"},
	{Long: "y", Help: "Denominator of the symbol", ValueName: "integer", Section: "Symbol"},
	{Long: "prime", Help: "Run the Solovay-Strassen test", ValueName: "integer", Section: "Symbol"},
	{Long: "prime-rounds", Help: "Solovay-Strassen rounds", Values: []string{"16", "32", "64"}, ValueName: "rounds", Section: "Symbol"},
	{Long: "backend", Short: "b", Help: "Kernel backend", IsBackend: true, ValueName: "backend", Section: "Verification"},
	{Long: "oracle", Help: "Reference implementation", Values: []string{"big", "gmp"}, ValueName: "oracle", Section: "Verification"},
	{Long: "checks", Help: "Comma-separated verification checks", ValueName: "checks", Section: "Verification"},
	{Long: "fail-fast", Help: "Stop each check at its first mismatch", Section: "Verification"},
	{Long: "workers", Help: "Backends verified concurrently", ValueName: "number", Section: "Verification"},
	{Long: "seed", Help: "Seed of the operand corpus", ValueName: "number", Section: "Corpus"},
	{Long: "lengths", Help: "Number of operand lengths", Values: []string{"10", "30", "100"}, ValueName: "number", Section: "Corpus"},
	{Long: "step", Help: "Bit-length increment", Values: []string{"64", "100", "256"}, ValueName: "bits", Section: "Corpus"},
	{Long: "offset", Help: "Bit length of the first step", Values: []string{"64", "100", "256"}, ValueName: "bits", Section: "Corpus"},
	{Long: "bench", Help: "Time the kernels against the oracle", Section: "Benchmark"},
	{Long: "loops", Help: "Iterations per timing", Values: []string{"100", "200", "1000"}, ValueName: "number", Section: "Benchmark"},
	{Long: "format", Help: "Benchmark output format", Values: []string{"table", "gnuplot", "json"}, ValueName: "format", Section: "Benchmark"},
	{Long: "calibrate", Help: "Run calibration mode", Section: "Calibration"},
	{Long: "auto-calibrate", Help: "Enable auto-calibration", Section: "Calibration"},
	{Long: "calibration-profile", Help: "Calibration profile file", IsFile: true, ValueName: "file", Section: "Calibration"},
	{Long: "serve", Help: "Run the HTTP server", Section: "Modes"},
	{Long: "addr", Help: "Listen address", Values: []string{":8080", "127.0.0.1:8080"}, ValueName: "address", Section: "Modes"},
	{Long: "max-bits", Help: "Largest operand accepted by the server", ValueName: "bits", Section: "Modes"},
	{Long: "tui", Help: "Interactive dashboard", Section: "Modes"},
	{Long: "interactive", Short: "i", Help: "Interactive REPL", Section: "Modes"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"1m", "5m", "10m", "30m", "1h"}, ValueName: "duration", Section: "Output"},
	{Long: "verbose", Short: "v", Help: "Print full operands", Section: "Output"},
	{Long: "details", Short: "d", Help: "Print the per-check breakdown", Section: "Output"},
	{Long: "quiet", Short: "q", Help: "Quiet mode for scripts", Section: "Output"},
	{Long: "no-color", Help: "Disable colors", Section: "Output"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error"}, ValueName: "level", Section: "Output"},
	{Long: "output", Short: "o", Help: "Output file path", IsFile: true, ValueName: "file", Section: "Output"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish", "powershell"}, ValueName: "shell", Section: "Completion"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh",
// "fish" or "powershell"). backends lists the names offered for --backend
// besides "auto" and "all".
func GenerateCompletion(out io.Writer, shell string, backends []string) error {
	backends = append([]string{"auto", "all"}, backends...)
	var err error
	switch shell {
	case "bash":
		err = generateBashCompletion(out, backends)
	case "zsh":
		err = generateZshCompletion(out, backends)
	case "fish":
		err = generateFishCompletion(out, backends)
	case "powershell", "ps":
		err = generatePowerShellCompletion(out, backends)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

// flagPatterns returns the "--long" and "-short" spellings of f.
func flagPatterns(f FlagCompletion) []string {
	var p []string
	if f.Long != "" {
		p = append(p, "--"+f.Long)
	}
	if f.Short != "" {
		p = append(p, "-"+f.Short)
	}
	return p
}

func generateBashCompletion(out io.Writer, backends []string) error {
	var opts []string
	var cases strings.Builder
	addCase := func(patterns []string, body string) {
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(patterns, "|"), body)
	}
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, flagPatterns(f)...)
		switch {
		case f.IsBackend:
			addCase(flagPatterns(f), `COMPREPLY=( $(compgen -W "${backends}" -- "${cur}") )`)
		case f.IsFile:
			files = append(files, flagPatterns(f)...)
		case len(f.Values) > 0:
			addCase(flagPatterns(f), fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " ")))
		}
	}
	if len(files) > 0 {
		addCase(files, `COMPREPLY=( $(compgen -f -- "${cur}") )`)
	}

	_, err := fmt.Fprintf(out, `# Bash completion script for %[1]s
# Add this to your ~/.bashrc or ~/.bash_completion

_%[1]s_completions() {
    local cur prev opts backends
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%[2]s"
    backends="%[3]s"

    case "${prev}" in
%[4]s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _%[1]s_completions %[1]s
`, programName, strings.Join(opts, " "), strings.Join(backends, " "), cases.String())
	return err
}

// zshArgEntry formats f as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsBackend:
		valueSuffix = fmt.Sprintf(":%s:($backends)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
}

func generateZshCompletion(out io.Writer, backends []string) error {
	args := make([]string, len(flagRegistry))
	for i, f := range flagRegistry {
		args[i] = zshArgEntry(f)
	}
	_, err := fmt.Fprintf(out, `#compdef %[1]s

# Zsh completion script for %[1]s
# Add this to your ~/.zshrc or place in $fpath

_%[1]s() {
    local -a backends
    backends=(%[2]s)

    _arguments -s \
%[3]s
}

_%[1]s "$@"
`, programName, strings.Join(backends, " "), strings.Join(args, " \\\n"))
	return err
}

// fishCompleteLine formats f as a fish complete command.
func fishCompleteLine(f FlagCompletion, backends []string) string {
	parts := []string{"complete -c " + programName}
	if f.Short != "" {
		parts = append(parts, "-s "+f.Short)
	}
	parts = append(parts, "-l "+f.Long, fmt.Sprintf("-d '%s'", f.Help))
	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsBackend:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(backends, " ")))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func generateFishCompletion(out io.Writer, backends []string) error {
	lines := []string{
		"# Fish completion script for " + programName,
		"# Add this to ~/.config/fish/completions/" + programName + ".fish",
		"",
		"# Disable file completion by default",
		"complete -c " + programName + " -f",
	}
	section := ""
	for _, f := range flagRegistry {
		if f.Section != section {
			section = f.Section
			lines = append(lines, "", "# "+section)
		}
		lines = append(lines, fishCompleteLine(f, backends))
	}
	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

func psQuoted(vals []string) string {
	q := make([]string, len(vals))
	for i, v := range vals {
		q[i] = "'" + v + "'"
	}
	return strings.Join(q, ", ")
}

func generatePowerShellCompletion(out io.Writer, backends []string) error {
	var options, switches []string
	for _, f := range flagRegistry {
		for _, p := range flagPatterns(f) {
			options = append(options, fmt.Sprintf("        @{Name = '%s'; Description = '%s' }", p, f.Help))
		}
		values := ""
		switch {
		case f.IsBackend:
			values = "$kroncalcBackends"
		case len(f.Values) > 0:
			values = "@(" + psQuoted(f.Values) + ")"
		default:
			continue
		}
		switches = append(switches, fmt.Sprintf(`        '--%s' {
            %s | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, f.Long, values))
	}

	_, err := fmt.Fprintf(out, `# PowerShell completion script for %[1]s
# Add this to your $PROFILE

$kroncalcBackends = @(%[2]s)

Register-ArgumentCompleter -CommandName '%[1]s' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $options = @(
%[3]s
    )

    $elements = $commandAst.CommandElements
    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }

    switch ($prevElement) {
%[4]s
    }

    $options | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`, programName, psQuoted(backends), strings.Join(options, "\n"), strings.Join(switches, "\n"))
	return err
}
