package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	backends := []string{"reference", "unrolled", "mathbig"}
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _kroncalc_completions kroncalc", `backends="auto all reference unrolled mathbig"`, "--backend|-b)", "--calibration-profile|--output|-o)", `compgen -W "table gnuplot json"`}},
		{"zsh", []string{"#compdef kroncalc", "backends=(auto all reference unrolled mathbig)", "'(-b --backend)'{-b,--backend}'[Kernel backend]:backend:($backends)'", "'--output[", "'--x[Numerator of the symbol]:integer:'"}},
		{"fish", []string{"complete -c kroncalc -f", "# Benchmark", "complete -c kroncalc -s b -l backend -d 'Kernel backend' -xa 'auto all reference unrolled mathbig'", "-l calibration-profile -d 'Calibration profile file' -rF", "-l fail-fast -d 'Stop each check at its first mismatch'"}},
		{"powershell", []string{"Register-ArgumentCompleter -CommandName 'kroncalc'", "$kroncalcBackends = @('auto', 'all', 'reference', 'unrolled', 'mathbig')", "'--log-level' {", "@{Name = '-q'; Description = 'Quiet mode for scripts' }"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, GenerateCompletion(&buf, tt.shell, backends))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestGenerateCompletionUnsupported(t *testing.T) {
	t.Parallel()
	err := GenerateCompletion(&bytes.Buffer{}, "tcsh", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
}

func TestFlagRegistryMatchesConfig(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range flagRegistry {
		require.NotEmpty(t, f.Long)
		assert.False(t, seen[f.Long], "duplicate flag %s", f.Long)
		seen[f.Long] = true
		assert.False(t, strings.HasPrefix(f.Long, "-"))
		if f.IsFile || f.IsBackend {
			assert.NotEmpty(t, f.ValueName, f.Long)
		}
	}
	for _, name := range []string{"backend", "bench", "serve", "tui", "interactive", "prime", "completion"} {
		assert.True(t, seen[name], name)
	}
}
