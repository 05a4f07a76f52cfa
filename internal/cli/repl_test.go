package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/kroncalc/internal/kernel"
)

func runREPL(t *testing.T, cfg REPLConfig, input string) string {
	t.Helper()
	r := NewREPL(kernel.Default(), cfg)
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	r.Start()
	return out.String()
}

func TestREPLKronecker(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{Backend: "reference", PrimeRounds: 8}, "kronecker 2 7\nk -1 0x7\n3 5\nexit\n")
	assert.Contains(t, out, "(0x2 | 0x7) = 1")
	assert.Contains(t, out, "(-0x1 | 0x7) = -1")
	assert.Contains(t, out, "(0x3 | 0x5) = -1")
	assert.Contains(t, out, "Goodbye!")
}

func TestREPLJacobi(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{}, "jacobi 1001 9907\njacobi 3 8\n")
	assert.Contains(t, out, "J(0x3e9, 0x26b3) = -1")
	assert.Contains(t, out, "Error:")
}

func TestREPLBadInput(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{}, "kronecker 1\nkronecker zz 3\nfrobnicate\n")
	assert.Contains(t, out, "Usage: kronecker <x> <y>")
	assert.Contains(t, out, "Invalid operand")
	assert.Contains(t, out, "Unknown command: frobnicate")
	// EOF ends the session.
	assert.Contains(t, out, "Goodbye!")
}

func TestREPLBackend(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{Backend: "auto"}, "backend ref\nstatus\nbackend nope\nlist\n")
	assert.Contains(t, out, "Backend changed to: reference")
	assert.Contains(t, out, "Backend:      reference")
	assert.Contains(t, out, "Unknown backend: nope")
	assert.Contains(t, out, "► reference")
}

func TestREPLUnknownInitialBackend(t *testing.T) {
	r := NewREPL(kernel.Default(), REPLConfig{Backend: "nope"})
	require.NotNil(t, r.backend)
	assert.Equal(t, kernel.Default().Best().Name(), r.backend.Name())
}

func TestREPLCompare(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{}, "compare 0x1234567 0xfedcba987\n")
	assert.Contains(t, out, "Comparison for (0x1234567 | 0xfedcba987)")
	assert.Contains(t, out, "reference")
	assert.NotContains(t, out, "INCONSISTENT")
}

func TestREPLPrime(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{PrimeRounds: 16, Timeout: time.Minute}, "prime 2147483647\nprime 561 4\nprime 97 x\n")
	assert.Contains(t, out, "0x7fffffff is probably prime")
	assert.Contains(t, out, "0x231 is composite")
	assert.Contains(t, out, "Invalid rounds: x")
}

func TestREPLTableAndHelp(t *testing.T) {
	useNoColor(t)
	out := runREPL(t, REPLConfig{}, "table\nhelp\nquit\n")
	assert.Contains(t, out, "(2 | n) by n mod 8:")
	assert.Contains(t, out, "  7:  1")
	assert.Contains(t, out, "  3: -1")
	assert.Contains(t, out, "Available commands:")
}
