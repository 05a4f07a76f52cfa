package primality

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/mpint"
)

func newTester(t *testing.T) *Tester {
	t.Helper()
	return New(kronecker.New(mpint.NewOps(nil)), 42)
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 0)
	require.True(t, ok, "bad literal %q", s)
	return v
}

func TestPrimes(t *testing.T) {
	t.Parallel()
	tests := []string{
		"2", "3", "47", "53", "65537", "1000000007",
		// 2^64 - 59 and 2^127 - 1.
		"0xffffffffffffffc5",
		"170141183460469231731687303715884105727",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			t.Parallel()
			r, err := newTester(t).Test(context.Background(), mustBig(t, s), 20)
			require.NoError(t, err)
			assert.Equal(t, ProbablePrime, r.Verdict)
			assert.Nil(t, r.Witness)
		})
	}
}

func TestComposites(t *testing.T) {
	t.Parallel()
	tests := []string{
		"0", "1", "-7", "4", "49",
		// 53^2 and the Carmichael numbers 561, 1105 and 41041.
		"2809", "561", "1105", "41041",
		// 2^64 and 2^128 + 1.
		"0x10000000000000000",
		"340282366920938463463374607431768211457",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			t.Parallel()
			r, err := newTester(t).Test(context.Background(), mustBig(t, s), 40)
			require.NoError(t, err)
			assert.Equal(t, Composite, r.Verdict)
			assert.Zero(t, r.ErrorBound())
		})
	}
}

func TestWitnessIsReal(t *testing.T) {
	t.Parallel()
	n := mustBig(t, "2809")
	r, err := newTester(t).Test(context.Background(), n, 40)
	require.NoError(t, err)
	require.Equal(t, Composite, r.Verdict)
	require.NotNil(t, r.Witness)
	assert.True(t, r.Witness.Cmp(big.NewInt(2)) >= 0)
	assert.True(t, r.Witness.Cmp(n) < 0)
}

func TestErrorBound(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.25, Result{Verdict: ProbablePrime, Rounds: 2}.ErrorBound())
	assert.Equal(t, "probably prime", ProbablePrime.String())
	assert.Equal(t, "composite", Composite.String())
}

func TestBadRounds(t *testing.T) {
	t.Parallel()
	_, err := newTester(t).Test(context.Background(), big.NewInt(101), 0)
	assert.ErrorIs(t, err, ErrNoRounds)
}

func TestCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTester(t).Test(ctx, big.NewInt(1000003), 5)
	assert.ErrorIs(t, err, context.Canceled)
}
