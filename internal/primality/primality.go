// Package primality implements the Solovay-Strassen probable-prime test on
// top of the multi-precision Kronecker engine.
//
// For an odd n > 2 and a base a coprime to n, Euler's criterion states
// that a^((n-1)/2) = (a/n) mod n whenever n is prime. A composite n passes
// one round with probability at most 1/2, so k rounds leave an error bound
// of 2^-k.
package primality

import (
	"context"
	"errors"
	"math/big"
	"math/rand"

	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/mpint"
)

// ErrNoRounds is returned when fewer than one round is requested.
var ErrNoRounds = errors.New("primality: rounds must be positive")

// Verdict is the outcome of a test.
type Verdict int

const (
	Composite Verdict = iota
	ProbablePrime
)

func (v Verdict) String() string {
	if v == ProbablePrime {
		return "probably prime"
	}
	return "composite"
}

// Result describes a finished test.
type Result struct {
	Verdict Verdict
	// Rounds is the number of rounds actually run. A composite verdict
	// can be reached before all requested rounds.
	Rounds int
	// Witness is the base that proved compositeness, nil otherwise or when
	// the verdict came from trial division.
	Witness *big.Int
}

// ErrorBound returns the probability that a ProbablePrime verdict is wrong.
func (r Result) ErrorBound() float64 {
	if r.Verdict == Composite {
		return 0
	}
	return 1 / float64(uint64(1)<<min(r.Rounds, 63))
}

// Tester runs Solovay-Strassen rounds with a given engine.
type Tester struct {
	engine *kronecker.Engine
	rng    *rand.Rand
}

// New returns a tester whose bases are drawn from a source seeded with seed.
func New(engine *kronecker.Engine, seed int64) *Tester {
	return &Tester{engine: engine, rng: rand.New(rand.NewSource(seed))}
}

var smallPrimes = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}

// Test runs up to rounds rounds on n. Negative and zero n, and one, are
// composite by convention. Small primes and their multiples are settled
// by trial division without running any round.
func (t *Tester) Test(ctx context.Context, n *big.Int, rounds int) (Result, error) {
	if rounds <= 0 {
		return Result{}, ErrNoRounds
	}
	if n.Sign() <= 0 || n.Cmp(big.NewInt(1)) == 0 {
		return Result{Verdict: Composite}, nil
	}
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if n.Cmp(bp) == 0 {
			return Result{Verdict: ProbablePrime}, nil
		}
		if new(big.Int).Mod(n, bp).Sign() == 0 {
			return Result{Verdict: Composite}, nil
		}
	}

	nm := mpint.FromBig(n)
	one := big.NewInt(1)
	nMinus1 := new(big.Int).Sub(n, one)
	exp := new(big.Int).Rsh(nMinus1, 1)
	// Bases are drawn from [2, n-2].
	span := new(big.Int).Sub(n, big.NewInt(3))

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return Result{Rounds: i}, err
		}
		a := new(big.Int).Rand(t.rng, span)
		a.Add(a, big.NewInt(2))

		j, err := t.engine.Jacobi(mpint.FromBig(a), nm)
		if err != nil {
			return Result{Rounds: i}, err
		}
		if j == 0 {
			return Result{Verdict: Composite, Rounds: i + 1, Witness: a}, nil
		}
		x := new(big.Int).Exp(a, exp, n)
		if (j == 1 && x.Cmp(one) != 0) || (j == -1 && x.Cmp(nMinus1) != 0) {
			return Result{Verdict: Composite, Rounds: i + 1, Witness: a}, nil
		}
	}
	return Result{Verdict: ProbablePrime, Rounds: rounds}, nil
}
