// Package verify cross-checks the big-integer core against trusted oracles
// on a reproducible corpus of operands.
//
// A corpus is a list of operand pairs at growing bit lengths. Each named
// check runs over the whole corpus for one backend and produces a Report;
// the orchestration layer runs one backend per goroutine.
package verify

import (
	"math"
	"math/big"
	"math/rand"
)

// Case kinds.
const (
	KindEdge         = "edge"
	KindOdd          = "odd"
	KindEven         = "even"
	KindNegative     = "negative"
	KindCommonFactor = "common-factor"
	KindEvenModulus  = "even-modulus"
)

// Case is one operand pair of the corpus.
type Case struct {
	// Bits is the nominal operand length the pair was generated for.
	Bits int
	// Kind tells how the pair was derived.
	Kind string
	X, Y *big.Int
}

// CorpusConfig sizes a corpus. Operand lengths are Step*i + Offset bits for
// i in [0, Lengths).
type CorpusConfig struct {
	Seed    int64
	Lengths int
	Step    int
	Offset  int
}

// DefaultCorpus matches the classic Kronecker benchmark series: 100 lengths
// from 100 to 10000 bits.
var DefaultCorpus = CorpusConfig{Seed: 0, Lengths: 100, Step: 100, Offset: 100}

// QuickCorpus is small enough for unit tests and the server self-check.
var QuickCorpus = CorpusConfig{Seed: 0, Lengths: 8, Step: 64, Offset: 32}

// Length returns the operand length of step i.
func (c CorpusConfig) Length(i int) int { return c.Step*i + c.Offset }

// Size returns the number of cases NewCorpus produces.
func (c CorpusConfig) Size() int { return len(edgeCases()) + 5*max(c.Lengths, 0) }

// NewCorpus generates the corpus for cfg. The same configuration always
// yields the same cases.
func NewCorpus(cfg CorpusConfig) []Case {
	rng := rand.New(rand.NewSource(cfg.Seed))
	cases := make([]Case, 0, cfg.Size())
	cases = append(cases, edgeCases()...)

	for i := 0; i < cfg.Lengths; i++ {
		bits := cfg.Length(i)
		if bits < 2 {
			bits = 2
		}
		x, y := randomOdd(rng, bits), randomOdd(rng, bits)
		if x.Cmp(y) > 0 {
			x, y = y, x
		}
		g := randomOdd(rng, 2+rng.Intn(63))

		cases = append(cases,
			Case{Bits: bits, Kind: KindOdd, X: x, Y: y},
			Case{Bits: bits, Kind: KindEven, X: new(big.Int).Lsh(x, uint(1+rng.Intn(130))), Y: y},
			Case{Bits: bits, Kind: KindNegative, X: new(big.Int).Neg(y), Y: x},
			Case{Bits: bits, Kind: KindCommonFactor, X: new(big.Int).Mul(x, g), Y: new(big.Int).Mul(y, g)},
			Case{Bits: bits, Kind: KindEvenModulus, X: x, Y: new(big.Int).Lsh(y, uint(1+rng.Intn(70)))},
		)
	}
	return cases
}

func edgeCases() []Case {
	pairs := [][2]*big.Int{
		{big.NewInt(0), big.NewInt(0)},
		{big.NewInt(1), big.NewInt(0)},
		{big.NewInt(-1), big.NewInt(0)},
		{big.NewInt(2), big.NewInt(0)},
		{big.NewInt(0), big.NewInt(1)},
		{big.NewInt(0), big.NewInt(-1)},
		{big.NewInt(107), big.NewInt(281)},
		{big.NewInt(-107), big.NewInt(281)},
		{big.NewInt(5), big.NewInt(-6)},
		{big.NewInt(4), big.NewInt(6)},
		{big.NewInt(math.MinInt64), big.NewInt(3)},
		{big.NewInt(3), big.NewInt(math.MinInt64)},
		{big.NewInt(math.MaxInt64), big.NewInt(math.MinInt64 + 1)},
		{new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(3)},
		{new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 128)), big.NewInt(7)},
		{new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), new(big.Int).Lsh(big.NewInt(1), 64)},
	}
	cases := make([]Case, len(pairs))
	for i, p := range pairs {
		bits := max(p[0].BitLen(), p[1].BitLen())
		cases[i] = Case{Bits: bits, Kind: KindEdge, X: p[0], Y: p[1]}
	}
	return cases
}

// randomOdd returns a random odd value of exactly bits bits.
func randomOdd(rng *rand.Rand, bits int) *big.Int {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	x := new(big.Int).Rand(rng, limit)
	x.SetBit(x, bits-1, 1)
	return x.SetBit(x, 0, 1)
}
