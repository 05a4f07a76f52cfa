package kernel

import (
	"fmt"
	"math/rand"
	"slices"
)

// EquivalenceError reports the first input on which a candidate backend
// disagreed with the reference backend.
type EquivalenceError struct {
	Backend string
	Kernel  string
	Input   string
	Got     string
	Want    string
}

// Error implements the error interface.
func (e *EquivalenceError) Error() string {
	return fmt.Sprintf("kernel: backend %q disagrees with reference on %s(%s): got %s, want %s",
		e.Backend, e.Kernel, e.Input, e.Got, e.Want)
}

// Is makes errors.Is(err, ErrNotEquivalent) succeed.
func (e *EquivalenceError) Is(target error) bool { return target == ErrNotEquivalent }

// VerifyConfig sizes an equivalence run.
type VerifyConfig struct {
	// Seed makes the random corpus reproducible.
	Seed int64
	// MaxWords is the largest operand length, in words.
	MaxWords int
	// Rounds is the number of random operands per length.
	Rounds int
}

// QuickCheck is the configuration used when a backend is registered.
var QuickCheck = VerifyConfig{Seed: 1, MaxWords: 9, Rounds: 8}

// Verify runs candidate and reference on the same corpus and returns an
// *EquivalenceError on the first disagreement. Every shift amount from 0 to
// WordBits-1 is covered, both in place and out of place; subtraction
// operands are biased towards words that trigger long borrow chains.
func Verify(candidate, reference *Backend, cfg VerifyConfig) error {
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = QuickCheck.MaxWords
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = QuickCheck.Rounds
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	if err := verifyNTZ(candidate, reference, rng, cfg); err != nil {
		return err
	}
	if err := verifyShr(candidate, reference, rng, cfg); err != nil {
		return err
	}
	return verifySub(candidate, reference, rng, cfg)
}

func verifyNTZ(c, r *Backend, rng *rand.Rand, cfg VerifyConfig) error {
	check := func(w Word) error {
		if got, want := c.NTZ(w), r.NTZ(w); got != want {
			return &EquivalenceError{
				Backend: c.Name(), Kernel: "ntz",
				Input: fmt.Sprintf("%#x", w),
				Got:   fmt.Sprint(got), Want: fmt.Sprint(want),
			}
		}
		return nil
	}
	for b := uint(0); b < WordBits; b++ {
		if err := check(1 << b); err != nil {
			return err
		}
		if err := check((rng.Uint64() | 1) << b); err != nil {
			return err
		}
	}
	for i := 0; i < cfg.Rounds*WordBits; i++ {
		if w := rng.Uint64(); w != 0 {
			if err := check(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyShr(c, r *Backend, rng *rand.Rand, cfg VerifyConfig) error {
	for n := 1; n <= cfg.MaxWords; n++ {
		for round := 0; round < cfg.Rounds; round++ {
			x := randomWords(rng, n)
			for s := uint(0); s < WordBits; s++ {
				zc, zr := make([]Word, n), make([]Word, n)
				lc, lr := c.Shr(zc, x, s), r.Shr(zr, x, s)

				inPlace := slices.Clone(x)
				li := c.Shr(inPlace, inPlace, s)

				if lc != lr || li != lr || !slices.Equal(zc, zr) || !slices.Equal(inPlace, zr) {
					return &EquivalenceError{
						Backend: c.Name(), Kernel: "shr",
						Input: fmt.Sprintf("%#x, %d", x, s),
						Got:   fmt.Sprintf("%#x/%t (in place %#x/%t)", zc, lc, inPlace, li),
						Want:  fmt.Sprintf("%#x/%t", zr, lr),
					}
				}
			}
		}
	}
	return nil
}

func verifySub(c, r *Backend, rng *rand.Rand, cfg VerifyConfig) error {
	check := func(x, y []Word) error {
		n := len(x)
		zc, zr := make([]Word, n), make([]Word, n)
		lc, lr := c.Sub(zc, x, y), r.Sub(zr, x, y)

		aliasX := slices.Clone(x)
		lx := c.Sub(aliasX, aliasX, y)

		if lc != lr || lx != lr || !slices.Equal(zc, zr) || !slices.Equal(aliasX, zr) {
			return &EquivalenceError{
				Backend: c.Name(), Kernel: "sub",
				Input: fmt.Sprintf("%#x, %#x", x, y),
				Got:   fmt.Sprintf("%#x/%t (in place %#x/%t)", zc, lc, aliasX, lx),
				Want:  fmt.Sprintf("%#x/%t", zr, lr),
			}
		}
		return nil
	}

	// Borrow chains and equal operands.
	for n := 1; n <= cfg.MaxWords; n++ {
		x := make([]Word, n)
		x[n-1] = 1
		if err := check(x, []Word{1}); err != nil {
			return err
		}
		ones := make([]Word, n)
		for i := range ones {
			ones[i] = ^Word(0)
		}
		if err := check(ones, ones); err != nil {
			return err
		}
	}

	for xn := 1; xn <= cfg.MaxWords; xn++ {
		for yn := 0; yn <= xn; yn++ {
			for round := 0; round < cfg.Rounds; round++ {
				x, y := randomWords(rng, xn), randomWords(rng, yn)
				if yn == xn && compareWords(x, y) < 0 {
					x, y = y, x
				}
				if err := check(x, y); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// randomWords returns n words with a non-zero top word. Each word is drawn
// from {0, 1, max, random} so that carries and borrows cross word
// boundaries often.
func randomWords(rng *rand.Rand, n int) []Word {
	ws := make([]Word, n)
	for i := range ws {
		switch rng.Intn(4) {
		case 0:
			ws[i] = 0
		case 1:
			ws[i] = 1
		case 2:
			ws[i] = ^Word(0)
		default:
			ws[i] = rng.Uint64()
		}
	}
	if n > 0 && ws[n-1] == 0 {
		ws[n-1] = rng.Uint64() | 1
	}
	return ws
}

// compareWords compares two magnitudes of equal length.
func compareWords(x, y []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
