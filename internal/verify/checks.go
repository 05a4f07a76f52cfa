package verify

import (
	"errors"
	"fmt"
	"math/big"

	apperrors "github.com/agbru/kroncalc/internal/errors"
	"github.com/agbru/kroncalc/internal/kernel"
	"github.com/agbru/kroncalc/internal/kronecker"
	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/oracle"
)

// Check names.
const (
	CheckOracleKronecker   = "oracle-kronecker"
	CheckOracleSub         = "oracle-sub"
	CheckOracleRsh         = "oracle-rsh"
	CheckOracleNTZ         = "oracle-ntz"
	CheckCrossDomain       = "cross-domain"
	CheckBackendEquivalent = "backend-equivalence"
	CheckRoundTrip         = "round-trip"
)

// errSkip marks a case the check does not apply to.
var errSkip = errors.New("verify: case not applicable")

// Env is what a check runs against.
type Env struct {
	Ops    mpint.Ops
	Oracle oracle.Oracle
	engine *kronecker.Engine
}

// NewEnv binds ops and an oracle. A nil oracle selects the math/big one.
func NewEnv(ops mpint.Ops, o oracle.Oracle) *Env {
	if o == nil {
		o = oracle.BigOracle{}
	}
	return &Env{Ops: ops, Oracle: o, engine: kronecker.New(ops)}
}

type caseCheck func(env *Env, c Case) error

var checkOrder = []string{
	CheckOracleKronecker,
	CheckOracleSub,
	CheckOracleRsh,
	CheckOracleNTZ,
	CheckCrossDomain,
	CheckBackendEquivalent,
	CheckRoundTrip,
}

var checkFuncs = map[string]caseCheck{
	CheckOracleKronecker:   checkKronecker,
	CheckOracleSub:         checkSub,
	CheckOracleRsh:         checkRsh,
	CheckOracleNTZ:         checkNTZ,
	CheckCrossDomain:       checkCrossDomain,
	CheckBackendEquivalent: checkBackendEquivalence,
	CheckRoundTrip:         checkRoundTrip,
}

// Checks returns every check name in execution order.
func Checks() []string {
	return append([]string(nil), checkOrder...)
}

func mismatch(input string, got, want any) error {
	return apperrors.MismatchError{Input: input, Got: fmt.Sprint(got), Want: fmt.Sprint(want)}
}

func checkKronecker(env *Env, c Case) error {
	x, y := mpint.FromBig(c.X), mpint.FromBig(c.Y)
	got := env.engine.Symbol(x, y)
	want := env.Oracle.Kronecker(c.X, c.Y)
	if got != want {
		return mismatch(fmt.Sprintf("kronecker(%s, %s)", x.Hex(), y.Hex()), got, want)
	}
	if x.Big().Cmp(c.X) != 0 || y.Big().Cmp(c.Y) != 0 {
		return mismatch(fmt.Sprintf("kronecker(%s, %s) operands", x.Hex(), y.Hex()), "modified", "unchanged")
	}
	return nil
}

func checkSub(env *Env, c Case) error {
	a, b := c.X, c.Y
	if a.Sign()*b.Sign() < 0 {
		_, err := env.Ops.Sub(new(mpint.Int), mpint.FromBig(a), mpint.FromBig(b))
		if !errors.Is(err, mpint.ErrUnsupportedOperation) {
			return mismatch(fmt.Sprintf("sub(%s, %s)", mpint.FromBig(a).Hex(), mpint.FromBig(b).Hex()), err, mpint.ErrUnsupportedOperation)
		}
		b = new(big.Int).Neg(b)
	}
	for _, p := range [][2]*big.Int{{a, b}, {b, a}} {
		x, y := mpint.FromBig(p[0]), mpint.FromBig(p[1])
		input := fmt.Sprintf("sub(%s, %s)", x.Hex(), y.Hex())
		want := env.Oracle.Sub(p[0], p[1])

		z, err := env.Ops.Sub(new(mpint.Int), x, y)
		if err != nil {
			return mismatch(input, err, want)
		}
		if z.Big().Cmp(want) != 0 {
			return mismatch(input, z.Hex(), mpint.FromBig(want).Hex())
		}
		// In place, z aliasing x.
		if _, err := env.Ops.Sub(x, x, y); err != nil || x.Big().Cmp(want) != 0 {
			return mismatch(input+" in place", x.Hex(), mpint.FromBig(want).Hex())
		}
	}
	return nil
}

func rshAmounts(c Case) []uint {
	return []uint{0, 1, 63, 64, 65, uint(c.Bits / 2), uint(c.Bits + 1)}
}

func checkRsh(env *Env, c Case) error {
	for _, v := range []*big.Int{c.X, c.Y} {
		x := mpint.FromBig(v)
		for _, n := range rshAmounts(c) {
			want := env.Oracle.Rsh(v, n)
			z := env.Ops.Rsh(new(mpint.Int), x, n)
			if z.Big().Cmp(want) != 0 {
				return mismatch(fmt.Sprintf("rsh(%s, %d)", x.Hex(), n), z.Hex(), mpint.FromBig(want).Hex())
			}
		}
	}
	return nil
}

func checkNTZ(env *Env, c Case) error {
	if c.X.Sign() == 0 && c.Y.Sign() == 0 {
		return errSkip
	}
	for _, v := range []*big.Int{c.X, c.Y} {
		if v.Sign() == 0 {
			continue
		}
		x := mpint.FromBig(v)
		if got, want := env.Ops.TrailingZeros(x), env.Oracle.TrailingZeros(v); got != want {
			return mismatch(fmt.Sprintf("ntz(%s)", x.Hex()), got, want)
		}
	}
	return nil
}

// low64 folds v into an int64 keeping the sign and the low 63 bits of the
// magnitude.
func low64(v *big.Int) int64 {
	m := new(big.Int).Abs(v).Uint64() & (1<<63 - 1)
	if v.Sign() < 0 {
		return -int64(m)
	}
	return int64(m)
}

func checkCrossDomain(env *Env, c Case) error {
	x, y := low64(c.X), low64(c.Y)
	word := kronecker.Int64(x, y)
	if got := env.engine.SymbolInt64(x, y); got != word {
		return mismatch(fmt.Sprintf("kronecker(%d, %d) word vs big", x, y), got, word)
	}
	if want := env.Oracle.Kronecker(big.NewInt(x), big.NewInt(y)); word != want {
		return mismatch(fmt.Sprintf("kronecker(%d, %d)", x, y), word, want)
	}
	return nil
}

// maxEquivalenceWords bounds the random corpus of one equivalence round.
const maxEquivalenceWords = 32

func checkBackendEquivalence(env *Env, c Case) error {
	if c.Kind != KindOdd {
		return errSkip
	}
	cfg := kernel.VerifyConfig{
		Seed:     int64(c.Bits) ^ c.X.Int64(),
		MaxWords: min(c.Bits/kernel.WordBits+1, maxEquivalenceWords),
		Rounds:   1,
	}
	if err := kernel.Verify(env.Ops.Backend(), kernel.Reference(), cfg); err != nil {
		var eq *kernel.EquivalenceError
		if errors.As(err, &eq) {
			return apperrors.MismatchError{Input: eq.Kernel + "(" + eq.Input + ")", Got: eq.Got, Want: eq.Want}
		}
		return err
	}
	return nil
}

func checkRoundTrip(_ *Env, c Case) error {
	for _, v := range []*big.Int{c.X, c.Y} {
		x := mpint.FromBig(v)
		s := x.Hex()
		back, err := mpint.ParseHex(s)
		if err != nil {
			return mismatch("parse("+s+")", err, s)
		}
		if !back.Equal(x) {
			return mismatch("parse("+s+")", back.Hex(), s)
		}
		if back.Big().Cmp(v) != 0 {
			return mismatch("big("+s+")", back.Big().Text(16), v.Text(16))
		}
		w := mpint.FromWords(x.Words(), x.IsNegative())
		if !w.Equal(x) {
			return mismatch("words("+s+")", w.Hex(), s)
		}
	}
	return nil
}
