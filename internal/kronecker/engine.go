package kronecker

import (
	"errors"

	"github.com/agbru/kroncalc/internal/mpint"
)

// ErrInvalidModulus is returned by Jacobi when n is not odd and positive.
var ErrInvalidModulus = errors.New("kronecker: Jacobi modulus must be odd and positive")

// Engine computes Kronecker symbols of mpint values with a fixed kernel
// backend. An Engine holds no mutable state and is safe for concurrent use.
type Engine struct {
	ops mpint.Ops
}

// New returns an Engine running on ops.
func New(ops mpint.Ops) *Engine {
	return &Engine{ops: ops}
}

// Ops returns the operations context of the engine.
func (e *Engine) Ops() mpint.Ops { return e.ops }

// Symbol returns the Kronecker symbol (x/y). The operands are not modified.
//
// Parity, mod 4 and mod 8 tests only look at the least significant word.
func (e *Engine) Symbol(in, jn *mpint.Int) int {
	ops := e.ops
	x, y := in.Clone(), jn.Clone()

	if y.IsZero() {
		if x.Size() == 1 && x.Word(0) == 1 {
			return 1
		}
		return 0
	}
	if (x.Word(0)|y.Word(0))&1 == 0 {
		return 0
	}

	k := 1
	v := ops.TrailingZeros(y)
	ops.Rsh(y, y, v)
	if v&1 == 1 {
		k = tbl1[x.Word(0)&7]
	}
	if y.IsNegative() && x.IsNegative() {
		k = -k
	}
	y.Abs(y)
	if x.IsNegative() && y.Word(0)&3 == 3 {
		k = -k
	}
	x.Abs(x)

	r := new(mpint.Int)
	for {
		if x.IsZero() {
			if y.CmpInt64(1) > 0 {
				return 0
			}
			return k
		}

		v := ops.TrailingZeros(x)
		ops.Rsh(x, x, v)
		if v&1 == 1 {
			k *= tbl1[y.Word(0)&7]
		}

		// Both operands are non-negative here, so Sub cannot fail.
		if _, err := ops.Sub(r, y, x); err != nil {
			panic(err)
		}
		if r.IsPositive() {
			if x.Word(0)&y.Word(0)&2 != 0 {
				k = -k
			}
			y.Swap(x)
			x.Swap(r)
		} else {
			x.Abs(r)
		}
	}
}

// Jacobi returns the Jacobi symbol (a/n), which is only defined for odd
// positive n.
func (e *Engine) Jacobi(a, n *mpint.Int) (int, error) {
	if !n.IsPositive() || n.IsEven() {
		return 0, ErrInvalidModulus
	}
	return e.Symbol(a, n), nil
}

// SymbolInt64 lifts x and y to mpint values and runs the big engine on them.
func (e *Engine) SymbolInt64(x, y int64) int {
	return e.Symbol(mpint.NewInt(x), mpint.NewInt(y))
}
