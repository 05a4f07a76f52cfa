package mpint

import (
	"github.com/agbru/kroncalc/internal/kernel"
)

// Ops performs the kernel-backed operations on Int values with a fixed
// backend. An Ops is a small immutable value and is safe for concurrent
// use; the Int operands are not.
type Ops struct {
	b *kernel.Backend
}

// NewOps returns an Ops bound to b. A nil backend selects the reference
// backend.
func NewOps(b *kernel.Backend) Ops {
	if b == nil {
		b = kernel.Reference()
	}
	return Ops{b: b}
}

// Backend returns the backend used by o.
func (o Ops) Backend() *kernel.Backend {
	if o.b == nil {
		return kernel.Reference()
	}
	return o.b
}

// Cmp compares x and y. It does not depend on the backend and is provided
// so that callers holding an Ops need nothing else.
func (o Ops) Cmp(x, y *Int) int { return x.Cmp(y) }

// TrailingZeros returns the number of consecutive zero bits at the bottom
// of |x|. It panics with a *PreconditionError when x is zero.
func (o Ops) TrailingZeros(x *Int) uint {
	if x.IsZero() {
		panic(&PreconditionError{Op: "TrailingZeros", Reason: "operand is zero"})
	}
	i := 0
	for x.digits[i] == 0 {
		i++
	}
	return uint(i)*kernel.WordBits + o.Backend().NTZ(x.digits[i])
}

// Rsh sets z to x >> n, shifting the magnitude and keeping the sign, and
// returns z. A result with a zero magnitude is 0. z may be x.
func (o Ops) Rsh(z, x *Int, n uint) *Int {
	size := x.Size()
	if n/kernel.WordBits >= uint(size) {
		return z.SetZero()
	}
	moveD := int(n / kernel.WordBits)
	shift := n % kernel.WordBits
	sign := x.Sign()

	src := x.digits[moveD:size]
	rem := size - moveD
	z.grow(rem)
	copy(z.digits[:rem], src)
	if shift != 0 && o.Backend().Shr(z.digits[:rem], z.digits[:rem], shift) {
		rem--
	}
	z.signSize = rem * sign
	return z
}

// Sub sets z to x - y and returns z.
//
// Operands of opposite signs are rejected with an *OperationError; zero is
// compatible with either sign. The larger magnitude is subtracted from the
// other, flipping the sign of the result when the operands are swapped.
// z may alias x or y.
func (o Ops) Sub(z, x, y *Int) (*Int, error) {
	if x.signSize > 0 && y.signSize < 0 || x.signSize < 0 && y.signSize > 0 {
		return nil, &OperationError{Op: "Sub", Reason: "operands have opposite signs"}
	}
	neg := x.signSize < 0 || y.signSize < 0

	a, b := x, y
	if cmpAbs(a, b) < 0 {
		a, b = b, a
		neg = !neg
	}
	an, bn := a.Size(), b.Size()
	if an == 0 {
		return z.SetZero(), nil
	}
	as, bs := a.digits[:an], b.digits[:bn]
	z.grow(an)
	o.Backend().Sub(z.digits[:an], as, bs)

	n := an
	for n > 0 && z.digits[n-1] == 0 {
		n--
	}
	z.signSize = n
	if neg {
		z.signSize = -n
	}
	return z, nil
}

// cmpAbs compares |x| and |y|.
func cmpAbs(x, y *Int) int {
	xn, yn := x.Size(), y.Size()
	switch {
	case xn < yn:
		return -1
	case xn > yn:
		return 1
	}
	return cmpMag(x.digits[:xn], y.digits[:yn])
}
