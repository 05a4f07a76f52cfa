// Package mpint implements a sign-magnitude multi-precision integer and the
// small set of operations needed by the binary Kronecker algorithm:
// comparison, negation, absolute value, trailing-zero count, right shift
// and same-sign subtraction.
//
// The word-level work is delegated to a kernel.Backend held by an Ops
// value, so the backend is chosen once by the caller and passed around
// explicitly:
//
//	b, _ := kernel.Select(kernel.VersionAuto)
//	ops := mpint.NewOps(b)
//	d, err := ops.Sub(new(mpint.Int), x, y)
package mpint

import (
	"math/bits"

	"github.com/agbru/kroncalc/internal/kernel"
)

// Word is a single 64-bit digit.
type Word = kernel.Word

// Int is an arbitrary-size signed integer in sign-magnitude form.
//
// The magnitude is stored least-significant word first in digits, whose
// length is the capacity of the value. The absolute value of signSize is
// the number of significant words and its sign is the sign of the value;
// zero means the value is zero. Words past the significant size hold
// unspecified data.
//
// The zero value is ready to use and represents 0. As with math/big,
// copying an Int by assignment shares its buffer; use Set or Clone for a
// deep copy.
type Int struct {
	digits   []Word
	signSize int
}

// NewInt returns a new Int set to x.
func NewInt(x int64) *Int {
	return new(Int).SetInt64(x)
}

// FromWords returns a new Int whose magnitude is ws (least-significant word
// first), negated when neg is set and the magnitude is non-zero.
func FromWords(ws []Word, neg bool) *Int {
	return new(Int).SetWords(ws, neg)
}

// SetInt64 sets z to x and returns z.
func (z *Int) SetInt64(x int64) *Int {
	if x == 0 {
		z.signSize = 0
		return z
	}
	u := uint64(x)
	if x < 0 {
		u = -u
	}
	z.grow(1)
	z.digits[0] = u
	z.signSize = 1
	if x < 0 {
		z.signSize = -1
	}
	return z
}

// SetWords copies ws into z and scans for the most significant non-zero
// word. An all-zero slice yields 0 regardless of its length.
func (z *Int) SetWords(ws []Word, neg bool) *Int {
	n := len(ws)
	for n > 0 && ws[n-1] == 0 {
		n--
	}
	z.grow(n)
	copy(z.digits, ws[:n])
	z.signSize = n
	if neg {
		z.signSize = -n
	}
	return z
}

// SetZero sets z to 0 and returns z. The buffer is kept.
func (z *Int) SetZero() *Int {
	z.signSize = 0
	return z
}

// Set sets z to a deep copy of x and returns z.
func (z *Int) Set(x *Int) *Int {
	if z == x {
		return z
	}
	n := x.Size()
	z.grow(n)
	copy(z.digits, x.digits[:n])
	z.signSize = x.signSize
	return z
}

// Clone returns a deep copy of x.
func (x *Int) Clone() *Int {
	return new(Int).Set(x)
}

// Swap exchanges the contents of z and x without copying digits.
func (z *Int) Swap(x *Int) {
	z.digits, x.digits = x.digits, z.digits
	z.signSize, x.signSize = x.signSize, z.signSize
}

// grow makes sure z can hold n words. Existing significant words are kept.
func (z *Int) grow(n int) {
	if n <= len(z.digits) {
		return
	}
	d := make([]Word, n)
	copy(d, z.digits[:z.Size()])
	z.digits = d
}

// ─────────────────────────────────────────────────────────────────────────────
// Accessors and predicates
// ─────────────────────────────────────────────────────────────────────────────

// Size returns the number of significant words.
func (x *Int) Size() int {
	if x.signSize < 0 {
		return -x.signSize
	}
	return x.signSize
}

// Cap returns the number of allocated words.
func (x *Int) Cap() int { return len(x.digits) }

// Sign returns -1, 0 or +1.
func (x *Int) Sign() int {
	switch {
	case x.signSize < 0:
		return -1
	case x.signSize > 0:
		return 1
	}
	return 0
}

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool { return x.signSize == 0 }

// IsPositive reports whether x > 0.
func (x *Int) IsPositive() bool { return x.signSize > 0 }

// IsNegative reports whether x < 0.
func (x *Int) IsNegative() bool { return x.signSize < 0 }

// IsOdd reports whether the least significant bit of |x| is set.
func (x *Int) IsOdd() bool { return x.signSize != 0 && x.digits[0]&1 == 1 }

// IsEven reports whether x is even. Zero is even.
func (x *Int) IsEven() bool { return !x.IsOdd() }

// Word returns the i-th significant word of |x|, or 0 when i is past the
// significant size.
func (x *Int) Word(i int) Word {
	if i < 0 || i >= x.Size() {
		return 0
	}
	return x.digits[i]
}

// Words returns a copy of the significant words of |x|.
func (x *Int) Words() []Word {
	n := x.Size()
	out := make([]Word, n)
	copy(out, x.digits[:n])
	return out
}

// BitLen returns the length of |x| in bits. The bit length of 0 is 0.
func (x *Int) BitLen() int {
	n := x.Size()
	if n == 0 {
		return 0
	}
	return (n-1)*kernel.WordBits + bits.Len64(x.digits[n-1])
}

// ─────────────────────────────────────────────────────────────────────────────
// Sign manipulation and comparison
// ─────────────────────────────────────────────────────────────────────────────

// Abs sets z to |x| and returns z.
func (z *Int) Abs(x *Int) *Int {
	z.Set(x)
	if z.signSize < 0 {
		z.signSize = -z.signSize
	}
	return z
}

// Neg sets z to -x and returns z.
func (z *Int) Neg(x *Int) *Int {
	z.Set(x)
	z.signSize = -z.signSize
	return z
}

// Equal reports whether x and y hold the same value.
func (x *Int) Equal(y *Int) bool {
	if x.signSize != y.signSize {
		return false
	}
	for i := x.Size() - 1; i >= 0; i-- {
		if x.digits[i] != y.digits[i] {
			return false
		}
	}
	return true
}

// Cmp compares x and y and returns -1, 0 or +1.
//
// When the signed sizes differ their difference already orders the values.
// Otherwise the words are compared from the most significant down, with
// the result inverted for negative values.
func (x *Int) Cmp(y *Int) int {
	if x.signSize != y.signSize {
		if x.signSize < y.signSize {
			return -1
		}
		return 1
	}
	r := cmpMag(x.digits[:x.Size()], y.digits[:y.Size()])
	if x.signSize < 0 {
		return -r
	}
	return r
}

// CmpInt64 compares x with a machine integer.
func (x *Int) CmpInt64(y int64) int {
	var t Int
	var buf [1]Word
	t.digits = buf[:]
	return x.Cmp(t.SetInt64(y))
}

// cmpMag compares two magnitudes of equal length.
func cmpMag(x, y []Word) int {
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
