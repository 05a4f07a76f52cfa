//go:build gmp

// This file provides a GMP-backed oracle, compiled only with the "gmp" build
// tag so that the default build needs neither cgo nor libgmp:
//
//	go test -tags=gmp ./...
//
// System requirements: libgmp-dev (Debian/Ubuntu) or `brew install gmp`.

package oracle

import (
	"math/big"

	"github.com/ncw/gmp"
)

func init() {
	MustRegister(GMPOracle{})
}

// GMPOracle implements Oracle with github.com/ncw/gmp. The Kronecker symbol
// is computed with the classical modular-reduction algorithm, which makes it
// independent of both math/big and the binary engine.
type GMPOracle struct{}

// Name returns "gmp".
func (GMPOracle) Name() string { return "gmp" }

func toGMP(x *big.Int) *gmp.Int {
	z := new(gmp.Int).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

func fromGMP(g *gmp.Int) *big.Int {
	z := new(big.Int).SetBytes(g.Bytes())
	if g.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

// low3 returns |x| mod 8.
func low3(x *gmp.Int) uint {
	bs := x.Bytes()
	if len(bs) == 0 {
		return 0
	}
	return uint(bs[len(bs)-1] & 7)
}

// Kronecker returns (x/y).
func (GMPOracle) Kronecker(x, y *big.Int) int {
	a, b := toGMP(x), toGMP(y)
	one := gmp.NewInt(1)

	if b.Sign() == 0 {
		if new(gmp.Int).Abs(a).Cmp(one) == 0 {
			return 1
		}
		return 0
	}
	if low3(a)&1 == 0 && low3(b)&1 == 0 {
		return 0
	}

	k := 1
	v := 0
	for low3(b)&1 == 0 {
		b.Rsh(b, 1)
		v++
	}
	if v&1 == 1 {
		r := low3(a)
		if a.Sign() < 0 {
			r = (8 - r) & 7
		}
		k = twoFactor(r)
	}
	if b.Sign() < 0 {
		b.Neg(b)
		if a.Sign() < 0 {
			k = -k
		}
	}

	// b is odd and positive from here on.
	a.Mod(a, b)
	if a.Sign() < 0 {
		a.Add(a, b)
	}
	t := new(gmp.Int)
	for a.Sign() != 0 {
		v = 0
		for low3(a)&1 == 0 {
			a.Rsh(a, 1)
			v++
		}
		if v&1 == 1 {
			k *= twoFactor(low3(b))
		}
		if low3(a)&low3(b)&2 != 0 {
			k = -k
		}
		t.Mod(b, a)
		b.Set(a)
		a.Set(t)
	}
	if b.Cmp(one) == 0 {
		return k
	}
	return 0
}

// Sub returns x - y.
func (GMPOracle) Sub(x, y *big.Int) *big.Int {
	return fromGMP(new(gmp.Int).Sub(toGMP(x), toGMP(y)))
}

// Rsh shifts |x| and keeps the sign of x.
func (GMPOracle) Rsh(x *big.Int, n uint) *big.Int {
	z := toGMP(x)
	z.Abs(z)
	z.Rsh(z, n)
	if x.Sign() < 0 {
		z.Neg(z)
	}
	return fromGMP(z)
}

// TrailingZeros returns the trailing zero bits of |x|.
func (GMPOracle) TrailingZeros(x *big.Int) uint {
	z := toGMP(x)
	z.Abs(z)
	var n uint
	for z.Sign() != 0 && low3(z)&1 == 0 {
		z.Rsh(z, 1)
		n++
	}
	return n
}
