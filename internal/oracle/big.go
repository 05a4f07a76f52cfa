package oracle

import "math/big"

// BigOracle implements Oracle with math/big.
type BigOracle struct{}

// Name returns "big".
func (BigOracle) Name() string { return "big" }

// Kronecker extends big.Jacobi to even and negative y by taking out the
// factors 2 and -1 of y first.
func (BigOracle) Kronecker(x, y *big.Int) int {
	if y.Sign() == 0 {
		if x.CmpAbs(big.NewInt(1)) == 0 {
			return 1
		}
		return 0
	}
	if x.Bit(0) == 0 && y.Bit(0) == 0 {
		return 0
	}

	k := 1
	if y.Sign() < 0 && x.Sign() < 0 {
		k = -k
	}
	n := new(big.Int).Abs(y)
	if v := n.TrailingZeroBits(); v > 0 {
		n.Rsh(n, v)
		if v&1 == 1 {
			r := new(big.Int).Mod(x, big.NewInt(8))
			k *= twoFactor(uint(r.Uint64()))
		}
	}
	return k * big.Jacobi(x, n)
}

// Sub returns x - y.
func (BigOracle) Sub(x, y *big.Int) *big.Int {
	return new(big.Int).Sub(x, y)
}

// Rsh shifts |x| and keeps the sign of x.
func (BigOracle) Rsh(x *big.Int, n uint) *big.Int {
	z := new(big.Int).Abs(x)
	z.Rsh(z, n)
	if x.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

// TrailingZeros returns the trailing zero bits of |x|.
func (BigOracle) TrailingZeros(x *big.Int) uint {
	return x.TrailingZeroBits()
}
