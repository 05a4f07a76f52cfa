//go:build amd64 || arm64

package kernel

import "math/bits"

func init() {
	registerBuiltin(mustBackend(BackendSpec{
		Version:  VersionMathBig,
		Name:     "mathbig",
		Priority: 30,
		NTZ:      ntzMathBig,
		Shr:      shrUnrolled,
		Sub:      subMathBig,
	}))
}

// ntzMathBig compiles to TZCNT/BSF on amd64 and RBIT+CLZ on arm64.
func ntzMathBig(w Word) uint {
	return uint(bits.TrailingZeros64(w))
}

func subMathBig(z, x, y []Word) bool {
	xn, yn := len(x), len(y)
	if xn == 0 {
		return true
	}
	c := SubVV(z[:yn], x[:yn], y)
	if xn > yn {
		SubVW(z[yn:xn], x[yn:xn], c)
	}
	return z[xn-1] == 0
}
