package kernel

import (
	"math/bits"
	"runtime"
)

func init() {
	registerBuiltin(mustBackend(BackendSpec{
		Version:  VersionUnrolled,
		Name:     "unrolled",
		Priority: 20,
		NTZ:      ntzPopcount,
		Shr:      shrUnrolled,
		Sub:      subUnrolled,
		Supported: func(f CPUFeatures) bool {
			// bits.OnesCount64 lowers to POPCNT only when the CPU has it. Its
			// software path makes ntzPopcount slower than the scalar loop, so
			// auto must not pick this backend on such amd64 parts.
			return runtime.GOARCH != "amd64" || f.POPCNT
		},
	}))
}

// ntzPopcount isolates the trailing zeros of w as a mask of ones and counts
// them.
func ntzPopcount(w Word) uint {
	return uint(bits.OnesCount64(^w & (w - 1)))
}

func shrUnrolled(z, x []Word, s uint) bool {
	n := len(x)
	if n == 0 {
		return true
	}
	if s == 0 {
		copy(z[:n], x)
		return z[n-1] == 0
	}
	t := WordBits - s
	i := 1
	for ; i+3 < n; i += 4 {
		x0, x1, x2, x3, x4 := x[i-1], x[i], x[i+1], x[i+2], x[i+3]
		z[i-1] = x0>>s | x1<<t
		z[i] = x1>>s | x2<<t
		z[i+1] = x2>>s | x3<<t
		z[i+2] = x3>>s | x4<<t
	}
	for ; i < n; i++ {
		z[i-1] = x[i-1]>>s | x[i]<<t
	}
	z[n-1] = x[n-1] >> s
	return z[n-1] == 0
}

func subUnrolled(z, x, y []Word) bool {
	xn, yn := len(x), len(y)
	if xn == 0 {
		return true
	}
	var c uint64
	i := 0
	for ; i+4 <= yn; i += 4 {
		x0, x1, x2, x3 := x[i], x[i+1], x[i+2], x[i+3]
		y0, y1, y2, y3 := y[i], y[i+1], y[i+2], y[i+3]
		z[i], c = bits.Sub64(x0, y0, c)
		z[i+1], c = bits.Sub64(x1, y1, c)
		z[i+2], c = bits.Sub64(x2, y2, c)
		z[i+3], c = bits.Sub64(x3, y3, c)
	}
	for ; i < yn; i++ {
		z[i], c = bits.Sub64(x[i], y[i], c)
	}
	for ; i < xn && c != 0; i++ {
		z[i], c = bits.Sub64(x[i], 0, c)
	}
	copy(z[i:xn], x[i:xn])
	return z[xn-1] == 0
}
