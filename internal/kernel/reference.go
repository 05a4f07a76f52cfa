package kernel

import "math/bits"

// reference is the portable backend. Its loops are deliberately plain so
// that every other backend can be checked against them.
var reference = mustBackend(BackendSpec{
	Version:  VersionReference,
	Name:     "reference",
	Priority: 10,
	NTZ:      ntzReference,
	Shr:      shrReference,
	Sub:      subReference,
})

// Reference returns the portable backend.
func Reference() *Backend { return reference }

func ntzReference(w Word) uint {
	return uint(bits.TrailingZeros64(w))
}

func shrReference(z, x []Word, s uint) bool {
	n := len(x)
	if n == 0 {
		return true
	}
	if s == 0 {
		copy(z[:n], x)
	} else {
		for i := 1; i < n; i++ {
			z[i-1] = x[i-1]>>s | x[i]<<(WordBits-s)
		}
		z[n-1] = x[n-1] >> s
	}
	return z[n-1] == 0
}

func subReference(z, x, y []Word) bool {
	xn, yn := len(x), len(y)
	if xn == 0 {
		return true
	}
	var c Word
	for i := 0; i < yn; i++ {
		yc := y[i] + c
		if yc < c {
			// y[i] is all ones and the borrow is set: the borrow survives.
			z[i] = x[i]
			continue
		}
		xi := x[i]
		z[i] = xi - yc
		if xi < yc {
			c = 1
		} else {
			c = 0
		}
	}
	for i := yn; i < xn; i++ {
		xi := x[i]
		z[i] = xi - c
		if xi < c {
			c = 1
		} else {
			c = 0
		}
	}
	return z[xn-1] == 0
}
