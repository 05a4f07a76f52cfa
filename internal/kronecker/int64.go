package kronecker

import "math/bits"

// Int64 returns the Kronecker symbol (x/y) for machine integers.
//
// The working values are moved to unsigned magnitudes once their signs have
// been folded into the result, so math.MinInt64 is handled without
// overflow. tbl1 is symmetric under n -> -n, so reading the low bits of a
// negative two's complement operand gives the same factor as its
// magnitude.
func Int64(x, y int64) int {
	if y == 0 {
		if x == 1 || x == -1 {
			return 1
		}
		return 0
	}
	if x&1 == 0 && y&1 == 0 {
		return 0
	}

	k := 1
	if v := bits.TrailingZeros64(uint64(y)); v > 0 {
		y >>= uint(v)
		if v&1 == 1 {
			k = tbl1[x&7]
		}
	}
	if y < 0 && x < 0 {
		k = -k
	}
	b := abs64(y)
	if x < 0 && b&3 == 3 {
		k = -k
	}
	a := abs64(x)

	for {
		if a == 0 {
			if b > 1 {
				return 0
			}
			return k
		}

		v := bits.TrailingZeros64(a)
		a >>= uint(v)
		if v&1 == 1 {
			k *= tbl1[b&7]
		}

		if b > a {
			if a&b&2 != 0 {
				k = -k
			}
			a, b = b-a, a
		} else {
			a -= b
		}
	}
}

func abs64(x int64) uint64 {
	u := uint64(x)
	if x < 0 {
		u = -u
	}
	return u
}
