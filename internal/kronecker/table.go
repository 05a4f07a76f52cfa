// Package kronecker computes the Kronecker symbol (x/y) with a binary,
// division-free algorithm. Two engines share the same control flow: Int64
// works on machine integers and Engine works on mpint values through an
// mpint.Ops, using only trailing-zero counts, shifts, subtraction and
// lookups in a small sign table.
package kronecker

// tbl1[n&7] is the Kronecker symbol (2/n) for odd n: +1 when n = 1 or 7
// (mod 8), -1 when n = 3 or 5 (mod 8). Even indices are never read.
var tbl1 = [8]int{0, 1, 0, -1, 0, -1, 0, 1}

// Table returns a copy of the sign table used for factors of two.
func Table() [8]int { return tbl1 }
