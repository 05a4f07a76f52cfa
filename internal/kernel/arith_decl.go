// Copyright 2010 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64 || arm64

// WARNING: This file uses //go:linkname to reach unexported vector routines
// of math/big. They are not part of the public API; if this package stops
// compiling after a Go upgrade, compare the declarations below with the
// current math/big/arith_decl.go. The mathbig backend is only built on
// 64-bit targets where big.Word and Word have the same width.

package kernel

import (
	"math/big"
	"unsafe"
)

// subVV computes z = x - y element-wise over len(z) words and returns the borrow.
//
//go:linkname subVV math/big.subVV
func subVV(z, x, y []big.Word) (c big.Word)

// subVW computes z = x - y where y is a single word, and returns the borrow.
//
//go:linkname subVW math/big.subVW
func subVW(z, x []big.Word, y big.Word) (c big.Word)

// bigWords reinterprets ws as a big.Word slice without copying.
func bigWords(ws []Word) []big.Word {
	if len(ws) == 0 {
		return nil
	}
	return unsafe.Slice((*big.Word)(unsafe.Pointer(unsafe.SliceData(ws))), len(ws))
}

// SubVV is the length-guarded entry point to math/big's subVV.
func SubVV(z, x, y []Word) Word {
	if len(z) == 0 {
		return 0
	}
	return Word(subVV(bigWords(z), bigWords(x), bigWords(y)))
}

// SubVW is the length-guarded entry point to math/big's subVW.
func SubVW(z, x []Word, y Word) Word {
	if len(z) == 0 {
		return y
	}
	return Word(subVW(bigWords(z), bigWords(x), big.Word(y)))
}
