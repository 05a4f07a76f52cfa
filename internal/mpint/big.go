package mpint

import (
	"encoding/binary"
	"math/big"
	"strings"
)

// FromBig returns a new Int with the value of b.
func FromBig(b *big.Int) *Int {
	return new(Int).SetBig(b)
}

// SetBig sets z to the value of b and returns z. The conversion goes
// through the big-endian byte form so that it does not depend on the
// platform size of big.Word.
func (z *Int) SetBig(b *big.Int) *Int {
	bs := b.Bytes()
	n := (len(bs) + 7) / 8
	ws := make([]Word, n)
	for i := range ws {
		end := len(bs) - 8*i
		start := max(end-8, 0)
		var w Word
		for _, c := range bs[start:end] {
			w = w<<8 | Word(c)
		}
		ws[i] = w
	}
	return z.SetWords(ws, b.Sign() < 0)
}

// Big returns x as a new *big.Int.
func (x *Int) Big() *big.Int {
	n := x.Size()
	buf := make([]byte, 8*n)
	for i := 0; i < n; i++ {
		binary.BigEndian.PutUint64(buf[8*(n-1-i):], x.digits[i])
	}
	b := new(big.Int).SetBytes(buf)
	if x.signSize < 0 {
		b.Neg(b)
	}
	return b
}

// ParseOperand accepts either a hexadecimal value with a "0x" prefix, as
// ParseHex, or a signed decimal value. It is the input format of the
// command line, the REPL and the HTTP API.
func ParseOperand(s string) (*Int, error) {
	s = strings.TrimSpace(s)
	digits := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return ParseHex(s)
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &FormatError{Input: s, Reason: "not a decimal or 0x-prefixed hex value"}
	}
	return FromBig(b), nil
}
