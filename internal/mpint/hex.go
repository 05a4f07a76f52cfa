package mpint

import (
	"fmt"
	"strconv"
	"strings"
)

// hexChunk is the number of hex characters parsed at once. Two chunks make
// one word.
const hexChunk = 8

// ParseHex returns the value of s, in the form "-"? "0x"? hexdigit+.
func ParseHex(s string) (*Int, error) {
	return new(Int).SetString(s)
}

// MustParseHex is like ParseHex but panics on malformed input. It is meant
// for constants and tests.
func MustParseHex(s string) *Int {
	z, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return z
}

// SetString sets z to the value of the hexadecimal string s and returns z.
// On error z is left unchanged.
//
// A leading "0" must be followed by "x": other bases are not supported.
// Digits are consumed from the least significant end in 32-bit chunks,
// two chunks per word.
func (z *Int) SetString(s string) (*Int, error) {
	in := s
	neg := false
	if len(s) >= 2 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '0' {
		if s[1] != 'x' && s[1] != 'X' {
			return nil, &FormatError{Input: in, Reason: "unsupported base prefix " + strconv.Quote(s[:2])}
		}
		s = s[2:]
	}
	if s == "" {
		return nil, &FormatError{Input: in, Reason: "no digits"}
	}
	if i := strings.IndexFunc(s, func(r rune) bool { return !isHexDigit(r) }); i >= 0 {
		return nil, &FormatError{Input: in, Reason: fmt.Sprintf("invalid hex digit %q", s[i:i+1])}
	}

	nChunks := (len(s) + hexChunk - 1) / hexChunk
	ws := make([]Word, (nChunks+1)/2)
	for j := 0; j < nChunks; j++ {
		end := len(s) - j*hexChunk
		start := max(end-hexChunk, 0)
		v, err := strconv.ParseUint(s[start:end], 16, 32)
		if err != nil {
			return nil, &FormatError{Input: in, Reason: err.Error()}
		}
		ws[j/2] |= Word(v) << (32 * (j % 2))
	}
	return z.SetWords(ws, neg), nil
}

func isHexDigit(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// Hex returns x as "-"? "0x" followed by the lowercase digits. The most
// significant word is printed without padding and every lower word is
// padded to 16 characters. Zero is "0x0".
func (x *Int) Hex() string {
	n := x.Size()
	if n == 0 {
		return "0x0"
	}
	var b strings.Builder
	b.Grow(3 + n*16)
	if x.signSize < 0 {
		b.WriteByte('-')
	}
	b.WriteString("0x")
	b.WriteString(strconv.FormatUint(x.digits[n-1], 16))
	for i := n - 2; i >= 0; i-- {
		fmt.Fprintf(&b, "%016x", x.digits[i])
	}
	return b.String()
}

// String implements fmt.Stringer. It is the same as Hex.
func (x *Int) String() string { return x.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (x *Int) MarshalText() ([]byte, error) {
	return []byte(x.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (z *Int) UnmarshalText(text []byte) error {
	_, err := z.SetString(string(text))
	return err
}
