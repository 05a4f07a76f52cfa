package mpint

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/prop"
)

func TestParseHex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string // base 16, as accepted by math/big
	}{
		{"0", "0"},
		{"0x0", "0"},
		{"-0", "0"},
		{"1", "1"},
		{"-1", "-1"},
		{"0xff", "ff"},
		{"FF", "ff"},
		{"-0xDeadBeef", "-deadbeef"},
		{"0x0000000000000000000000001", "1"},
		{"0xABCDEF0123456789a", "abcdef0123456789a"},
		{"0x10000000000000000", "10000000000000000"},
		{"-123456789abcdef0123456789abcdef0123", "-123456789abcdef0123456789abcdef0123"},
	}
	for _, tt := range tests {
		z, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", tt.in, err)
			continue
		}
		want, _ := new(big.Int).SetString(tt.want, 16)
		if got := z.Big(); got.Cmp(want) != 0 {
			t.Errorf("ParseHex(%q) = %x, want %x", tt.in, got, want)
		}
	}
}

func TestParseHexErrors(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "-", "0x", "-0x", "0b101", "012", "0xg", "12z4", "--1", "0x-1", " 1", "1_000"} {
		z, err := ParseHex(in)
		if err == nil {
			t.Errorf("ParseHex(%q) = %v, want error", in, z)
			continue
		}
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseHex(%q) error %v does not match ErrInvalidFormat", in, err)
		}
		var fe *FormatError
		if !errors.As(err, &fe) || fe.Input != in {
			t.Errorf("ParseHex(%q) error %#v lacks the input", in, err)
		}
	}
}

func TestSetStringLeavesValueOnError(t *testing.T) {
	t.Parallel()
	z := NewInt(17)
	if _, err := z.SetString("0xzz"); err == nil {
		t.Fatal("expected error")
	}
	if z.CmpInt64(17) != 0 {
		t.Errorf("value changed to %v", z)
	}
}

func TestHex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		x    *Int
		want string
	}{
		{new(Int), "0x0"},
		{FromWords([]Word{0, 0}, true), "0x0"},
		{NewInt(10), "0xa"},
		{FromWords([]Word{1, 2}, true), "-0x20000000000000001"},
		{FromWords([]Word{0, 0, 0xabc}, false), "0xabc" + strings.Repeat("0", 32)},
	}
	for _, tt := range tests {
		if got := tt.x.Hex(); got != tt.want {
			t.Errorf("Hex() = %q, want %q", got, tt.want)
		}
	}
}

func TestTextMarshaling(t *testing.T) {
	t.Parallel()
	x := MustParseHex("-0x1234567890abcdef1234")
	text, err := x.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var y Int
	if err := y.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if !x.Equal(&y) {
		t.Errorf("round trip gave %v, want %v", &y, x)
	}
	if err := y.UnmarshalText([]byte("nope")); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("UnmarshalText(nope) = %v", err)
	}
}

func TestHexRoundTrip_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("ParseHex(x.Hex()) == x", prop.ForAll(
		func(x *Int) bool {
			y, err := ParseHex(x.Hex())
			return err == nil && y.Equal(x)
		},
		genInt(),
	))

	properties.Property("Hex agrees with math/big", prop.ForAll(
		func(x *Int) bool {
			b := x.Big()
			want := "0x" + b.Text(16)
			if b.Sign() < 0 {
				want = "-0x" + new(big.Int).Neg(b).Text(16)
			}
			return x.Hex() == want
		},
		genInt(),
	))

	properties.TestingRun(t)
}

func FuzzParseHex(f *testing.F) {
	for _, s := range []string{"0x0", "-0x1", "ff", "0x123456789abcdef01", "0q", ""} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		x, err := ParseHex(s)
		if err != nil {
			return
		}
		y, err := ParseHex(x.Hex())
		if err != nil {
			t.Fatalf("ParseHex(%q) failed on own output %q: %v", s, x.Hex(), err)
		}
		if !x.Equal(y) {
			t.Fatalf("round trip of %q: %v != %v", s, x, y)
		}
	})
}

func TestParseOperand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"-42", -42},
		{" 0x2a ", 42},
		{"-0X2A", -42},
		{"9223372036854775807", 1<<63 - 1},
	}
	for _, tt := range tests {
		got, err := ParseOperand(tt.in)
		if err != nil {
			t.Errorf("ParseOperand(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(NewInt(tt.want)) {
			t.Errorf("ParseOperand(%q) = %s, want %d", tt.in, got.Hex(), tt.want)
		}
	}

	for _, bad := range []string{"", "ff", "0xg", "1e3", "--1"} {
		if _, err := ParseOperand(bad); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseOperand(%q) error = %v, want ErrInvalidFormat", bad, err)
		}
	}
}
