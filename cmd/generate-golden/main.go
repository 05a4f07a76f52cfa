// Command generate-golden writes the Kronecker symbol golden vectors used
// by the kronecker package tests. The symbols come from the math/big
// oracle, never from the code under test.
//
//	go run ./cmd/generate-golden -out internal/kronecker/testdata/golden.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/agbru/kroncalc/internal/mpint"
	"github.com/agbru/kroncalc/internal/oracle"
)

// Vector is one golden entry. Operands are serialized as signed hex.
type Vector struct {
	X         *mpint.Int `json:"x"`
	Y         *mpint.Int `json:"y"`
	Kronecker int        `json:"kronecker"`
}

func pow(base int64, exp uint) *big.Int {
	return new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(exp)), nil)
}

func addInt(x *big.Int, d int64) *big.Int {
	return new(big.Int).Add(x, big.NewInt(d))
}

// operands returns the fixed operand set: small values around zero, word
// boundaries, Mersenne primes and large powers.
func operands() []*big.Int {
	var ops []*big.Int
	for v := int64(-8); v <= 8; v++ {
		ops = append(ops, big.NewInt(v))
	}
	two64 := pow(2, 64)
	ops = append(ops,
		addInt(two64, -1),
		two64,
		addInt(two64, 1),
		new(big.Int).Neg(addInt(two64, 1)),
		addInt(pow(2, 89), -1),
		addInt(pow(2, 127), -1),
		pow(3, 100),
		new(big.Int).Neg(pow(3, 101)),
		addInt(pow(2, 200), 235),
		new(big.Int).Mul(addInt(pow(2, 127), -1), addInt(pow(2, 89), -1)),
	)
	return ops
}

// generate evaluates every ordered pair of operands.
func generate() []Vector {
	ops := operands()
	o := oracle.BigOracle{}
	out := make([]Vector, 0, len(ops)*len(ops))
	for _, x := range ops {
		for _, y := range ops {
			out = append(out, Vector{X: mpint.FromBig(x), Y: mpint.FromBig(y), Kronecker: o.Kronecker(x, y)})
		}
	}
	return out
}

func write(w io.Writer, vectors []Vector) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(vectors)
}

func main() {
	out := flag.String("out", "internal/kronecker/testdata/golden.json", "Output file.")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	vectors := generate()
	if err := write(f, vectors); err != nil {
		f.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d vectors to %s\n", len(vectors), *out)
}
