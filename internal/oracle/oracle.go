// Package oracle provides reference implementations of the operations of
// package mpint and of the Kronecker symbol, built on mature arbitrary
// precision libraries. They are used to validate the kernels and engines,
// never on the hot path.
package oracle

//go:generate mockgen -destination=mocks/mock_oracle.go -package=mocks github.com/agbru/kroncalc/internal/oracle Oracle

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
)

// Oracle is a trusted implementation of the checked operations.
//
// Values use sign-magnitude semantics: Rsh shifts the magnitude and keeps
// the sign, and TrailingZeros ignores the sign.
type Oracle interface {
	// Name identifies the oracle in reports.
	Name() string
	// Kronecker returns the Kronecker symbol (x/y).
	Kronecker(x, y *big.Int) int
	// Sub returns x - y.
	Sub(x, y *big.Int) *big.Int
	// Rsh returns sign(x) * (|x| >> n).
	Rsh(x *big.Int, n uint) *big.Int
	// TrailingZeros returns the number of trailing zero bits of |x|, x != 0.
	TrailingZeros(x *big.Int) uint
}

// ErrUnknownOracle is returned by Get for unregistered names.
var ErrUnknownOracle = errors.New("oracle: unknown oracle")

var (
	registryMu sync.RWMutex
	registry   = map[string]Oracle{}
)

func init() {
	MustRegister(BigOracle{})
}

// Register makes o available under its name.
func Register(o Oracle) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[o.Name()]; dup {
		return fmt.Errorf("oracle: %q already registered", o.Name())
	}
	registry[o.Name()] = o
	return nil
}

// MustRegister is like Register but panics on a duplicate name.
func MustRegister(o Oracle) {
	if err := Register(o); err != nil {
		panic(err)
	}
}

// Get returns the oracle registered under name.
func Get(name string) (Oracle, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if o, ok := registry[name]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownOracle, name, listLocked())
}

// List returns the registered oracle names in sorted order.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return listLocked()
}

func listLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// twoFactor returns (x/2) for odd x given x mod 8.
func twoFactor(r uint) int {
	if r == 3 || r == 5 {
		return -1
	}
	return 1
}
