// Package calculator defines the arithmetic operation registry and the
// calculation record domain type.
package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrUnknownOperation is returned when looking up an operation name that
// is not registered.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrDivisionByZero is returned by divide when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// ErrInvalidNumber is returned when operand text cannot be parsed as a decimal.
var ErrInvalidNumber = errors.New("invalid number")

// Operation names registered in the registry.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
)

// Func is a pure binary arithmetic function over exact decimals.
type Func func(a, b decimal.Decimal) (decimal.Decimal, error)

// registry maps operation names to their functions. Stateless and
// never mutated after init, so it is safe for concurrent lookups.
var registry = map[string]Func{
	OpAdd: func(a, b decimal.Decimal) (decimal.Decimal, error) {
		return a.Add(b), nil
	},
	OpSubtract: func(a, b decimal.Decimal) (decimal.Decimal, error) {
		return a.Sub(b), nil
	},
	OpMultiply: func(a, b decimal.Decimal) (decimal.Decimal, error) {
		return a.Mul(b), nil
	},
	OpDivide: func(a, b decimal.Decimal) (decimal.Decimal, error) {
		if b.IsZero() {
			return decimal.Decimal{}, ErrDivisionByZero
		}
		return a.Div(b), nil
	},
}

// Lookup returns the function registered under name.
// Returns ErrUnknownOperation if no such operation exists.
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return fn, nil
}

// Apply looks up name and invokes it with the given operands.
func Apply(name string, a, b decimal.Decimal) (decimal.Decimal, error) {
	fn, err := Lookup(name)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return fn(a, b)
}

// IsRegistered reports whether name is a known operation.
func IsRegistered(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names returns all registered operation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseOperand parses operand text into an exact decimal.
// Returns ErrInvalidNumber if the text is not a valid decimal.
func ParseOperand(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return d, nil
}

// SetDivisionPrecision sets the number of decimal places kept by
// non-terminating divisions. Called once at startup from config.
func SetDivisionPrecision(places int) {
	if places > 0 {
		decimal.DivisionPrecision = places
	}
}
