package calculator

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one evaluated calculation. Records are value types and are
// never mutated after construction; Result is always the value of
// applying Operation to (A, B) at creation time.
type Record struct {
	A         decimal.Decimal
	B         decimal.Decimal
	Operation string
	Result    decimal.Decimal
	CreatedAt time.Time
}

// NewRecord builds a Record by resolving the operation and applying it.
// Lookup and arithmetic failures propagate unchanged; no record is
// produced on failure.
func NewRecord(a, b decimal.Decimal, operation string) (Record, error) {
	result, err := Apply(operation, a, b)
	if err != nil {
		return Record{}, err
	}

	return Record{
		A:         a,
		B:         b,
		Operation: operation,
		Result:    result,
		CreatedAt: time.Now(),
	}, nil
}

// Symbol returns the infix symbol for a registered operation name, or
// the name itself when there is none.
func Symbol(operation string) string {
	switch operation {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return operation
	}
}

// String renders the record as "a op b = result".
func (r Record) String() string {
	return fmt.Sprintf("%s %s %s = %s", r.A, Symbol(r.Operation), r.B, r.Result)
}

// Equal reports whether two records hold the same calculation, comparing
// decimals by value and timestamps by instant.
func (r Record) Equal(other Record) bool {
	return r.A.Equal(other.A) &&
		r.B.Equal(other.B) &&
		r.Operation == other.Operation &&
		r.Result.Equal(other.Result) &&
		r.CreatedAt.Equal(other.CreatedAt)
}
