package history

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/tally/internal/core/calculator"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(zerolog.Nop())
}

func mustRecord(t *testing.T, a, b, op string) calculator.Record {
	t.Helper()

	da, err := decimal.NewFromString(a)
	require.NoError(t, err)
	db, err := decimal.NewFromString(b)
	require.NoError(t, err)

	rec, err := calculator.NewRecord(da, db, op)
	require.NoError(t, err)
	return rec
}

func TestLedger_AppendAndList(t *testing.T) {
	l := newTestLedger(t)
	assert.Empty(t, l.List())

	first := mustRecord(t, "2", "3", calculator.OpAdd)
	second := mustRecord(t, "10", "2", calculator.OpDivide)

	l.Append(first)
	l.Append(second)

	records := l.List()
	require.Len(t, records, 2)
	assert.True(t, records[0].Equal(first))
	assert.True(t, records[1].Equal(second))
}

func TestLedger_ListIsSnapshot(t *testing.T) {
	l := newTestLedger(t)
	l.Append(mustRecord(t, "1", "1", calculator.OpAdd))

	snapshot := l.List()
	l.Append(mustRecord(t, "2", "2", calculator.OpAdd))
	l.Clear()

	// The earlier snapshot is unaffected by later mutations
	require.Len(t, snapshot, 1)
	assert.True(t, snapshot[0].Result.Equal(decimal.NewFromInt(2)))
}

func TestLedger_Clear(t *testing.T) {
	l := newTestLedger(t)
	l.Append(mustRecord(t, "1", "2", calculator.OpAdd))
	l.Append(mustRecord(t, "3", "4", calculator.OpMultiply))

	l.Clear()
	assert.Empty(t, l.List())
	assert.Equal(t, 0, l.Len())

	// Idempotent
	l.Clear()
	assert.Empty(t, l.List())
}

func TestLedger_RemoveAt(t *testing.T) {
	tests := []struct {
		name     string
		position int
		want     bool
		wantLen  int
	}{
		{"first", 0, true, 2},
		{"middle", 1, true, 2},
		{"last", 2, true, 2},
		{"negative", -1, false, 3},
		{"past end", 3, false, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t)
			l.Append(mustRecord(t, "1", "1", calculator.OpAdd))
			l.Append(mustRecord(t, "2", "2", calculator.OpAdd))
			l.Append(mustRecord(t, "3", "3", calculator.OpAdd))

			assert.Equal(t, tt.want, l.RemoveAt(tt.position))
			assert.Equal(t, tt.wantLen, l.Len())
		})
	}
}

func TestLedger_RemoveAt_ClosesGap(t *testing.T) {
	l := newTestLedger(t)
	l.Append(mustRecord(t, "1", "1", calculator.OpAdd))
	l.Append(mustRecord(t, "2", "2", calculator.OpAdd))
	l.Append(mustRecord(t, "3", "3", calculator.OpAdd))

	require.True(t, l.RemoveAt(1))

	records := l.List()
	require.Len(t, records, 2)
	assert.True(t, records[0].A.Equal(decimal.NewFromInt(1)))
	assert.True(t, records[1].A.Equal(decimal.NewFromInt(3)))
}

func TestLedger_FilterByOperation(t *testing.T) {
	l := newTestLedger(t)
	l.Append(mustRecord(t, "1", "1", calculator.OpAdd))
	l.Append(mustRecord(t, "2", "2", calculator.OpMultiply))
	l.Append(mustRecord(t, "3", "3", calculator.OpAdd))
	l.Append(mustRecord(t, "4", "4", calculator.OpMultiply))
	l.Append(mustRecord(t, "5", "5", calculator.OpMultiply))

	matched := l.FilterByOperation(calculator.OpMultiply)
	require.Len(t, matched, 3)

	// Original relative order preserved
	assert.True(t, matched[0].A.Equal(decimal.NewFromInt(2)))
	assert.True(t, matched[1].A.Equal(decimal.NewFromInt(4)))
	assert.True(t, matched[2].A.Equal(decimal.NewFromInt(5)))

	for _, rec := range matched {
		assert.Equal(t, calculator.OpMultiply, rec.Operation)
	}

	assert.Empty(t, l.FilterByOperation("modulo"))
	assert.Empty(t, l.FilterByOperation(calculator.OpDivide))
}

func TestLedger_Replace(t *testing.T) {
	l := newTestLedger(t)
	l.Append(mustRecord(t, "1", "1", calculator.OpAdd))

	replacement := []calculator.Record{
		mustRecord(t, "7", "7", calculator.OpMultiply),
		mustRecord(t, "8", "8", calculator.OpMultiply),
	}
	l.Replace(replacement)

	records := l.List()
	require.Len(t, records, 2)
	assert.True(t, records[0].Equal(replacement[0]))

	l.Replace(nil)
	assert.Empty(t, l.List())
}

func TestLedger_Latest(t *testing.T) {
	l := newTestLedger(t)

	_, ok := l.Latest()
	assert.False(t, ok)

	l.Append(mustRecord(t, "1", "1", calculator.OpAdd))
	want := mustRecord(t, "9", "3", calculator.OpDivide)
	l.Append(want)

	got, ok := l.Latest()
	require.True(t, ok)
	assert.True(t, got.Equal(want))
}

// A failing calculation never reaches the ledger: the factory returns
// an error and the two successful records remain untouched.
func TestLedger_FailedCalculationLeavesHistoryIntact(t *testing.T) {
	l := newTestLedger(t)
	l.Append(mustRecord(t, "2", "3", calculator.OpAdd))
	l.Append(mustRecord(t, "10", "2", calculator.OpDivide))

	four := decimal.NewFromInt(4)
	zero := decimal.NewFromInt(0)
	_, err := calculator.NewRecord(four, zero, calculator.OpDivide)
	require.ErrorIs(t, err, calculator.ErrDivisionByZero)

	assert.Equal(t, 2, l.Len())
}
