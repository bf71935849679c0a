package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	before := time.Now()
	rec, err := NewRecord(dec(t, "2"), dec(t, "3"), OpAdd)
	require.NoError(t, err)

	assert.True(t, rec.Result.Equal(dec(t, "5")))
	assert.Equal(t, OpAdd, rec.Operation)
	assert.False(t, rec.CreatedAt.Before(before))
	assert.False(t, rec.CreatedAt.After(time.Now()))
}

func TestNewRecord_ResultMatchesOperation(t *testing.T) {
	for _, op := range Names() {
		rec, err := NewRecord(dec(t, "9"), dec(t, "3"), op)
		require.NoError(t, err)

		want, err := Apply(op, rec.A, rec.B)
		require.NoError(t, err)
		assert.True(t, rec.Result.Equal(want), "%s: got %s, want %s", op, rec.Result, want)
	}
}

func TestNewRecord_PropagatesErrors(t *testing.T) {
	_, err := NewRecord(dec(t, "4"), dec(t, "0"), OpDivide)
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = NewRecord(dec(t, "1"), dec(t, "2"), "modulo")
	require.ErrorIs(t, err, ErrUnknownOperation)
}

func TestRecord_String(t *testing.T) {
	rec, err := NewRecord(dec(t, "10"), dec(t, "4"), OpSubtract)
	require.NoError(t, err)
	assert.Equal(t, "10 - 4 = 6", rec.String())
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "+", Symbol(OpAdd))
	assert.Equal(t, "-", Symbol(OpSubtract))
	assert.Equal(t, "*", Symbol(OpMultiply))
	assert.Equal(t, "/", Symbol(OpDivide))
	assert.Equal(t, "modulo", Symbol("modulo"))
}

func TestRecord_Equal(t *testing.T) {
	rec, err := NewRecord(dec(t, "2"), dec(t, "3"), OpMultiply)
	require.NoError(t, err)

	same := rec
	assert.True(t, rec.Equal(same))

	other := rec
	other.B = dec(t, "4")
	assert.False(t, rec.Equal(other))
}
