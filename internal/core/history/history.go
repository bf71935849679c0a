// Package history holds the in-memory calculation history for a session.
package history

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tally/internal/core/calculator"
)

// Ledger is an ordered collection of calculation records. Insertion
// order is significant: positions handed to RemoveAt are zero-based
// indexes into the current sequence, with no gaps after removal.
//
// A single mutex guards all access so the ledger can be shared between
// the command layer and tests; the CLI itself is single-threaded.
type Ledger struct {
	mu      sync.RWMutex
	records []calculator.Record
	log     zerolog.Logger
}

// NewLedger creates an empty ledger.
func NewLedger(log zerolog.Logger) *Ledger {
	return &Ledger{log: log}
}

// Append adds a record at the end of the ledger.
func (l *Ledger) Append(rec calculator.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, rec)
	l.log.Debug().
		Str("operation", rec.Operation).
		Str("a", rec.A.String()).
		Str("b", rec.B.String()).
		Str("result", rec.Result.String()).
		Msg("appended calculation")
}

// List returns a snapshot of the current records in insertion order.
// The returned slice does not reflect later mutations.
func (l *Ledger) List() []calculator.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]calculator.Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.records)
}

// Latest returns the most recent record, if any.
func (l *Ledger) Latest() (calculator.Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.records) == 0 {
		return calculator.Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// Clear removes all records. Idempotent.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := len(l.records)
	l.records = nil
	l.log.Info().Int("count", count).Msg("cleared history")
}

// Replace swaps the entire contents of the ledger for recs. Used by
// load, which is clear-then-populate rather than a merge.
func (l *Ledger) Replace(recs []calculator.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = make([]calculator.Record, len(recs))
	copy(l.records, recs)
	l.log.Info().Int("count", len(recs)).Msg("replaced history")
}

// RemoveAt removes the record at the zero-based position, shifting
// subsequent records down by one. Returns false without modifying the
// ledger when the position is out of range.
func (l *Ledger) RemoveAt(position int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if position < 0 || position >= len(l.records) {
		l.log.Warn().Int("position", position).Int("size", len(l.records)).Msg("remove position out of range")
		return false
	}

	removed := l.records[position]
	l.records = append(l.records[:position], l.records[position+1:]...)
	l.log.Info().Int("position", position).Str("record", removed.String()).Msg("removed calculation")
	return true
}

// FilterByOperation returns the records whose operation matches name,
// in their original relative order. An unmatched name yields an empty
// slice, not an error.
func (l *Ledger) FilterByOperation(name string) []calculator.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []calculator.Record
	for _, rec := range l.records {
		if rec.Operation == name {
			out = append(out, rec)
		}
	}

	l.log.Debug().Str("operation", name).Int("matches", len(out)).Msg("filtered history")
	return out
}
