package history

import (
	"sort"

	"github.com/shopspring/decimal"
)

// OpStats aggregates results for a single operation.
type OpStats struct {
	Count int
	Min   decimal.Decimal
	Max   decimal.Decimal
	Sum   decimal.Decimal
	Mean  decimal.Decimal
}

// Stats summarizes the full history.
type Stats struct {
	Total int
	PerOp map[string]OpStats
}

// Operations returns the operation names present in the stats, sorted.
func (s Stats) Operations() []string {
	names := make([]string, 0, len(s.PerOp))
	for name := range s.PerOp {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Analyze computes per-operation aggregates over the full history.
// An empty ledger yields Total 0 and no per-operation entries.
func (l *Ledger) Analyze() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{
		Total: len(l.records),
		PerOp: make(map[string]OpStats),
	}

	for _, rec := range l.records {
		s, seen := stats.PerOp[rec.Operation]
		if !seen {
			s = OpStats{Min: rec.Result, Max: rec.Result}
		}

		s.Count++
		s.Sum = s.Sum.Add(rec.Result)
		if rec.Result.LessThan(s.Min) {
			s.Min = rec.Result
		}
		if rec.Result.GreaterThan(s.Max) {
			s.Max = rec.Result
		}

		stats.PerOp[rec.Operation] = s
	}

	for name, s := range stats.PerOp {
		s.Mean = s.Sum.Div(decimal.NewFromInt(int64(s.Count)))
		stats.PerOp[name] = s
	}

	return stats
}
