// Package csvfile persists calculation history to a CSV file.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/tally/internal/core/calculator"
)

// ErrNotExist is returned by Load when the history file does not exist.
var ErrNotExist = errors.New("history file does not exist")

// header is the fixed column layout of the history file.
var header = []string{"First Operand", "Second Operand", "Operation", "Result", "Timestamp"}

// timeLayout is RFC 3339 with nanoseconds: unambiguous, sortable, and
// round-trips without losing precision.
const timeLayout = time.RFC3339Nano

// Result describes the outcome of a Load.
type Result struct {
	Records []calculator.Record
	Skipped int
}

// Loaded returns the number of successfully reconstructed records.
func (r Result) Loaded() int {
	return len(r.Records)
}

// Store reads and writes calculation history CSV files. It holds no
// records itself; callers own the ledger it fills.
type Store struct {
	log zerolog.Logger
}

// New creates a Store.
func New(log zerolog.Logger) *Store {
	return &Store{log: log}
}

// Save writes records to path, overwriting any existing file. The
// parent directory is created if missing. Writes go to a temp file
// that is renamed into place so an interrupted save never leaves a
// half-written history behind.
func (s *Store) Save(path string, records []calculator.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}

	w := csv.NewWriter(f)

	writeErr := w.Write(header)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			rec.A.String(),
			rec.B.String(),
			rec.Operation,
			rec.Result.String(),
			rec.CreatedAt.Format(timeLayout),
		})
	}

	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}

	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = err
	}

	if writeErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write history file: %w", writeErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename history file: %w", err)
	}

	s.log.Info().Str("path", path).Int("count", len(records)).Msg("saved history")
	return nil
}

// Load reads records from path. Returns ErrNotExist when the file is
// missing so callers can treat that as an expected failure.
//
// Results are recomputed from the operands through the operation
// registry rather than trusted from the Result column, so a tampered
// or stale file cannot smuggle in a wrong answer. Rows that cannot be
// reconstructed (unknown operation, malformed numbers, wrong column
// count, failing recompute) are skipped and counted; a bad row never
// aborts the rest of the load.
func (s *Store) Load(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: %s", ErrNotExist, path)
		}
		return Result{}, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // row length is validated per row so one bad row can be skipped

	first, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("parse history file: missing header row")
		}
		return Result{}, fmt.Errorf("parse history file: %w", err)
	}

	if !equalHeader(first) {
		return Result{}, fmt.Errorf("parse history file: unexpected header %v", first)
	}

	// Rows are read one at a time so a single malformed row, including
	// CSV-syntax damage like an unbalanced quote, is skipped without
	// discarding the rest of the file.
	var result Result
	for row := 1; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped++
				s.log.Warn().Err(err).Int("row", row).Msg("skipped history row")
				continue
			}
			return Result{}, fmt.Errorf("parse history file: %w", err)
		}

		rec, err := s.parseRow(fields)
		if err != nil {
			result.Skipped++
			s.log.Warn().Err(err).Int("row", row).Msg("skipped history row")
			continue
		}
		result.Records = append(result.Records, rec)
	}

	s.log.Info().
		Str("path", path).
		Int("loaded", result.Loaded()).
		Int("skipped", result.Skipped).
		Msg("loaded history")

	return result, nil
}

// parseRow reconstructs a record from one CSV row, recomputing the
// result from the operands.
func (s *Store) parseRow(row []string) (calculator.Record, error) {
	if len(row) != len(header) {
		return calculator.Record{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}

	a, err := calculator.ParseOperand(row[0])
	if err != nil {
		return calculator.Record{}, fmt.Errorf("first operand: %w", err)
	}

	b, err := calculator.ParseOperand(row[1])
	if err != nil {
		return calculator.Record{}, fmt.Errorf("second operand: %w", err)
	}

	operation := row[2]
	result, err := calculator.Apply(operation, a, b)
	if err != nil {
		return calculator.Record{}, err
	}

	createdAt, err := time.Parse(timeLayout, row[4])
	if err != nil {
		return calculator.Record{}, fmt.Errorf("timestamp: %w", err)
	}

	return calculator.Record{
		A:         a,
		B:         b,
		Operation: operation,
		Result:    result,
		CreatedAt: createdAt,
	}, nil
}

func equalHeader(row []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i, col := range header {
		if row[i] != col {
			return false
		}
	}
	return true
}
