// Package tui implements the interactive calculator REPL.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/tally/internal/core/calculator"
	"github.com/hay-kot/tally/internal/core/config"
	"github.com/hay-kot/tally/internal/core/history"
	"github.com/hay-kot/tally/internal/store/csvfile"
)

// Session holds the state a REPL command operates on.
type Session struct {
	Ledger *history.Ledger
	Store  *csvfile.Store
	Config *config.Config
}

// handler evaluates one REPL command and returns transcript lines.
type handler func(s *Session, args []string) []string

// handlers is the static dispatch table from command word to handler.
// Arithmetic commands are added in init from the operation registry.
var handlers = map[string]handler{
	"history": runHistory,
	"clear":   runClear,
	"delete":  runDelete,
	"filter":  runFilter,
	"analyze": runAnalyze,
	"save":    runSave,
	"load":    runLoad,
	"help":    runHelp,
	"menu":    runHelp,
}

func init() {
	for _, name := range calculator.Names() {
		operation := name
		handlers[operation] = func(s *Session, args []string) []string {
			return runEval(s, operation, args)
		}
	}
}

// Dispatch parses one line of REPL input and runs the matching handler.
func (s *Session) Dispatch(input string) []string {
	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		return nil
	}

	h, ok := handlers[tokens[0]]
	if !ok {
		return []string{
			errorLine(fmt.Sprintf("unknown command %q", tokens[0])),
			"Type 'help' to see available commands.",
		}
	}

	return h(s, tokens[1:])
}

// errorLine marks a transcript line as an error for styling.
// The marker is stripped and styled by the view.
const errorMarker = "\x00err\x00"

func errorLine(msg string) string {
	return errorMarker + msg
}

func runEval(s *Session, operation string, args []string) []string {
	if len(args) != 2 {
		return []string{errorLine(fmt.Sprintf("usage: %s <a> <b>", operation))}
	}

	a, err := calculator.ParseOperand(args[0])
	if err != nil {
		return []string{errorLine(err.Error())}
	}

	b, err := calculator.ParseOperand(args[1])
	if err != nil {
		return []string{errorLine(err.Error())}
	}

	rec, err := calculator.NewRecord(a, b, operation)
	if err != nil {
		return []string{errorLine(err.Error())}
	}

	s.Ledger.Append(rec)
	return []string{rec.String()}
}

func runHistory(s *Session, args []string) []string {
	records := s.Ledger.List()
	if len(records) == 0 {
		return []string{"No calculations in history."}
	}

	lines := make([]string, 0, len(records))
	for i, rec := range records {
		lines = append(lines, fmt.Sprintf("%d: %s", i, rec.String()))
	}
	return lines
}

func runClear(s *Session, args []string) []string {
	count := s.Ledger.Len()
	s.Ledger.Clear()
	return []string{fmt.Sprintf("Cleared %d calculation(s).", count)}
}

func runDelete(s *Session, args []string) []string {
	if len(args) != 1 {
		return []string{errorLine("usage: delete <position>")}
	}

	position, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{errorLine(fmt.Sprintf("invalid position %q: expected a number", args[0]))}
	}

	if !s.Ledger.RemoveAt(position) {
		return []string{errorLine(fmt.Sprintf("no record at position %d (history has %d record(s))", position, s.Ledger.Len()))}
	}

	return []string{fmt.Sprintf("Deleted record at position %d.", position)}
}

func runFilter(s *Session, args []string) []string {
	if len(args) != 1 {
		return []string{errorLine("usage: filter <operation>")}
	}

	matched := s.Ledger.FilterByOperation(args[0])
	if len(matched) == 0 {
		return []string{fmt.Sprintf("No calculations with operation %q.", args[0])}
	}

	lines := make([]string, 0, len(matched))
	for i, rec := range matched {
		lines = append(lines, fmt.Sprintf("%d: %s", i, rec.String()))
	}
	return lines
}

func runAnalyze(s *Session, args []string) []string {
	stats := s.Ledger.Analyze()
	if stats.Total == 0 {
		return []string{"No calculations in history to analyze."}
	}

	lines := []string{fmt.Sprintf("Total calculations: %d", stats.Total)}
	for _, name := range stats.Operations() {
		op := stats.PerOp[name]
		pct := float64(op.Count) / float64(stats.Total) * 100
		lines = append(lines,
			fmt.Sprintf("%s: %d (%.1f%%)  min %s  max %s  mean %s",
				name, op.Count, pct, op.Min, op.Max, op.Mean),
		)
	}
	return lines
}

func runSave(s *Session, args []string) []string {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	path := s.Config.ResolvePath(name)

	records := s.Ledger.List()
	if err := s.Store.Save(path, records); err != nil {
		return []string{errorLine(err.Error())}
	}

	return []string{fmt.Sprintf("Saved %d calculation(s) to %s", len(records), path)}
}

func runLoad(s *Session, args []string) []string {
	var name string
	if len(args) > 0 {
		name = args[0]
	}
	path := s.Config.ResolvePath(name)

	result, err := s.Store.Load(path)
	if err != nil {
		if errors.Is(err, csvfile.ErrNotExist) {
			return []string{errorLine(fmt.Sprintf("no history file at %s", path))}
		}
		return []string{errorLine(err.Error())}
	}

	s.Ledger.Replace(result.Records)

	lines := []string{fmt.Sprintf("Loaded %d calculation(s) from %s", result.Loaded(), path)}
	if result.Skipped > 0 {
		lines = append(lines, errorLine(fmt.Sprintf("skipped %d unreadable row(s)", result.Skipped)))
	}
	return lines
}

func runHelp(s *Session, args []string) []string {
	return []string{
		"Calculation:  " + strings.Join(calculator.Names(), ", ") + "  (each takes two numbers)",
		"History:      history, clear, delete <n>, filter <op>, analyze",
		"Files:        save [file], load [file]",
		"Other:        help, exit",
	}
}
