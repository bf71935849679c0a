package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tally/internal/core/calculator"
	"github.com/hay-kot/tally/internal/printer"
	"github.com/hay-kot/tally/internal/store/csvfile"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	file string
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command tree to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	fileFlag := &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "history file (relative names resolve in the data directory)",
		Destination: &cmd.file,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Usage:     "View or manage the calculation history",
		UsageText: "tally history [command]",
		Description: `View or manage the persisted calculation history.

With no subcommand, shows the history as a table. Records are addressed
by their zero-based position in the table.`,
		Flags:  []cli.Flag{fileFlag},
		Action: cmd.runShow,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Display the history",
				Action: cmd.runShow,
			},
			{
				Name:   "clear",
				Usage:  "Remove all history records",
				Action: cmd.runClear,
			},
			{
				Name:      "delete",
				Usage:     "Delete the record at a zero-based position",
				UsageText: "tally history delete <position>",
				Action:    cmd.runDelete,
			},
			{
				Name:      "filter",
				Usage:     "Show only records for one operation",
				UsageText: "tally history filter <operation>",
				Action:    cmd.runFilter,
			},
			{
				Name:   "analyze",
				Usage:  "Show summary statistics over the history",
				Action: cmd.runAnalyze,
			},
			{
				Name:      "save",
				Usage:     "Save the history to another file",
				UsageText: "tally history save <file>",
				Action:    cmd.runSave,
			},
			{
				Name:      "load",
				Usage:     "Replace the history with the contents of a file",
				UsageText: "tally history load <file>",
				Action:    cmd.runLoad,
			},
		},
	})

	return app
}

// loadLedger fills the ledger from the history file. A missing file is
// treated as an empty history.
func (cmd *HistoryCmd) loadLedger(ctx context.Context) error {
	result, err := cmd.flags.Store.Load(cmd.path())
	if err != nil {
		if errors.Is(err, csvfile.ErrNotExist) {
			cmd.flags.Ledger.Replace(nil)
			return nil
		}
		return fmt.Errorf("load history: %w", err)
	}

	if result.Skipped > 0 {
		printer.Ctx(ctx).Warnf("Skipped %d unreadable history row(s)", result.Skipped)
	}

	cmd.flags.Ledger.Replace(result.Records)
	return nil
}

func (cmd *HistoryCmd) path() string {
	return cmd.flags.Config.ResolvePath(cmd.file)
}

func (cmd *HistoryCmd) runShow(ctx context.Context, c *cli.Command) error {
	if err := cmd.loadLedger(ctx); err != nil {
		return err
	}

	records := cmd.flags.Ledger.List()
	if len(records) == 0 {
		printer.Ctx(ctx).Infof("No calculations in history")
		return nil
	}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tCALCULATION\tRESULT\tTIME")

	for i, rec := range records {
		_, _ = fmt.Fprintf(w, "%d\t%s %s %s\t%s\t%s\n",
			i,
			rec.A, calculator.Symbol(rec.Operation), rec.B,
			rec.Result,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runClear(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.loadLedger(ctx); err != nil {
		return err
	}

	count := cmd.flags.Ledger.Len()
	cmd.flags.Ledger.Clear()

	if err := cmd.flags.Store.Save(cmd.path(), nil); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	p.Successf("Cleared %d calculation(s)", count)
	return nil
}

func (cmd *HistoryCmd) runDelete(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() != 1 {
		return fmt.Errorf("position required\n\nUsage: tally history delete <position>")
	}

	position, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid position %q: expected a number", c.Args().First())
	}

	if err := cmd.loadLedger(ctx); err != nil {
		return err
	}

	if !cmd.flags.Ledger.RemoveAt(position) {
		return fmt.Errorf("no record at position %d (history has %d record(s))", position, cmd.flags.Ledger.Len())
	}

	if err := cmd.flags.Store.Save(cmd.path(), cmd.flags.Ledger.List()); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	p.Successf("Deleted record at position %d", position)
	return nil
}

func (cmd *HistoryCmd) runFilter(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() != 1 {
		return fmt.Errorf("operation required\n\nUsage: tally history filter <operation>")
	}
	operation := c.Args().First()

	if err := cmd.loadLedger(ctx); err != nil {
		return err
	}

	matched := cmd.flags.Ledger.FilterByOperation(operation)
	if len(matched) == 0 {
		p.Infof("No calculations with operation %q", operation)
		return nil
	}

	out := c.Root().Writer
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tCALCULATION\tRESULT\tTIME")

	for i, rec := range matched {
		_, _ = fmt.Fprintf(w, "%d\t%s %s %s\t%s\t%s\n",
			i,
			rec.A, calculator.Symbol(rec.Operation), rec.B,
			rec.Result,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func (cmd *HistoryCmd) runSave(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() != 1 {
		return fmt.Errorf("file required\n\nUsage: tally history save <file>")
	}
	dest := cmd.flags.Config.ResolvePath(c.Args().First())

	if err := cmd.loadLedger(ctx); err != nil {
		return err
	}

	records := cmd.flags.Ledger.List()
	if err := cmd.flags.Store.Save(dest, records); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	p.Success(fmt.Sprintf("Saved %d calculation(s)", len(records)), dest)
	return nil
}

func (cmd *HistoryCmd) runLoad(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if c.Args().Len() != 1 {
		return fmt.Errorf("file required\n\nUsage: tally history load <file>")
	}
	src := cmd.flags.Config.ResolvePath(c.Args().First())

	result, err := cmd.flags.Store.Load(src)
	if err != nil {
		if errors.Is(err, csvfile.ErrNotExist) {
			return fmt.Errorf("no history file at %s", src)
		}
		return fmt.Errorf("load history: %w", err)
	}

	if result.Skipped > 0 {
		p.Warnf("Skipped %d unreadable row(s)", result.Skipped)
	}

	// Loading replaces the history wholesale rather than merging.
	cmd.flags.Ledger.Replace(result.Records)
	if err := cmd.flags.Store.Save(cmd.path(), cmd.flags.Ledger.List()); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	p.Success(fmt.Sprintf("Loaded %d calculation(s)", result.Loaded()), src)
	return nil
}

func (cmd *HistoryCmd) runAnalyze(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if err := cmd.loadLedger(ctx); err != nil {
		return err
	}

	stats := cmd.flags.Ledger.Analyze()
	if stats.Total == 0 {
		p.Infof("No calculations in history to analyze")
		return nil
	}

	p.Section("History Analysis")
	p.Printf("Total calculations: %d", stats.Total)
	p.Printf("")

	for _, name := range stats.Operations() {
		s := stats.PerOp[name]
		pct := float64(s.Count) / float64(stats.Total) * 100
		p.Printf("%s: %d (%.1f%%)", name, s.Count, pct)
		p.Printf("  min %s  max %s  mean %s", s.Min, s.Max, s.Mean)
	}

	return nil
}
