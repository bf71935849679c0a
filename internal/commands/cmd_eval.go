package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tally/internal/core/calculator"
	"github.com/hay-kot/tally/internal/printer"
	"github.com/hay-kot/tally/internal/store/csvfile"
)

type EvalCmd struct {
	flags *Flags

	// Command-specific flags
	noSave bool
}

// NewEvalCmd creates the arithmetic commands (add, subtract, multiply, divide)
func NewEvalCmd(flags *Flags) *EvalCmd {
	return &EvalCmd{flags: flags}
}

// Register adds one command per registered operation to the application
func (cmd *EvalCmd) Register(app *cli.Command) *cli.Command {
	for _, name := range calculator.Names() {
		operation := name

		app.Commands = append(app.Commands, &cli.Command{
			Name:      operation,
			Usage:     fmt.Sprintf("Compute a %s b", calculator.Symbol(operation)),
			UsageText: fmt.Sprintf("tally %s <a> <b>", operation),
			Description: fmt.Sprintf(`Evaluates %q on two decimal operands and records the calculation
in the persisted history (see 'tally history').

Example:
  tally %s 2 3`, operation, operation),
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "no-save",
					Usage:       "do not record the calculation in the history file",
					Destination: &cmd.noSave,
				},
			},
			Action: func(ctx context.Context, c *cli.Command) error {
				return cmd.run(ctx, c, operation)
			},
		})
	}

	return app
}

func (cmd *EvalCmd) run(ctx context.Context, c *cli.Command, operation string) error {
	p := printer.Ctx(ctx)

	args := c.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("expected 2 operands, got %d\n\nUsage: tally %s <a> <b>", len(args), operation)
	}

	a, err := calculator.ParseOperand(args[0])
	if err != nil {
		return err
	}

	b, err := calculator.ParseOperand(args[1])
	if err != nil {
		return err
	}

	rec, err := calculator.NewRecord(a, b, operation)
	if err != nil {
		return err
	}

	p.Printf("%s", rec.String())

	if cmd.noSave {
		return nil
	}

	// One-shot invocations accumulate into the persisted history:
	// load what exists, append, save back.
	path := cmd.flags.Config.HistoryPath()

	loaded, err := cmd.flags.Store.Load(path)
	if err != nil && !errors.Is(err, csvfile.ErrNotExist) {
		return fmt.Errorf("load history: %w", err)
	}
	if loaded.Skipped > 0 {
		p.Warnf("Skipped %d unreadable history row(s)", loaded.Skipped)
	}

	cmd.flags.Ledger.Replace(loaded.Records)
	cmd.flags.Ledger.Append(rec)

	if err := cmd.flags.Store.Save(path, cmd.flags.Ledger.List()); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	return nil
}
