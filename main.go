package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tally/internal/commands"
	"github.com/hay-kot/tally/internal/core/calculator"
	"github.com/hay-kot/tally/internal/core/config"
	"github.com/hay-kot/tally/internal/core/history"
	"github.com/hay-kot/tally/internal/printer"
	"github.com/hay-kot/tally/internal/store/csvfile"
	"github.com/hay-kot/tally/internal/tui"
	"github.com/hay-kot/tally/pkg/deferred"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", "", nil); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	var deferredLogs *deferred.Writer

	app := &cli.Command{
		Name:      "tally",
		Usage:     "Arithmetic with a persistent calculation history",
		UsageText: "tally [global options] command [command options]",
		Description: `Tally evaluates basic arithmetic on exact decimals and keeps a history
of every calculation, persisted as CSV in the data directory.

Run 'tally' with no arguments to open the interactive calculator.
Run 'tally add 2 3' to evaluate a single calculation.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TALLY_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("TALLY_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TALLY_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TALLY_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Detect REPL mode: no subcommand means the TUI owns the terminal
			isREPL := len(c.Args().Slice()) == 0

			// In REPL mode, buffer logs to display after exit
			var buffered io.Writer
			if isREPL {
				deferredLogs = &deferred.Writer{}
				buffered = deferredLogs
			}

			if err := setupLogger(flags.LogLevel, flags.LogFile, buffered); err != nil {
				return ctx, err
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			calculator.SetDivisionPrecision(cfg.Precision)

			flags.Ledger = history.NewLedger(log.With().Str("component", "ledger").Logger())
			flags.Store = csvfile.New(log.With().Str("component", "store").Logger())

			return ctx, nil
		},
	}

	app = commands.NewEvalCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	// Open the interactive calculator when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'tally --help' for usage", c.Args().First())
		}

		return tui.Run(&tui.Session{
			Ledger: flags.Ledger,
			Store:  flags.Store,
			Config: flags.Config,
		})
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		printer.Ctx(ctx).FatalError(err)
		exitCode = 1
	}

	// Flush deferred logs to console after the REPL exits
	if deferredLogs != nil {
		if err := deferredLogs.Flush(zerolog.ConsoleWriter{Out: os.Stderr}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
		}
	}

	os.Exit(exitCode)
}

func setupLogger(level string, logFile string, buffered io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		// Create log directory if it doesn't exist
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		// Open log file
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		if buffered != nil {
			// REPL mode with explicit log file - write to both file and deferred buffer
			output = io.MultiWriter(file, buffered)
		} else {
			// Write to both console and file
			output = io.MultiWriter(
				zerolog.ConsoleWriter{Out: os.Stderr},
				file,
			)
		}
	} else if buffered != nil {
		// REPL mode without log file - buffer for display after exit
		output = buffered
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
