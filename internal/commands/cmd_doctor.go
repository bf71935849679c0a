package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/tally/internal/printer"
	"github.com/hay-kot/tally/internal/store/csvfile"
)

type DoctorCmd struct {
	flags *Flags
}

func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your tally setup",
		UsageText:   "tally doctor",
		Description: "Checks the configuration file, data directory, and history file.",
		Action:      cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	failed := 0

	p.Section("Configuration")
	if _, err := os.Stat(cmd.flags.ConfigPath); err == nil {
		p.CheckItem("config file", cmd.flags.ConfigPath)
	} else if os.IsNotExist(err) {
		p.WarnItem("config file", fmt.Sprintf("%s (not found, using defaults)", cmd.flags.ConfigPath))
	} else {
		p.FailItem("config file", err.Error())
		failed++
	}

	p.Section("Data Directory")
	switch info, err := os.Stat(cmd.flags.Config.DataDir); {
	case os.IsNotExist(err):
		p.WarnItem("data dir", fmt.Sprintf("%s (will be created on first save)", cmd.flags.Config.DataDir))
	case err != nil:
		p.FailItem("data dir", err.Error())
		failed++
	case !info.IsDir():
		p.FailItem("data dir", fmt.Sprintf("%s exists but is not a directory", cmd.flags.Config.DataDir))
		failed++
	default:
		if writable(cmd.flags.Config.DataDir) {
			p.CheckItem("data dir", cmd.flags.Config.DataDir)
		} else {
			p.FailItem("data dir", fmt.Sprintf("%s is not writable", cmd.flags.Config.DataDir))
			failed++
		}
	}

	p.Section("History File")
	result, err := cmd.flags.Store.Load(cmd.flags.Config.HistoryPath())
	switch {
	case errors.Is(err, csvfile.ErrNotExist):
		p.WarnItem("history file", fmt.Sprintf("%s (no history yet)", cmd.flags.Config.HistoryPath()))
	case err != nil:
		p.FailItem("history file", err.Error())
		failed++
	default:
		p.CheckItem("history file", fmt.Sprintf("%d record(s)", result.Loaded()))
		if result.Skipped > 0 {
			p.WarnItem("history file", fmt.Sprintf("%d unreadable row(s) will be dropped on next save", result.Skipped))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}

	p.Printf("")
	p.Successf("All checks passed")
	return nil
}

// writable probes a directory for write access by creating and
// removing a temp file.
func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".tally-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
