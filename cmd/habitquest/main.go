package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitquest/internal/cli"
	apperrors "github.com/julianstephens/habitquest/internal/errors"
	"github.com/julianstephens/habitquest/internal/logger"
	"github.com/julianstephens/habitquest/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path. A .json extension selects the JSON backend; anything else uses SQLite." type:"path" default:"~/.config/habitquest/habitquest.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize habitquest storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit  cli.HabitCmd  `cmd:"" help:"Manage habits."`
	Toggle cli.ToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
	Day    cli.DayCmd    `cmd:"" help:"Show completions for a day."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show XP and completion statistics."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Backup cli.BackupCmd `cmd:"" help:"Manage database backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitquest"),
		kong.Description("Habit tracker with streaks, XP, and levels"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}

	// The backend is chosen by file extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{Store: store}

	if err := ctx.Run(appCtx); err != nil {
		apperrors.Fatal(err)
	}
}
