package main

import (
	"github.com/alecthomas/kong"

	"github.com/dsurfergithub/habitorbit/internal/cli"
	"github.com/dsurfergithub/habitorbit/internal/config"
	"github.com/dsurfergithub/habitorbit/internal/constants"
	apperrors "github.com/dsurfergithub/habitorbit/internal/errors"
	"github.com/dsurfergithub/habitorbit/internal/logger"
	"github.com/dsurfergithub/habitorbit/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" env:"HABITORBIT_CONFIG"`
	Data    string `help:"Data file path (.json for the JSON store, anything else SQLite). Overrides the config file." type:"path"`
	Debug   bool   `help:"Log to stderr at debug level."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitorbit storage."`
	Daily    cli.DailyCmd    `cmd:"" help:"Manage today's objectives." default:"1"`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits and habit tracking."`
	Stats    cli.StatsCmd    `cmd:"" help:"Streaks, momentum, trophies and heatmap."`
	Watch    cli.WatchCmd    `cmd:"" help:"Run in the background and roll over objectives at midnight."`
	Export   cli.ExportCmd   `cmd:"" help:"Export all data as JSON."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace all data from an export file."`
	Backup   cli.BackupCmd   `cmd:"" help:"Manage backups."`
	View     cli.ViewCmd     `cmd:"" help:"Get or set the last selected view."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored data for conflicts."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Inspect  cli.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Settings cli.ConfigCmd   `cmd:"" name:"config" help:"Manage the config file."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with milestones and daily objectives"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars(cli.KongVars()),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Data != "" {
		cfg.Storage.Path = CLI.Data
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, LogDir: cfg.Log.Dir, Level: cfg.Log.Level}); err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "storage", cfg.Storage.Path)

	store := storage.NewProvider(cfg.Storage.Path)
	appCtx := cli.NewContext(cfg, CLI.Config, store)

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	apperrors.Fatal(err)
	logger.Close()
}
