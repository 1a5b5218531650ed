package cli

import (
	"fmt"
	"os"

	"github.com/dsurfergithub/habitorbit/internal/config"
	"github.com/dsurfergithub/habitorbit/internal/constants"
)

type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a config file with the current settings."`
	Show ConfigShowCmd `cmd:"" help:"Show the effective settings."`
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file."`
}

func (c *ConfigInitCmd) Run(ctx *Context) error {
	path := ctx.ConfigPath
	if path == "" {
		path = constants.DefaultConfigFile
	}
	path = config.ExpandPath(path)

	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config file already exists at %s, use --force to overwrite", path)
	}
	if err := config.WriteFile(path, ctx.Config); err != nil {
		return err
	}
	ctx.printf("Wrote config to: %s\n", path)
	return nil
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	ctx.printf("storage.path:            %s\n", cfg.Storage.Path)
	ctx.printf("log.dir:                 %s\n", cfg.Log.Dir)
	ctx.printf("log.level:               %s\n", cfg.Log.Level)
	ctx.printf("log.debug:               %t\n", cfg.Log.Debug)
	ctx.printf("daily.rollover_interval: %s\n", cfg.Daily.RolloverInterval)
	ctx.printf("backup.max_backups:      %d\n", cfg.Backup.MaxBackups)
	ctx.printf("timezone:                %s\n", cfg.Timezone)
	return nil
}
