// Package config loads habitorbit settings from defaults, an optional YAML file and HABITORBIT_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/logger"
	"github.com/dsurfergithub/habitorbit/internal/utils"
)

// Config is the full application configuration
type Config struct {
	Storage  StorageConfig `mapstructure:"storage"`
	Log      LogConfig     `mapstructure:"log"`
	Daily    DailyConfig   `mapstructure:"daily"`
	Backup   BackupConfig  `mapstructure:"backup"`
	Timezone string        `mapstructure:"timezone"`
}

// StorageConfig selects the data file. A .json extension uses the JSON store, anything else SQLite.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures the rotating log file
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

// DailyConfig configures the day-boundary check
type DailyConfig struct {
	RolloverInterval time.Duration `mapstructure:"rollover_interval"`
}

// BackupConfig configures backup rotation
type BackupConfig struct {
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns the configuration used when no file or env overrides exist
func Default() *Config {
	return &Config{
		Storage:  StorageConfig{Path: ExpandPath(constants.DefaultConfigPath)},
		Log:      LogConfig{Level: constants.DefaultLogLevel},
		Daily:    DailyConfig{RolloverInterval: constants.DefaultRolloverInterval},
		Backup:   BackupConfig{MaxBackups: constants.MaxBackups},
		Timezone: constants.DefaultTimezone,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(constants.SettingStoragePath, constants.DefaultConfigPath)
	v.SetDefault(constants.SettingLogDebug, d.Log.Debug)
	v.SetDefault(constants.SettingLogDir, "")
	v.SetDefault(constants.SettingLogLevel, d.Log.Level)
	v.SetDefault(constants.SettingRolloverInterval, d.Daily.RolloverInterval)
	v.SetDefault(constants.SettingMaxBackups, d.Backup.MaxBackups)
	v.SetDefault(constants.SettingTimezone, d.Timezone)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(ExpandPath(configPath))
	} else {
		v.SetConfigName(constants.DefaultConfigName)
		v.SetConfigType(constants.DefaultConfigType)
		v.AddConfigPath(filepath.Dir(ExpandPath(constants.DefaultConfigFile)))
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration. A missing file is not an error; defaults and env vars still apply.
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)
	if err := readInConfig(v); err != nil {
		return nil, err
	}
	return decode(v)
}

func readInConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			logger.Debug("Config file not found, using defaults")
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	logger.Debug("Loaded config file", "path", v.ConfigFileUsed())
	return nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Storage.Path = ExpandPath(c.Storage.Path)
	if c.Log.Dir == "" {
		c.Log.Dir = filepath.Join(filepath.Dir(c.Storage.Path), "logs")
	}
	c.Log.Dir = ExpandPath(c.Log.Dir)
	if c.Backup.MaxBackups <= 0 {
		c.Backup.MaxBackups = constants.MaxBackups
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	return nil
}

// Location returns the configured time zone
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Watch reloads the config file when it changes and passes each valid result to onChange.
// Invalid edits are logged and skipped. Watching does nothing when the file does not exist.
func Watch(configPath string, onChange func(*Config)) error {
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			logger.Warn("Ignoring invalid config change", "path", e.Name, "error", err)
			return
		}
		logger.Info("Config reloaded", "path", e.Name)
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
