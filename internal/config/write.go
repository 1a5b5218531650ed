package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// WriteFile writes cfg as YAML using the same keys Load reads
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if path == "" {
		return fmt.Errorf("config path cannot be empty")
	}
	path = ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	payload := map[string]any{
		"storage": map[string]any{
			"path": cfg.Storage.Path,
		},
		"log": map[string]any{
			"debug": cfg.Log.Debug,
			"dir":   cfg.Log.Dir,
			"level": cfg.Log.Level,
		},
		"daily": map[string]any{
			"rollover_interval": cfg.Daily.RolloverInterval.String(),
		},
		"backup": map[string]any{
			"max_backups": cfg.Backup.MaxBackups,
		},
		"timezone": cfg.Timezone,
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
