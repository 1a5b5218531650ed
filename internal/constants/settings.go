package constants

const (
	// Config keys
	SettingStoragePath      = "storage.path"
	SettingLogDebug         = "log.debug"
	SettingLogDir           = "log.dir"
	SettingLogLevel         = "log.level"
	SettingRolloverInterval = "daily.rollover_interval"
	SettingTimezone         = "timezone"
	SettingMaxBackups       = "backup.max_backups"

	// Default Settings Values
	DefaultTimezone   = "Local" // Use system local timezone by default
	DefaultConfigName = "config"
	DefaultConfigType = "yaml"
	DefaultConfigFile = "~/.config/habitorbit/config.yaml"
	DefaultLogLevel   = "info"
	EnvPrefix         = "HABITORBIT"
)
