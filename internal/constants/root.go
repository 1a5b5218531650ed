package constants

import "time"

const (
	AppName           = "habitorbit"
	DefaultConfigPath = "~/.config/habitorbit/habitorbit.db"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Habit defaults
	DefaultCumulativeTarget = 10
	DefaultMilestoneEmoji   = "⭐"
	MinFrequency            = 1
	MaxFrequency            = 7
	AutoMilestonePrefix     = "auto-"
	MilestoneLabelSuffix    = "Logros"

	// A day left unset this many days after it passed is shown as failed
	AutoFailGraceDays = 5

	// Daily objectives
	TasksPerDay     = 7
	MaxDailyHistory = 100

	// Day-boundary polling
	DefaultRolloverInterval = 30 * time.Second
	MaxRolloverInterval     = 60 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitorbit-"
	BackupFileSuffix = ".json"

	// Lockfile
	LockfileName = "habitorbit.lock"

	// Log rotation
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28
)
