package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dsurfergithub/habitorbit/internal/constants"
	"github.com/dsurfergithub/habitorbit/internal/logger"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager writes export documents as timestamped backup files next to the data file
type Manager struct {
	backupDir  string
	maxBackups int
	habits     Habits
	daily      Daily
	now        func() time.Time
	log        *log.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithMaxBackups sets how many backups rotation keeps
func WithMaxBackups(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.maxBackups = n
		}
	}
}

// WithClock sets the time source for backup names and export timestamps
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// NewManager creates a backup manager storing backups under <dir of dataPath>/backups
func NewManager(dataPath string, habits Habits, daily Daily, opts ...ManagerOption) *Manager {
	m := &Manager{
		backupDir:  filepath.Join(filepath.Dir(dataPath), constants.BackupDirName),
		maxBackups: constants.MaxBackups,
		habits:     habits,
		daily:      daily,
		now:        time.Now,
		log:        logger.Get(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// ensureBackupDir creates the backup directory if it doesn't exist
func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes the current state to a new backup file and rotates old ones
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup writes a backup file
// skipRotation is set during restore so the pre-restore backup never evicts the one being restored
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.uniqueBackupPath()
	if err != nil {
		return "", err
	}

	if err := m.writeBackup(backupPath); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	m.log.Info("Created backup", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// Rotation failures never fail the backup itself
			m.log.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

// uniqueBackupPath names a backup with minute precision, falling back to seconds then a counter
func (m *Manager) uniqueBackupPath() (string, error) {
	now := m.now()
	name := func(timestamp string) string {
		return filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+constants.BackupFileSuffix)
	}

	backupPath := name(now.Format("20060102-1504"))
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return backupPath, nil
	}

	timestamp := now.Format("20060102-150405")
	backupPath = name(timestamp)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return backupPath, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = name(fmt.Sprintf("%s-%d", timestamp, counter))
	}
}

// writeBackup writes the export document through a temporary file and an atomic rename
func (m *Manager) writeBackup(destPath string) error {
	tempPath := destPath + ".tmp"
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	doc := Export(m.habits, m.daily, m.now())
	if err := WriteExport(f, doc); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	return os.Rename(tempPath, destPath)
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, ok := parseBackupTimestamp(name)
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseBackupTimestamp reads the time encoded in a backup file name.
// Accepted forms are YYYYMMDD-HHMM and YYYYMMDD-HHMMSS, optionally followed by -N.
func parseBackupTimestamp(name string) (time.Time, bool) {
	timestampStr := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)

	parts := strings.Split(timestampStr, "-")
	if len(parts) > 2 {
		lastPart := parts[len(parts)-1]
		if len(lastPart) != 4 && len(lastPart) != 6 && isDigits(lastPart) {
			timestampStr = strings.Join(parts[:len(parts)-1], "-")
		}
	}

	for _, layout := range []string{"20060102-1504", "20060102-150405"} {
		if ts, err := time.ParseInLocation(layout, timestampStr, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) <= m.maxBackups {
		return nil
	}

	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		m.log.Debug("Removed old backup", "path", backups[i].Path)
	}

	return nil
}

// RestoreBackup validates a backup file, backs up the current state, then imports the file.
// It returns the path of the pre-restore backup alongside the import result.
func (m *Manager) RestoreBackup(backupPath string) (ImportResult, string, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ImportResult{}, "", fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return ImportResult{}, "", fmt.Errorf("failed to read backup file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return ImportResult{}, "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	currentBackup, err := m.createBackup(true)
	if err != nil {
		return ImportResult{}, "", fmt.Errorf("failed to backup current state before restore: %w", err)
	}

	result, err := Apply(doc, m.habits, m.daily)
	if err != nil {
		return result, currentBackup, fmt.Errorf("failed to restore backup: %w", err)
	}
	m.log.Info("Restored backup", "path", backupPath, "habits", result.Habits)
	return result, currentBackup, nil
}
