// Package lockfile keeps a single writer per data directory.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/dsurfergithub/habitorbit/internal/constants"
)

var findProcessFunc = ps.FindProcess

// ErrLocked is returned when another live process holds the lock
var ErrLocked = errors.New("data directory is locked by another process")

// Lock is a held lockfile
type Lock struct {
	path string
}

// Path returns the lockfile location
func (l *Lock) Path() string {
	return l.path
}

// Acquire writes <dir>/habitorbit.lock with this process's pid and executable name.
// A lock left by a process that is no longer running is replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)

	if pid, exe, err := readLock(path); err == nil {
		if pid != os.Getpid() && isRunning(pid, exe) {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
		}
		// stale or our own
	}

	content := fmt.Sprintf("%d|%s", os.Getpid(), executableName())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0600); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}

	return &Lock{path: path}, nil
}

// Release removes the lockfile if this process still owns it
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, _, err := readLock(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Holder reports the pid recorded in dir's lockfile and whether that process is still running.
// A missing lockfile is not an error.
func Holder(dir string) (int, bool, error) {
	pid, exe, err := readLock(filepath.Join(dir, constants.LockfileName))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return pid, isRunning(pid, exe), nil
}

func readLock(path string) (int, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, "", errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", errors.New("invalid process ID in lockfile")
	}
	return pid, parts[1], nil
}

// isRunning reports whether pid is alive and still runs the executable that wrote the lock
func isRunning(pid int, exe string) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	if exe == "" {
		return true
	}
	return strings.HasPrefix(process.Executable(), exe) || strings.HasPrefix(exe, process.Executable())
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}
