package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dsurfergithub/habitorbit/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	file *lumberjack.Logger

	mu    sync.Mutex
	named []*log.Logger
)

// Config holds logger configuration
type Config struct {
	Debug  bool   // also write to stderr, at debug level
	LogDir string // directory of the rotating habitorbit.log
	Level  string // debug, info, warn or error; ignored when Debug is set
}

// Init opens the rotating log file and replaces the global logger
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return err
	}
	Close()

	file = &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, constants.AppName+".log"),
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}

	var writer io.Writer = file
	level := parseLevel(cfg.Level, log.InfoLevel)
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, file)
		level = log.DebugLevel
	}

	mu.Lock()
	named = nil
	mu.Unlock()

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// Close flushes and closes the log file. Logging afterwards reopens it.
func Close() {
	if file != nil {
		_ = file.Close()
	}
}

func parseLevel(name string, fallback log.Level) log.Level {
	if name == "" {
		return fallback
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fallback
	}
	return level
}

// Discard returns a logger that drops everything. Components fall back to it when none is given.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Get returns the global logger, or a discarding one before Init has run
func Get() *log.Logger {
	if Logger == nil {
		return Discard()
	}
	return Logger
}

// Named returns a child of the global logger tagged with component. SetLevel applies to it too.
func Named(component string) *log.Logger {
	if Logger == nil {
		return Discard()
	}
	l := Logger.With("component", component)
	mu.Lock()
	named = append(named, l)
	mu.Unlock()
	return l
}

// SetLevel changes the level of the global logger. Unknown names are ignored.
func SetLevel(name string) {
	if Logger == nil {
		return
	}
	level, err := log.ParseLevel(strings.ToLower(name))
	if err != nil {
		Logger.Warn("Ignoring unknown log level", "level", name)
		return
	}
	Logger.SetLevel(level)

	mu.Lock()
	defer mu.Unlock()
	for _, l := range named {
		l.SetLevel(level)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
