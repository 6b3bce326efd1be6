package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is a wrapper around the log.Logger from the charmbracelet/log package.
type Logger struct {
	*log.Logger
}

var (
	logger *Logger
	once   sync.Once
)

// CreateLogger sets up the process logger. Safe to call more than once;
// only the first call takes effect.
func CreateLogger() {
	once.Do(func() {
		logger = newLogger(os.Stderr)
	})
}

func newLogger(w io.Writer) *Logger {
	baseLogger := log.New(w)

	// DEBUG=1 turns on caller reporting and debug level.
	if os.Getenv("DEBUG") == "1" {
		baseLogger = log.NewWithOptions(w, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			Prefix:          "lotdrop",
		})
		baseLogger.SetLevel(log.DebugLevel)
	} else {
		baseLogger.SetLevel(log.InfoLevel)
	}

	return &Logger{Logger: baseLogger}
}

// GetLogger returns the process Logger, initializing it when needed.
func GetLogger() *Logger {
	ensureInitialized()
	return logger
}

// NewTestLogger returns a logger writing to the given writer, independent of
// the process singleton. Intended for tests.
func NewTestLogger(w io.Writer) *Logger {
	return newLogger(w)
}

// BaseLogger returns the underlying *log.Logger.
func (l *Logger) BaseLogger() *log.Logger {
	return l.Logger
}

// Debug logs debug messages if debug logging is enabled.
func Debug(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Debug(msg, keyvals...)
}

// Info logs informational messages.
func Info(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Info(msg, keyvals...)
}

// Warn logs warning messages.
func Warn(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Warn(msg, keyvals...)
}

// Error logs error messages.
func Error(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Error(msg, keyvals...)
}

// Fatal logs a fatal message and exits the program.
func Fatal(msg interface{}, keyvals ...interface{}) {
	ensureInitialized()
	logger.Fatal(msg, keyvals...)
}

func ensureInitialized() {
	if logger == nil {
		CreateLogger()
	}
}
