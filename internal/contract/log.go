package contract

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultLogLevel keeps the console quiet unless something needs attention.
const DefaultLogLevel = "warn"

var (
	loggerMu   sync.RWMutex
	baseLogger = newBaseLogger()
	logger     logrus.FieldLogger = baseLogger
)

// newBaseLogger creates the process logger writing to stderr.
func newBaseLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Logger returns the logger used by the parsing and aggregation packages.
func Logger() logrus.FieldLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger swaps the process logger and returns a function restoring the previous one.
// Tests use it with logrus/hooks/test to capture warnings.
func SetLogger(l logrus.FieldLogger) (restore func()) {
	loggerMu.Lock()
	prev := logger
	logger = l
	loggerMu.Unlock()
	return func() {
		loggerMu.Lock()
		logger = prev
		loggerMu.Unlock()
	}
}

// ConfigureLogging sets the level of the process logger.
func ConfigureLogging(level string) error {
	if level == "" {
		level = DefaultLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	baseLogger.SetLevel(lvl)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().WithError(err).Fatal(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	Logger().WithError(err).Warn(msg)
}
