package common

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide logger, creating it on first use.
//
// Returns:
//   - *log.Logger: the shared logger
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy",
			CallerOffset:    1,
		})
		logger.SetLevel(log.InfoLevel)
	})
	return logger
}

// SetLogLevel parses a level name (debug, info, warn, error, fatal) and applies it to the shared logger.
//
// Parameters:
//   - level: the level name
//
// Returns:
//   - error: if the level name is unknown
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger().SetLevel(lvl)
	return nil
}

func LogDebug(msg string, args ...any) {
	Logger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...any) {
	Logger().Infof(msg, args...)
}

func LogWarn(msg string, args ...any) {
	Logger().Warnf(msg, args...)
}

func LogError(msg string, args ...any) {
	Logger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...any) {
	Logger().Fatalf(msg, args...)
}
