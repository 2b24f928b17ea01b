// Package logging owns the shared logrus logger. Packages fetch it through
// GetLogger; the command layer reconfigures it once the configuration is
// loaded.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger *logrus.Logger
)

// GetLogger returns the shared logger, creating it on first use. Before
// Configure runs, the level and format come from the FINMAIL_LOG_LEVEL and
// FINMAIL_LOG_FORMAT environment variables so early startup logging is
// already controllable.
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		logger = build(os.Getenv("FINMAIL_LOG_LEVEL"), os.Getenv("FINMAIL_LOG_FORMAT"))
	}
	return logger
}

// Configure applies the configured level and format to the shared logger
// and returns it.
func Configure(level, format string) *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		logger = build(level, format)
		return logger
	}
	apply(logger, level, format)
	return logger
}

func build(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	apply(l, level, format)
	return l
}

func apply(l *logrus.Logger, level, format string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
