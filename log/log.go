// Package log provides the application's structured logging, persisted to a dated file under the logs directory.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/key"
	"github.com/clipreel/clipreel/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Fields is an alias so callers don't need to import logrus directly.
type Fields = logrus.Fields

var (
	// enabled indicates the persistent logging state for the active application instance.
	enabled bool

	// discard receives entries when logging is disabled.
	discard = &logrus.Logger{Out: io.Discard, Formatter: new(logrus.TextFormatter), Level: logrus.PanicLevel, Hooks: make(logrus.LevelHooks)}
)

// Setup initializes file output, formatting and severity level from the global configuration.
// If logging is disabled, all subsequent log emissions are silently discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	configure(f)
	return nil
}

// configure points logrus at w and applies format and level settings.
func configure(w io.Writer) {
	logrus.SetOutput(w)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	parsed, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// WithFields returns an entry carrying structured context. Entries are discarded when logging is off.
func WithFields(fields Fields) *logrus.Entry {
	if enabled {
		return logrus.WithFields(fields)
	}
	return logrus.NewEntry(discard).WithFields(fields)
}

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...interface{}) {
	if enabled {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
