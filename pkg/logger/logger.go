// Package logger provides module-scoped structured logging for the portal
// data layer. Every component takes a *Logger; a nil logger is replaced with
// NewDefault so library code never has to nil-check before logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry pinned to a module name.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger on top of an existing logrus logger.
func New(base *logrus.Logger, module string) *Logger {
	return &Logger{entry: base.WithField("module", module)}
}

// NewDefault creates a Logger writing text-formatted records to stderr at
// info level. VIOLA_LOG_LEVEL overrides the level.
func NewDefault(module string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(os.Getenv("VIOLA_LOG_LEVEL")); err == nil {
		base.SetLevel(lvl)
	}
	return New(base, module)
}

// Discard returns a Logger that drops everything. Used in tests.
func Discard(module string) *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return New(base, module)
}

// WithField returns a Logger with an extra structured field attached.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
