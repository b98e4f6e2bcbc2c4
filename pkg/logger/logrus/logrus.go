// Package logrus adapts sirupsen/logrus to logger.Logger.
package logrus

import (
	"io"

	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Adapter implements logger.Logger with a logrus entry
type Adapter struct {
	entry *logrus.Entry
}

// New creates a logrus backed logger writing text (or JSON) to out
func New(out io.Writer, level logger.Level, json bool) *Adapter {
	l := logrus.New()
	l.SetOutput(out)
	if json {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	a := &Adapter{entry: logrus.NewEntry(l)}
	a.SetLevel(level)
	return a
}

// NewAdapter wraps an existing logrus logger
func NewAdapter(l *logrus.Logger) *Adapter {
	return &Adapter{entry: logrus.NewEntry(l)}
}

func (a *Adapter) WithField(key string, value any) logger.Logger {
	return &Adapter{entry: a.entry.WithField(key, value)}
}

func (a *Adapter) WithFields(fields map[string]any) logger.Logger {
	return &Adapter{entry: a.entry.WithFields(fields)}
}

func (a *Adapter) WithError(err error) logger.Logger {
	return &Adapter{entry: a.entry.WithError(err)}
}

func (a *Adapter) Debug(args ...any) { a.entry.Debug(args...) }
func (a *Adapter) Info(args ...any)  { a.entry.Info(args...) }
func (a *Adapter) Warn(args ...any)  { a.entry.Warn(args...) }
func (a *Adapter) Error(args ...any) { a.entry.Error(args...) }

func (a *Adapter) Debugf(format string, args ...any) { a.entry.Debugf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.entry.Infof(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.entry.Warnf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.entry.Errorf(format, args...) }

// SetLevel changes the level of the underlying logrus logger. Disabled maps to panic
// level, the quietest level logrus offers.
func (a *Adapter) SetLevel(level logger.Level) {
	switch level {
	case logger.DebugLevel:
		a.entry.Logger.SetLevel(logrus.DebugLevel)
	case logger.InfoLevel:
		a.entry.Logger.SetLevel(logrus.InfoLevel)
	case logger.WarnLevel:
		a.entry.Logger.SetLevel(logrus.WarnLevel)
	case logger.ErrorLevel:
		a.entry.Logger.SetLevel(logrus.ErrorLevel)
	default:
		a.entry.Logger.SetLevel(logrus.PanicLevel)
	}
}

func (a *Adapter) GetLevel() logger.Level {
	switch a.entry.Logger.GetLevel() {
	case logrus.TraceLevel, logrus.DebugLevel:
		return logger.DebugLevel
	case logrus.InfoLevel:
		return logger.InfoLevel
	case logrus.WarnLevel:
		return logger.WarnLevel
	case logrus.ErrorLevel:
		return logger.ErrorLevel
	default:
		return logger.Disabled
	}
}
