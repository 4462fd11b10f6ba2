// Package logging configures the structured logger shared by the CLI and
// the HTTP server.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// New returns a JSON logger writing to out at the named level. Unknown or
// empty levels fall back to info.
func New(out io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// EngineLogger adapts a logrus entry to calculation.Logger.
type EngineLogger struct {
	entry *logrus.Entry
}

// NewEngineLogger tags every engine message with component=engine.
func NewEngineLogger(log logrus.FieldLogger) *EngineLogger {
	return &EngineLogger{entry: log.WithField("component", "engine")}
}

func (l *EngineLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *EngineLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *EngineLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *EngineLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }
