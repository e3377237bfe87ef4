// Package logger configures the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/automoto/snackman-client/config"
	"github.com/sirupsen/logrus"
)

// Log is the root logger. It is usable before Init with logrus defaults.
var Log = logrus.New()

// Init applies config.Log to the root logger. Call once from main after
// config has been loaded.
func Init() {
	Configure(Log, config.Log, os.Stderr)
}

// Configure sets level, formatter and output of l.
func Configure(l *logrus.Logger, cfg config.LogConfig, out io.Writer) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(cfg.Format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	l.SetOutput(out)
}

// For returns a logger tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
