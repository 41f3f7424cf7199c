// Package logging builds the logrus logger every component writes to.
//
// Notices go out at Info level. Debug traces appear only while the debug
// flag is on.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"otrbridge/internal/config"
)

// New returns a logger configured from cfg writing to out (stderr when nil).
func New(cfg *config.Config, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	l := logrus.New()
	l.Out = out
	if cfg.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	SetDebug(l, cfg.Debug)
	return l
}

// Follow keeps the logger level in step with the debug flag.
func Follow(l *logrus.Logger, state *config.State) {
	SetDebug(l, state.Debug())
	state.OnDebugChange(func(on bool) { SetDebug(l, on) })
}

// SetDebug will switch the verbosity of the logger.
func SetDebug(l *logrus.Logger, on bool) {
	if on {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
}
