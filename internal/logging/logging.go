// Package logging builds the run logger from the -v count
package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Level maps the number of -v flags to a log level:
// none for errors only, -v for warnings, -vv for info, -vvv for debug
func Level(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.ErrorLevel
	case verbosity == 1:
		return logrus.WarnLevel
	case verbosity == 2:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// New creates a logger writing to w
func New(w io.Writer, verbosity int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(Level(verbosity))

	tty := isTerminal(w)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      tty,
		DisableColors:    !tty,
		FullTimestamp:    !tty,
		DisableTimestamp: tty,
	})

	return log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
