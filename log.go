package lattice

import (
	"io"

	"github.com/sirupsen/logrus"
)

// logger is shared by every lattice component. It starts silent above Warn.
var logger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Logger returns the logger used by lattice.
func Logger() *logrus.Logger {
	return logger
}

// SetLogger replaces the logger used by lattice. A nil logger discards
// everything.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
		l.SetOutput(io.Discard)
	}
	logger = l
}

// logFor returns an entry tagged with the emitting component.
func logFor(component string) *logrus.Entry {
	return logger.WithField("component", component)
}
