// Package logging adapts logrus to the bootloader.Logger interface shared by the
// library packages.
package logging

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Logrus forwards Debug, Info and Error calls with key-value pairs to a
// logrus logger. It satisfies bootloader.Logger.
type Logrus struct {
	entry *log.Entry
}

// New wraps l. A nil logger selects the logrus standard logger.
func New(l *log.Logger) *Logrus {
	if l == nil {
		l = log.StandardLogger()
	}
	return &Logrus{entry: log.NewEntry(l)}
}

// With returns a logger that adds the given pairs to every message.
func (l *Logrus) With(keysAndValues ...interface{}) *Logrus {
	return &Logrus{entry: l.entry.WithFields(fields(keysAndValues))}
}

func (l *Logrus) Debug(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l *Logrus) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Info(msg)
}

func (l *Logrus) Error(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(fields(keysAndValues)).Error(msg)
}

// fields pairs up keys and values. A trailing key without value is kept
// under "extra".
func fields(keysAndValues []interface{}) log.Fields {
	f := make(log.Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			f["extra"] = keysAndValues[i]
			break
		}
		f[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return f
}
