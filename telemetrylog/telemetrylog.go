// Package telemetrylog builds the structured logger cmd/dronectl uses
// (cmd/groundctl does not use this package), following the plain logrus.New() plus
// WithFields/WithError style seen throughout the retrieved pack (the z21
// command station and the MAVLink actuator bridge both log this way)
// rather than the original firmware's bare log::info!/log::error! macros,
// which have no structured-field equivalent.
package telemetrylog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Role names the process using the logger, attached to every entry so
// drone- and ground-side log lines can be told apart when merged.
type Role string

const (
	RoleDrone     Role = "drone"
	RoleGroundCtl Role = "groundctl"
)

// New builds a logrus.Logger at the given level, writing to out (os.Stderr
// if nil). The role argument is not attached to the logger; use WithRole
// for entries that carry it.
func New(role Role, level logrus.Level, out io.Writer) *logrus.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger
}

// ForTick returns an entry pre-populated with the fields every per-tick log
// line in this repository carries: the current flight mode and the tick
// iteration it occurred on.
func ForTick(logger *logrus.Logger, mode string, tick uint32) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"mode": mode,
		"tick": tick,
	})
}

// WithRole returns an entry tagged with role; only lines logged through
// that entry carry it, and logger itself is left unchanged.
func WithRole(logger *logrus.Logger, role Role) *logrus.Entry {
	return logger.WithField("role", string(role))
}
