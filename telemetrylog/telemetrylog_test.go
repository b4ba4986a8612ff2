package telemetrylog

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewWritesToGivenOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(RoleDrone, logrus.InfoLevel, &buf)

	logger.Info("boot")

	assert.Contains(t, buf.String(), "boot")
}

func TestForTickAttachesModeAndTickFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(RoleDrone, logrus.InfoLevel, &buf)

	ForTick(logger, "Manual", 42).Info("tick")

	out := buf.String()
	assert.Contains(t, out, "mode=Manual")
	assert.Contains(t, out, "tick=42")
}

func TestWithRoleAttachesRoleField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(RoleGroundCtl, logrus.InfoLevel, &buf)

	WithRole(logger, RoleGroundCtl).Info("connected")

	assert.Contains(t, buf.String(), "role=groundctl")
}
