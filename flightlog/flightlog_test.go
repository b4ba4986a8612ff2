package flightlog

import (
	"testing"

	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/device/simulate"
	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/stretchr/testify/require"
)

func TestLogThenReportRoundTrip(t *testing.T) {
	flash := simulate.NewFlash(4096)
	s := New(flash)

	require.True(t, s.StartLogging())
	sample := Sample{
		Gyro:  device.Gyro{X: 1, Y: 2, Z: 3},
		Accel: device.Accel{X: 4, Y: 5, Z: 6},
		Pitch: fixedpoint.FromFloat(0.1),
		Roll:  fixedpoint.FromFloat(-0.2),
		Yaw:   fixedpoint.FromFloat(0.3),
	}
	require.NoError(t, s.TickLog(sample))
	require.NoError(t, s.TickLog(sample))
	require.NoError(t, s.StopLogging())
	require.False(t, s.Logging())

	require.NoError(t, s.StartLogReporting())
	require.True(t, s.Reporting())

	msg, ok, err := s.TickReport(0, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int16(1), msg.GyroX)
	require.Equal(t, int16(6), msg.AccelZ)
	require.InDelta(t, 0.1, msg.Pitch.Float(), 0.001)

	_, ok, err = s.TickReport(1, 1)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = s.TickReport(2, 1)
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, s.Reporting())
}

func TestTickReportGatedByPeriod(t *testing.T) {
	flash := simulate.NewFlash(4096)
	s := New(flash)
	require.True(t, s.StartLogging())
	require.NoError(t, s.TickLog(Sample{}))
	require.NoError(t, s.StopLogging())
	require.NoError(t, s.StartLogReporting())

	_, ok, err := s.TickReport(1, 2)
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = s.TickReport(2, 2)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTickLogNoopWhenNotLogging(t *testing.T) {
	flash := simulate.NewFlash(4096)
	s := New(flash)
	require.NoError(t, s.TickLog(Sample{}))
}

func TestStartLoggingRefusedWhileReporting(t *testing.T) {
	flash := simulate.NewFlash(4096)
	s := New(flash)
	require.NoError(t, s.StartLogReporting())
	require.False(t, s.StartLogging())
}

func TestOutOfSpaceStopsLogging(t *testing.T) {
	flash := simulate.NewFlash(dataStart + recordSize)
	s := New(flash)
	require.True(t, s.StartLogging())
	require.NoError(t, s.TickLog(Sample{}))
	err := s.TickLog(Sample{})
	require.ErrorIs(t, err, ErrOutOfSpace)
	require.False(t, s.Logging())
}
