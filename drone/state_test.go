package drone

import (
	"errors"
	"testing"
	"time"

	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/device/simulate"
	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/pipe"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// loopback is a bidirectional in-memory link: toState holds the bytes the
// host has sent to the state, toHost the bytes the state has sent out.
type loopback struct {
	toState []byte
	toHost  []byte
}

func newState(t *testing.T, lb *loopback) *State {
	t.Helper()
	return newStateWithFlash(t, lb, simulate.NewFlash(4096))
}

func newStateWithFlash(t *testing.T, lb *loopback, flash device.Flash) *State {
	t.Helper()
	p := pipe.New(128,
		func(buf []byte) int {
			n := copy(buf, lb.toState)
			lb.toState = lb.toState[n:]
			return n
		},
		func(data []byte) bool {
			lb.toHost = append(lb.toHost, data...)
			return true
		},
	)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	imu := simulate.NewIMU()
	leds := &simulate.LEDs{}
	battery := simulate.Battery{MV: 1600}
	actuators := &simulate.Actuators{}

	return New(p, imu, leds, battery, actuators, flash, logger)
}

// erroringFlash wraps a simulate.Flash but fails every write, standing in
// for an SPI transfer failure against the real hardware.
type erroringFlash struct{ *simulate.Flash }

func (erroringFlash) WriteAt(addr uint32, data []byte) error {
	return errors.New("simulated spi failure")
}

func deliver(t *testing.T, lb *loopback, msg message.Message) {
	t.Helper()
	tmp := pipe.New(128, func([]byte) int { return 0 }, func(data []byte) bool {
		lb.toState = append(lb.toState, data...)
		return true
	})
	require.NoError(t, tmp.Send(msg))
}

// pollHost decodes the next message the state sent out, in the order it
// was sent.
func pollHost(t *testing.T, lb *loopback) (message.Message, error) {
	t.Helper()
	rx := pipe.New(128, func(buf []byte) int {
		n := copy(buf, lb.toHost)
		lb.toHost = lb.toHost[n:]
		return n
	}, func([]byte) bool { return true })
	return rx.Poll()
}

// drainHost decodes every message the state has sent out so far, in order.
func drainHost(t *testing.T, lb *loopback) []message.Message {
	t.Helper()
	rx := pipe.New(128, func(buf []byte) int {
		n := copy(buf, lb.toHost)
		lb.toHost = lb.toHost[n:]
		return n
	}, func([]byte) bool { return true })
	var out []message.Message
	for {
		msg, err := rx.Poll()
		if err != nil {
			return out
		}
		out = append(out, msg)
	}
}

func containsLogErrorText(msgs []message.Message) bool {
	for _, m := range msgs {
		if txt, ok := m.(message.Text); ok && txt.Value == "e: log" {
			return true
		}
	}
	return false
}

func TestSafeModeWarnsOnNonNeutralControlBeforeArming(t *testing.T) {
	lb := &loopback{}
	s := newState(t, lb)

	deliver(t, lb, message.Control{Lift: 500, Roll: 1024, Pitch: 1024, Yaw: 1024})
	deliver(t, lb, message.ModeRequest{Mode: dronemode.Manual})

	s.Tick(0, time.Millisecond)

	require.Equal(t, dronemode.Safe, s.Mode)

	got, err := pollHost(t, lb)
	require.NoError(t, err)
	warn, ok := got.(message.Warning)
	require.True(t, ok)
	require.Equal(t, message.ControlNotNeutral, warn.Kind)
}

func TestSafeModeWarnsOnUncalibratedArmIntoYawControl(t *testing.T) {
	lb := &loopback{}
	s := newState(t, lb)

	deliver(t, lb, message.Control{Lift: 0, Roll: 1024, Pitch: 1024, Yaw: 1024})
	deliver(t, lb, message.ModeRequest{Mode: dronemode.YawControl})
	s.Tick(0, time.Millisecond)

	require.Equal(t, dronemode.Safe, s.Mode)

	got, err := pollHost(t, lb)
	require.NoError(t, err)
	warn, ok := got.(message.Warning)
	require.True(t, ok)
	require.Equal(t, message.SensorNotCalibratedWarning, warn.Kind)
}

func TestLostKeepAliveForcesPanic(t *testing.T) {
	lb := &loopback{}
	s := newState(t, lb)
	s.Mode = dronemode.Manual
	// Lift 400 keeps the rotors spinning, so the Panic ramp-down still has
	// work left on the tick the timeout fires.
	deliver(t, lb, message.Control{Lift: 400, Roll: 1024, Pitch: 1024, Yaw: 1024})

	for i := uint32(0); i <= s.Config.MaxTicksNoKeepAlive; i++ {
		s.Tick(i, time.Millisecond)
	}

	require.Equal(t, dronemode.Panic, s.Mode)
}

func TestPanicModeRampsMotorsToZeroThenReturnsToSafe(t *testing.T) {
	lb := &loopback{}
	s := newState(t, lb)
	s.Mode = dronemode.Panic
	s.SetMotors([4]uint16{800, 800, 800, 800})

	maxTicks := uint32(800/s.Config.PanicMotorReduction) + 2
	var i uint32
	for ; i < maxTicks; i++ {
		s.Tick(i, time.Millisecond)
		if s.Mode == dronemode.Safe {
			break
		}
	}

	require.Equal(t, dronemode.Safe, s.Mode)
	require.Equal(t, [4]uint16{0, 0, 0, 0}, s.Motors())
	require.LessOrEqual(t, i, uint32(400))
}

func TestManualModeAppliesAsymmetricRollToMotors(t *testing.T) {
	lb := &loopback{}
	s := newState(t, lb)
	s.Mode = dronemode.Manual

	deliver(t, lb, message.Control{Lift: 400, Roll: 1224, Pitch: 1024, Yaw: 1024})
	s.Tick(1, time.Millisecond)

	m := s.Motors()
	require.NotEqual(t, m[0], m[1])
}

func TestKeepAliveRoundTripResetsTimeout(t *testing.T) {
	lb := &loopback{}
	s := newState(t, lb)
	s.Mode = dronemode.Manual
	s.ticksSinceLastKA = s.Config.MaxTicksNoKeepAlive - 1

	deliver(t, lb, message.KeepAlive{})
	s.Tick(1, time.Millisecond)

	require.Equal(t, uint32(0), s.ticksSinceLastKA)
	require.True(t, s.CheckAlive())
	require.NotEqual(t, dronemode.Panic, s.Mode)
}

// TestLogIfEnabledDropsSpiErrorsSilently covers the flash-write failure
// branch: a write failure reported as flightlog.ErrSpiError must never
// reach the ground station as a message, unlike running out of flash
// space.
func TestLogIfEnabledDropsSpiErrorsSilently(t *testing.T) {
	lb := &loopback{}
	flash := erroringFlash{simulate.NewFlash(4096)}
	s := newStateWithFlash(t, lb, flash)
	s.Mode = dronemode.Manual
	s.Log.StartLogging()

	s.Tick(1, time.Millisecond)

	require.False(t, containsLogErrorText(drainHost(t, lb)))
}

// TestLogIfEnabledReportsOutOfSpace covers the complementary branch: a
// flash region too small for even one record must surface an "e: log"
// text message, since that failure stops the logging pass the pilot
// asked for.
func TestLogIfEnabledReportsOutOfSpace(t *testing.T) {
	lb := &loopback{}
	flash := simulate.NewFlash(8)
	s := newStateWithFlash(t, lb, flash)
	s.Mode = dronemode.Manual
	s.Log.StartLogging()

	s.Tick(1, time.Millisecond)

	require.True(t, containsLogErrorText(drainHost(t, lb)))
}
