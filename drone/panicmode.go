package drone

import (
	"time"

	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
)

// panicMode ramps every rotor down towards zero over successive ticks and
// falls back to Safe once they reach it. It is entered automatically on a
// lost keep-alive or low battery, and cannot be exited by a pilot command.
type panicMode struct{}

func (panicMode) Mode() dronemode.Mode { return dronemode.Panic }

func (h panicMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
	if s.LEDs != nil {
		s.LEDs.SetGreen(false)
		s.LEDs.SetBlue(false)
		s.LEDs.SetRed(true)
	}

	h.CheckForInput(s, iterCount)
	isBatteryLow(s)
	h.DoMotorControl(s, deltaT)

	if motorsAreZero(s.Motors()) {
		return dronemode.Safe
	}

	doPeriodic(s, iterCount)
	return dronemode.Panic
}

// CheckForInput drains whatever has arrived so the pipe does not fill up
// while panicking, but never changes mode - every message is read, and only
// keep-alives are acted on.
func (h panicMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
	for i := 0; i < maxDrainIterations; i++ {
		switch msg := s.Read().(type) {
		case message.KeepAlive:
			s.GotKeepAlive()
		case message.Empty:
			return dronemode.Panic
		default:
			_ = msg
		}
	}
	return dronemode.Panic
}

func (h panicMode) DoMotorControl(s *State, deltaT time.Duration) {
	s.SetMotors(decreaseMotors(s.Motors(), s.Config.PanicMotorReduction))
}

func motorsAreZero(values [4]uint16) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func decreaseMotors(values [4]uint16, reduction uint16) [4]uint16 {
	var out [4]uint16
	for i, v := range values {
		reduced := int32(v) - int32(reduction)
		if reduced < 0 {
			reduced = 0
		}
		out[i] = uint16(reduced)
	}
	return out
}
