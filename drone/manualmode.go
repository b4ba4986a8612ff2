package drone

import (
	"time"

	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/mixer"
)

// manualMode applies the pilot's raw stick input straight to the mixer,
// with no attitude or rate control at all.
type manualMode struct{}

func (manualMode) Mode() dronemode.Mode { return dronemode.Manual }

func (h manualMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
	if s.LEDs != nil {
		s.LEDs.SetGreen(true)
		s.LEDs.SetBlue(true)
		s.LEDs.SetRed(false)
	}

	var next dronemode.Mode
	if isBatteryLow(s) {
		next = dronemode.Panic
	} else {
		next = h.CheckForInput(s, iterCount)
		h.DoMotorControl(s, deltaT)
	}

	if next == h.Mode() {
		doPeriodic(s, iterCount)
	}
	return next
}

func (h manualMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
	ret := h.Mode()

	for i := 0; i < maxDrainIterations && ret == h.Mode(); i++ {
		switch msg := s.Read().(type) {
		case message.Control:
			s.SetCC(msg)

		case message.ModeRequest:
			if msg.Mode == dronemode.Safe || msg.Mode == dronemode.Panic {
				return dronemode.Panic
			}

		case message.KeepAlive:
			s.GotKeepAlive()

		case message.Empty:
			return ret

		default:
			// ignore other messages
		}
	}

	return ret
}

func (manualMode) DoMotorControl(s *State, deltaT time.Duration) {
	out, err := mixer.Mix(s.CCAsChannels())
	if err != nil {
		s.Logger.WithError(err).Warn("manual mode: mixer rejected command")
		out = [4]uint16{}
	}
	s.SetMotors(out)
}
