package drone

import (
	"time"

	"github.com/flightctl/quadrotor/control"
	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/mixer"
)

// yawControlMode closes the loop on yaw rate only; roll and pitch pass
// straight through to the mixer as in manualMode.
type yawControlMode struct{}

func (yawControlMode) Mode() dronemode.Mode { return dronemode.YawControl }

func (h yawControlMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
	if s.LEDs != nil {
		s.LEDs.SetGreen(true)
		s.LEDs.SetBlue(false)
		s.LEDs.SetRed(true)
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

func (h yawControlMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
	ret := h.Mode()

	for i := 0; i < maxDrainIterations && ret == h.Mode(); i++ {
		switch msg := s.Read().(type) {
		case message.Control:
			s.SetCC(msg)

		case message.ModeRequest:
			if msg.Mode == dronemode.Safe || msg.Mode == dronemode.Panic {
				return dronemode.Panic
			}

		case message.UpdateP:
			s.P = msg.P
			s.Send(message.UpdateP{P: s.P})

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

func (yawControlMode) DoMotorControl(s *State, deltaT time.Duration) {
	cc := s.CCAsChannels()
	yawCommand := int32(cc[3]) - 1024

	cc[3] = control.YawRateDMP(yawCommand, control.RateGains{P: s.P}, s.dmpYaw(), s.dmpYawOld(), deltaT)

	out, err := mixer.Mix(cc)
	if err != nil {
		s.Logger.WithError(err).Warn("yaw control mode: mixer rejected command")
		out = [4]uint16{}
	}
	s.SetMotors(out)
}
