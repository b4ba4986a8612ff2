package drone

import (
	"time"

	"github.com/flightctl/quadrotor/control"
	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/mixer"
)

// fullControlMode closes the loop on all three axes using the DMP-derived
// attitude estimate - the FullControl counterpart to rawMode, which uses
// the raw complementary filter instead. The upstream prototype this
// firmware is descended from never got around to implementing this mode;
// it is completed here following the same shape as rawMode and
// yawControlMode.
type fullControlMode struct{}

func (fullControlMode) Mode() dronemode.Mode { return dronemode.FullControl }

func (h fullControlMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
	if s.LEDs != nil {
		s.LEDs.SetGreen(false)
		s.LEDs.SetBlue(true)
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

func (h fullControlMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
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

		case message.UpdateP1P2:
			s.P1 = msg.P1
			s.P2 = msg.P2
			s.Send(message.UpdateP1P2{P1: s.P1, P2: s.P2})

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

func (fullControlMode) DoMotorControl(s *State, deltaT time.Duration) {
	cc := s.CCAsChannels()
	rollCommand := int32(cc[1]) - 1024
	pitchCommand := int32(cc[2]) - 1024
	yawCommand := int32(cc[3]) - 1024

	attGains := control.AttitudeGains{P1: s.P1, P2: s.P2}
	cc[1] = control.RollDMP(rollCommand, attGains, s.dmpRollOld(), s.dmpRoll(), deltaT)
	cc[2] = control.PitchDMP(pitchCommand, attGains, s.dmpPitchOld(), s.dmpPitch(), deltaT)
	cc[3] = control.YawRateDMP(yawCommand, control.RateGains{P: s.P}, s.dmpYaw(), s.dmpYawOld(), deltaT)

	out, err := mixer.Mix(cc)
	if err != nil {
		s.Logger.WithError(err).Warn("full control mode: mixer rejected command")
		out = [4]uint16{}
	}
	s.SetMotors(out)
}
