package drone

import (
	"time"

	"github.com/flightctl/quadrotor/control"
	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/mixer"
)

// rawMode closes the loop on all three axes (roll, pitch, yaw) using the
// raw complementary-filter sensor source, rather than the IMU's DMP.
type rawMode struct{}

func (rawMode) Mode() dronemode.Mode { return dronemode.RawMode }

func (h rawMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
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

func (h rawMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
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

func (rawMode) DoMotorControl(s *State, deltaT time.Duration) {
	cc := s.CCAsChannels()
	rollCommand := int32(cc[1]) - 1024
	pitchCommand := int32(cc[2]) - 1024
	yawCommand := int32(cc[3]) - 1024

	attGains := control.AttitudeGains{P1: s.P1, P2: s.P2}
	cc[1] = control.RollRaw(rollCommand, attGains, s.SensorsRaw.RollRate(), s.SensorsRaw.Roll(), deltaT)
	cc[2] = control.PitchRaw(pitchCommand, attGains, s.SensorsRaw.PitchRate(), s.SensorsRaw.Pitch(), deltaT)
	cc[3] = control.YawRateRaw(yawCommand, control.RateGains{P: s.P}, s.SensorsRaw.YawRate(), deltaT)

	out, err := mixer.Mix(cc)
	if err != nil {
		s.Logger.WithError(err).Warn("raw mode: mixer rejected command")
		out = [4]uint16{}
	}
	s.SetMotors(out)
}
