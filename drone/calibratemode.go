package drone

import (
	"time"

	"github.com/flightctl/quadrotor/calibration"
	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
)

// calibrateMode runs a blocking calibration pass and always falls through
// to Panic afterwards, on the theory that the drone should never be armed
// immediately after sitting still for a calibration pass - the pilot must
// explicitly re-arm from Safe.
type calibrateMode struct{}

func (calibrateMode) Mode() dronemode.Mode { return dronemode.Calibrate }

func (h calibrateMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
	if s.LEDs != nil {
		s.LEDs.SetGreen(false)
		s.LEDs.SetBlue(true)
		s.LEDs.SetRed(false)
	}

	if isBatteryLow(s) {
		return dronemode.Panic
	}

	if err := s.Calibration.Calibrate(s.IMU, calibration.DefaultSampleSize); err != nil {
		s.Logger.WithError(err).Warn("calibration failed")
	}

	return dronemode.Panic
}

func (h calibrateMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
	ret := h.Mode()

	for i := 0; i < maxDrainIterations && ret == h.Mode(); i++ {
		switch msg := s.Read().(type) {
		case message.ModeRequest:
			if msg.Mode == dronemode.Safe {
				ret = dronemode.Safe
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

func (calibrateMode) DoMotorControl(s *State, deltaT time.Duration) {
	s.SetMotors([4]uint16{0, 0, 0, 0})
}
