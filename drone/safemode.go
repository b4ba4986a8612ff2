package drone

import (
	"time"

	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
)

// safeMode is the unarmed resting mode: motors never spin, and it is the
// only mode that can arm into Manual, Calibrate, YawControl, FullControl, or
// RawMode.
type safeMode struct{}

func (safeMode) Mode() dronemode.Mode { return dronemode.Safe }

func (h safeMode) Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode {
	if s.LEDs != nil {
		s.LEDs.SetGreen(true)
		s.LEDs.SetRed(false)
	}

	next := h.Mode()
	if !isBatteryLow(s) {
		next = h.CheckForInput(s, iterCount)
		h.DoMotorControl(s, deltaT)

		if next == h.Mode() {
			doPeriodic(s, iterCount)
		}
	}
	return next
}

func (h safeMode) CheckForInput(s *State, iterCount uint32) dronemode.Mode {
	ret := h.Mode()

	for i := 0; i < maxDrainIterations && ret == h.Mode(); i++ {
		switch msg := s.Read().(type) {
		case message.Control:
			s.SetCC(msg)

		case message.ModeRequest:
			switch {
			case msg.Mode == dronemode.Panic:
				ret = dronemode.Panic
			case !isControlNeutral(s.CC(), s.Config.DeadMargin):
				s.Send(message.Warning{Kind: message.ControlNotNeutral})
				return ret
			case msg.Mode == dronemode.Manual:
				ret = dronemode.Manual
			case msg.Mode == dronemode.Calibrate:
				ret = dronemode.Calibrate
			case msg.Mode == dronemode.YawControl, msg.Mode == dronemode.FullControl, msg.Mode == dronemode.RawMode:
				if !s.Calibration.IsCalibrated() {
					s.Send(message.Warning{Kind: message.SensorNotCalibratedWarning})
					ret = dronemode.Safe
				} else {
					ret = msg.Mode
				}
			}

		case message.KeepAlive:
			s.GotKeepAlive()

		case message.StartLogging:
			s.StartLogging()
		case message.StopLogging:
			s.StopLogging()
		case message.StartLogReporting:
			s.StartLogReporting()
		case message.StopLogReporting:
			s.StopLogReporting()

		case message.Empty:
			return ret

		default:
			// ignore other messages
		}
	}

	return ret
}

func (safeMode) DoMotorControl(s *State, deltaT time.Duration) {
	s.SetMotors([4]uint16{0, 0, 0, 0})
}

// isControlNeutral reports whether ctrl is close enough to the hover/neutral
// stick position (lift at zero, roll/pitch/yaw at 1024) to allow a mode
// transition.
func isControlNeutral(ctrl message.Control, deadMargin uint16) bool {
	upper := 1024 + deadMargin
	lower := 1024 - deadMargin

	if ctrl.Lift > 0 {
		return false
	}
	if ctrl.Roll > upper || ctrl.Roll < lower {
		return false
	}
	if ctrl.Pitch > upper || ctrl.Pitch < lower {
		return false
	}
	if ctrl.Yaw > upper || ctrl.Yaw < lower {
		return false
	}
	return true
}
