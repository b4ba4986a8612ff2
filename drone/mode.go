package drone

import (
	"time"

	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
)

// modeHandler is the behavior every flight mode implements. Go has no
// trait-default-methods, so the handler-shared logic (isBatteryLow,
// doPeriodic) lives as free functions that each handler calls explicitly.
type modeHandler interface {
	// Operate runs one tick's worth of work for this mode and returns the
	// mode the drone should be in afterwards. If the mode changes, the
	// caller re-dispatches to the new mode within the same tick so its
	// own input-draining loop still runs before the tick ends.
	Operate(s *State, iterCount uint32, deltaT time.Duration) dronemode.Mode

	// CheckForInput drains as much of the receive pipe as possible,
	// returning early the moment the mode should change.
	CheckForInput(s *State, iterCount uint32) dronemode.Mode

	// DoMotorControl applies this mode's motor-control policy.
	DoMotorControl(s *State, deltaT time.Duration)

	// Mode reports which dronemode.Mode this handler implements.
	Mode() dronemode.Mode
}

func handlerFor(m dronemode.Mode) modeHandler {
	switch m {
	case dronemode.Safe:
		return safeMode{}
	case dronemode.Manual:
		return manualMode{}
	case dronemode.Panic:
		return panicMode{}
	case dronemode.Calibrate:
		return calibrateMode{}
	case dronemode.YawControl:
		return yawControlMode{}
	case dronemode.FullControl:
		return fullControlMode{}
	case dronemode.RawMode:
		return rawMode{}
	default:
		return safeMode{}
	}
}

// maxDrainIterations bounds how many messages CheckForInput will consume in
// a single tick before giving up and returning the mode unchanged. The
// pipe's receive buffer is finite, so in practice this never triggers; it
// exists purely so a malformed or adversarial byte stream can never stall
// the 100 Hz tick loop.
const maxDrainIterations = 256

// isBatteryLow reports whether the drone should treat itself as critically
// low on power, turning off the red LED when it is not.
func isBatteryLow(s *State) bool {
	batteryValue := uint16(2000)
	if s.Config.CheckBattery {
		batteryValue = s.Battery.MilliVolts()
	}
	if batteryValue < batteryLowMilliVolts {
		return true
	}
	if s.LEDs != nil {
		s.LEDs.SetRed(false)
	}
	return false
}

// doPeriodic runs the telemetry every mode sends on a fixed cadence:
// keep-alive, battery health, the last debug message, and the last motor
// command.
func doPeriodic(s *State, iterCount uint32) {
	if s.Config.KeepAliveTickPeriod != 0 && iterCount%s.Config.KeepAliveTickPeriod == 0 {
		s.SendAlive()
	}

	if s.Config.CheckBattery && s.Config.BatteryPrintingTime != 0 && iterCount%s.Config.BatteryPrintingTime == 0 {
		s.Send(message.HealthData{Bat: s.Battery.MilliVolts(), CPU: 0, Pres: 0})
	}

	if iterCount%10 == 0 && s.DebugInfo != nil {
		s.Send(s.DebugInfo)
	}

	if s.Config.DebugMotorCommandPeriod != 0 && iterCount%s.Config.DebugMotorCommandPeriod == 0 {
		mc := s.Motors()
		s.Send(message.MotorsState{Ae1: mc[0], Ae2: mc[1], Ae3: mc[2], Ae4: mc[3]})
	}

	if s.Config.DebugInfoPeriod != 0 && iterCount%s.Config.DebugInfoPeriod == 0 && s.DebugInfo != nil {
		s.Send(s.DebugInfo)
	}
}
