// Package drone implements the on-board flight-controller state machine:
// the seven operating modes, keep-alive supervision, and the periodic
// telemetry/logging work every mode shares.
package drone

import (
	"errors"
	"time"

	"github.com/flightctl/quadrotor/calibration"
	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/fixedpoint"
	"github.com/flightctl/quadrotor/flightlog"
	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/pipe"
	"github.com/flightctl/quadrotor/sensors"
	"github.com/sirupsen/logrus"
)

// batteryLowMilliVolts is the pack voltage below which every mode forces a
// transition to Panic.
const batteryLowMilliVolts = 1050

// State is the drone's single, shared piece of mutable state: the
// communication pipe, the current mode, the latest received command, the
// sensor sources, and the tuning gains. Only one instance should exist per
// process.
type State struct {
	Pipe *pipe.Pipe
	Mode dronemode.Mode

	receivedCommand message.Control
	motorCommand    [4]uint16

	Config Config

	ticksSinceLastKA uint32

	Calibration calibration.Store
	SensorsDMP  sensors.DMP
	SensorsRaw  sensors.Raw
	P, P1, P2   fixedpoint.Q16_16

	Log *flightlog.Store

	DebugInfo message.Message

	LEDs      device.LEDs
	Battery   device.Battery
	Actuators device.Actuators
	IMU       device.IMUBus

	Logger *logrus.Logger
}

// New builds a State wired to the given pipe and hardware collaborators,
// starting in Safe mode with a deliberately out-of-range received command so
// that no real motor command can be produced before the first command
// arrives.
func New(p *pipe.Pipe, imu device.IMUBus, leds device.LEDs, battery device.Battery, actuators device.Actuators, flash device.Flash, logger *logrus.Logger) *State {
	if logger == nil {
		logger = logrus.New()
	}
	return &State{
		Pipe: p,
		Mode: dronemode.Safe,
		receivedCommand: message.Control{
			Lift: 2048, Roll: 2048, Pitch: 2048, Yaw: 2048,
		},
		Config:    DefaultConfig(),
		IMU:       imu,
		LEDs:      leds,
		Battery:   battery,
		Actuators: actuators,
		Log:       flightlog.New(flash),
		P:         fixedpoint.FromInt(5),
		P1:        fixedpoint.FromInt(5),
		P2:        fixedpoint.FromInt(5),
		DebugInfo: message.KeepAlive{},
		Logger:    logger,
	}
}

// Tick advances the drone state by one control-loop iteration.
func (s *State) Tick(iterCount uint32, deltaT time.Duration) {
	s.ticksSinceLastKA++
	if !s.CheckAlive() && s.Mode != dronemode.Safe && s.Mode != dronemode.Panic {
		s.Mode = dronemode.Panic
	}

	s.logIfEnabled()
	s.logReportIfEnabled(iterCount)

	s.dispatchMode(iterCount, deltaT)
}

func (s *State) dispatchMode(iterCount uint32, deltaT time.Duration) {
	h := handlerFor(s.Mode)
	s.internalTick(h, iterCount, deltaT)
}

// internalTick refreshes whichever sensor source the current mode needs,
// runs the mode's operate step, and re-dispatches immediately if the mode
// changed mid-tick rather than waiting for the next Tick call - the new
// mode still needs a chance to drain the input pipe this same tick.
func (s *State) internalTick(h modeHandler, iterCount uint32, deltaT time.Duration) {
	switch {
	case s.Log.Logging():
		if err := s.SensorsRaw.Update(s.IMU, s.Calibration.Raw); err != nil {
			s.Logger.WithError(err).Warn("raw sensor update failed")
		}
		if err := s.SensorsDMP.Update(s.IMU); err != nil {
			s.Logger.WithError(err).Warn("dmp sensor update failed")
		}
	case s.Mode == dronemode.RawMode:
		if err := s.SensorsRaw.Update(s.IMU, s.Calibration.Raw); err != nil {
			s.Logger.WithError(err).Warn("raw sensor update failed")
		}
	default:
		if err := s.SensorsDMP.Update(s.IMU); err != nil {
			s.Logger.WithError(err).Warn("dmp sensor update failed")
		}
	}

	newMode := h.Operate(s, iterCount, deltaT)

	if s.Mode != newMode {
		s.Mode = newMode
		s.Send(message.ModeRequest{Mode: s.Mode})
		s.dispatchMode(iterCount, deltaT)
	}
}

// SetCC records the latest received control command.
func (s *State) SetCC(c message.Control) { s.receivedCommand = c }

// CC returns the latest received control command.
func (s *State) CC() message.Control { return s.receivedCommand }

// CCAsChannels returns the latest received control command as the
// [lift, roll, pitch, yaw] array the mixer expects.
func (s *State) CCAsChannels() [4]uint16 {
	return [4]uint16{s.receivedCommand.Lift, s.receivedCommand.Roll, s.receivedCommand.Pitch, s.receivedCommand.Yaw}
}

// Send attempts to send msg. On failure it makes one best-effort attempt to
// report the failure as a diagnostic Text message, then gives up.
func (s *State) Send(msg message.Message) bool {
	if err := s.Pipe.Send(msg); err != nil {
		s.Logger.WithError(err).Warn("send failed")
		_ = s.Pipe.Send(message.Text{Value: "E s " + err.Error()})
		return false
	}
	return true
}

// Read returns the next decoded message, or message.Empty{} if none was
// available or the frame could not be decoded. A decode failure (as
// opposed to a simple empty pipe) is reported back as a diagnostic Text
// message, best-effort.
func (s *State) Read() message.Message {
	msg, err := s.Pipe.Poll()
	if err == nil {
		return msg
	}
	if err != pipe.ErrEmpty {
		s.Logger.WithError(err).Debug("read failed")
		_ = s.Pipe.Send(message.Text{Value: "E r " + err.Error()})
	}
	return message.Empty{}
}

// SetMotors is the only path through which motor commands may be issued:
// it records the command for Motors/MotorsState reporting before handing
// it to the actuator driver.
func (s *State) SetMotors(cmd [4]uint16) {
	s.motorCommand = cmd
	s.Actuators.SetMotors(cmd)
}

// Motors returns the last motor command issued through SetMotors.
func (s *State) Motors() [4]uint16 { return s.motorCommand }

// GotKeepAlive resets the no-keep-alive tick counter.
func (s *State) GotKeepAlive() { s.ticksSinceLastKA = 0 }

// CheckAlive reports whether a KeepAlive has been seen recently enough.
func (s *State) CheckAlive() bool {
	return s.ticksSinceLastKA <= s.Config.MaxTicksNoKeepAlive
}

// SendAlive sends a KeepAlive to the ground station.
func (s *State) SendAlive() { s.Send(message.KeepAlive{}) }

func (s *State) logIfEnabled() {
	if !s.Log.Logging() {
		return
	}
	a, g, err := s.SensorsRaw.Read(s.IMU, s.Calibration.Raw)
	if err != nil {
		s.Logger.WithError(err).Warn("log sample read failed")
		return
	}
	sample := flightlog.Sample{
		Gyro:  g,
		Accel: a,
		Pitch: s.dmpPitch(),
		Roll:  s.dmpRoll(),
		Yaw:   s.dmpYaw(),
	}
	if err := s.Log.TickLog(sample); err != nil {
		s.Logger.WithError(err).Warn("log write failed")
		if errors.Is(err, flightlog.ErrOutOfSpace) {
			s.Send(message.Text{Value: "e: log"})
		}
	}
}

func (s *State) logReportIfEnabled(iterCount uint32) {
	wasReporting := s.Log.Reporting()
	rec, ok, err := s.Log.TickReport(iterCount, s.Config.LogReportSendPeriod)
	if err != nil {
		s.Logger.WithError(err).Warn("log report read failed")
		s.Send(message.Text{Value: "e: log report"})
	}
	if ok {
		s.Send(rec)
	}
	if wasReporting && !s.Log.Reporting() {
		s.Send(message.StopLogReporting{})
	}
}

// StartLogging begins a new on-device logging pass.
func (s *State) StartLogging() {
	if s.Log.StartLogging() {
		s.Send(message.Text{Value: "log start"})
	}
}

// StopLogging finalizes the current on-device logging pass.
func (s *State) StopLogging() {
	if !s.Log.Logging() {
		return
	}
	s.Send(message.Text{Value: "log stop"})
	if err := s.Log.StopLogging(); err != nil {
		s.Send(message.Text{Value: "e: log stop"})
	}
}

// StartLogReporting begins streaming the finalized on-device log back.
func (s *State) StartLogReporting() {
	if err := s.Log.StartLogReporting(); err != nil {
		s.Send(message.Text{Value: "e: log report start"})
		return
	}
	s.Send(message.Text{Value: "log report start"})
}

// StopLogReporting ends the current log-report stream.
func (s *State) StopLogReporting() {
	if !s.Log.Reporting() {
		return
	}
	s.Send(message.StopLogReporting{})
	s.Log.StopLogReporting()
	s.Send(message.Text{Value: "log report stop"})
}

func (s *State) dmpPitch() fixedpoint.Q16_16 {
	return s.SensorsDMP.New.Pitch.Sub(s.Calibration.Attitude.Pitch)
}

func (s *State) dmpRoll() fixedpoint.Q16_16 {
	return s.SensorsDMP.New.Roll.Sub(s.Calibration.Attitude.Roll)
}

func (s *State) dmpYaw() fixedpoint.Q16_16 {
	return s.SensorsDMP.New.Yaw.Sub(s.Calibration.Attitude.Yaw)
}

func (s *State) dmpPitchOld() fixedpoint.Q16_16 {
	return s.SensorsDMP.Old.Pitch.Sub(s.Calibration.Attitude.Pitch)
}

func (s *State) dmpRollOld() fixedpoint.Q16_16 {
	return s.SensorsDMP.Old.Roll.Sub(s.Calibration.Attitude.Roll)
}

func (s *State) dmpYawOld() fixedpoint.Q16_16 {
	return s.SensorsDMP.Old.Yaw.Sub(s.Calibration.Attitude.Yaw)
}
