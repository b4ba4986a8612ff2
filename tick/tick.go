// Package tick drives the on-board flight-controller's 100 Hz control
// loop: a single goroutine that wakes on a fixed period, measures the
// actual elapsed time since the last wake, and hands both to a caller
// supplied callback.
package tick

import (
	"context"
	"time"

	"github.com/flightctl/quadrotor/device"
	"github.com/flightctl/quadrotor/message"
	"github.com/sirupsen/logrus"
)

// Period is the fixed control-loop tick period. The original firmware's
// control_loop pins the rate at 100 Hz via set_tick_frequency(100).
const Period = time.Second / 100

// deadline is the per-tick budget above which a warning is emitted. The
// original checks delta_t.as_millis() > 10, i.e. one tick period.
const deadline = 10 * time.Millisecond

// MotorMax is the rotor command ceiling of set_motor_max(800) in the
// original control_loop. Loop does not apply it, and no motor command in
// this repository is capped by it.
const MotorMax = 800

// Sender is the subset of drone.State a Loop needs in order to report a
// deadline overrun; drone.State satisfies it directly.
type Sender interface {
	Send(msg message.Message) bool
}

// Loop runs a callback at a fixed rate, applying the same deadline-warning
// and panic-safety policy every tick.
type Loop struct {
	// OnTick is invoked once per tick with a monotonically increasing
	// iteration counter (starting at 1) and the actual elapsed time since
	// the previous invocation.
	OnTick func(iter uint32, deltaT time.Duration)

	// Sender receives a diagnostic message.Text when a tick overruns its
	// deadline. May be nil to disable the warning.
	Sender Sender

	// Actuators is zeroed by Run's panic recovery before the panic is
	// re-raised, guaranteeing the motors never keep spinning past an
	// unexpected fault. May be nil if no actuator is wired (e.g. in a
	// test harness).
	Actuators device.Actuators

	Logger *logrus.Logger
}

// Run blocks, driving OnTick once every Period until ctx is cancelled. It
// has no return value; the original control_loop's return type is "!"
// (never returns) outside of a panic, and Run mirrors that by returning
// only once ctx.Done() fires.
func (l *Loop) Run(ctx context.Context) {
	logger := l.Logger
	if logger == nil {
		logger = logrus.New()
	}

	ticker := time.NewTicker(Period)
	defer ticker.Stop()

	last := time.Now()
	var iter uint32

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			iter++
			deltaT := now.Sub(last)
			last = now

			if deltaT > deadline && l.Sender != nil {
				l.Sender.Send(message.Text{Value: "Exceeding deadline!"})
			}

			l.runTick(iter, deltaT, logger)
		}
	}
}

// runTick invokes OnTick under a recover() that zeroes the motors before
// re-raising: Go has no equivalent to the original's #[panic_handler]
// blinking an LED and writing the panic message to UART, but the
// "motors go to zero first" guarantee is preserved.
func (l *Loop) runTick(iter uint32, deltaT time.Duration, logger *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			if l.Actuators != nil {
				l.Actuators.SetMotors([4]uint16{})
			}
			logger.WithField("tick", iter).WithField("panic", r).Error("tick panicked, motors zeroed")
			panic(r)
		}
	}()

	l.OnTick(iter, deltaT)
}
