// Command dronectl runs the on-board flight-controller state machine's
// 100 Hz tick loop. It stands in for the firmware binary: it wires the
// state machine to the deterministic in-memory simulator in
// device/simulate, talking to ground control over a serial port when
// --port is given and over an inert pipe otherwise. It follows the
// original control_loop's boot sequence (chip-erase, 100 Hz tick, state
// machine starts in Safe) except that no motor max is set.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightctl/quadrotor/device/simulate"
	"github.com/flightctl/quadrotor/drone"
	"github.com/flightctl/quadrotor/pipe"
	"github.com/flightctl/quadrotor/telemetrylog"
	"github.com/flightctl/quadrotor/tick"
	goserial "github.com/flightctl/quadrotor/transport/serial"
	"github.com/sirupsen/logrus"
)

const pipeCapacity = 128 // max device-side frame size the wire protocol allows.

func main() {
	var (
		port    = flag.String("port", "", "serial device to talk to ground control on (uses an inert pipe if empty)")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := logrus.InfoLevel
	if *verbose {
		level = logrus.DebugLevel
	}
	logger := telemetrylog.New(telemetrylog.RoleDrone, level, os.Stderr)

	imu := simulate.NewIMU()
	leds := &simulate.LEDs{}
	battery := simulate.Battery{MV: 1600}
	actuators := &simulate.Actuators{}
	flash := simulate.NewFlash(64 * 1024)

	var p *pipe.Pipe
	if *port != "" {
		link, err := goserial.Open(*port)
		if err != nil {
			logger.WithError(err).Fatal("failed to open serial port")
		}
		defer link.Close()
		p = link.NewPipe(pipeCapacity)
	} else {
		p = pipe.New(pipeCapacity, func([]byte) int { return 0 }, func([]byte) bool { return true })
	}

	state := drone.New(p, imu, leds, battery, actuators, flash, logger)

	if err := flash.Erase(); err != nil {
		logger.WithError(err).Fatal("flash chip erase failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	loop := &tick.Loop{
		Sender:    state,
		Actuators: actuators,
		Logger:    logger,
	}
	loop.OnTick = func(iter uint32, deltaT time.Duration) {
		state.Tick(iter, deltaT)
	}

	logger.Info("dronectl starting tick loop")
	loop.Run(ctx)
	logger.Info("dronectl shut down")
}
