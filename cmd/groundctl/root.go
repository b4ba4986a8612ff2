// Command groundctl is the minimal ground-control CLI: it opens the
// serial link to the drone and can send control/mode/keep-alive/logging
// messages and print decoded telemetry, standing in for the graphical
// dashboard's command surface (the dashboard itself is an external
// collaborator, out of scope here).
package main

import (
	"fmt"
	"os"

	"github.com/flightctl/quadrotor/pipe"
	goserial "github.com/flightctl/quadrotor/transport/serial"
	"github.com/spf13/cobra"
)

const pipeCapacity = 256 // max host-side frame size the wire protocol allows.

var portName string

var rootCmd = &cobra.Command{
	Use:   "groundctl",
	Short: "Ground-control CLI for the quadrotor flight controller",
	Long: `groundctl talks to the on-board flight controller over a serial link,
sending control, mode, and keep-alive messages and printing whatever
telemetry comes back.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&portName, "port", "", "serial device the drone is connected on (required)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openLink opens the configured serial port and wraps it in a pipe.Pipe,
// failing fast if --port was not given.
func openLink() (*goserial.Link, *pipe.Pipe, error) {
	if portName == "" {
		return nil, nil, fmt.Errorf("--port is required")
	}
	link, err := goserial.Open(portName)
	if err != nil {
		return nil, nil, err
	}
	return link, link.NewPipe(pipeCapacity), nil
}
