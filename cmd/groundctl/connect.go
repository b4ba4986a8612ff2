package main

import (
	"fmt"

	"github.com/flightctl/quadrotor/message"
	"github.com/flightctl/quadrotor/pipe"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Open the serial link and print decoded telemetry until interrupted",
	RunE:  runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	link, p, err := openLink()
	if err != nil {
		return err
	}
	defer link.Close()

	for {
		msg, err := p.Poll()
		if err == pipe.ErrEmpty {
			continue
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "decode error: %v\n", err)
			continue
		}
		if _, ok := msg.(message.Empty); ok {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%#v\n", msg)
	}
}
