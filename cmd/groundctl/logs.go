package main

import (
	"github.com/flightctl/quadrotor/message"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Start or stop on-device flight logging",
}

var logsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Send StartLogging",
	Args:  cobra.NoArgs,
	RunE:  runLogsStart,
}

var logsStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Send StopLogging",
	Args:  cobra.NoArgs,
	RunE:  runLogsStop,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsStartCmd)
	logsCmd.AddCommand(logsStopCmd)
}

func runLogsStart(cmd *cobra.Command, args []string) error {
	link, p, err := openLink()
	if err != nil {
		return err
	}
	defer link.Close()
	return sendOrErr(p.Send(message.StartLogging{}))
}

func runLogsStop(cmd *cobra.Command, args []string) error {
	link, p, err := openLink()
	if err != nil {
		return err
	}
	defer link.Close()
	return sendOrErr(p.Send(message.StopLogging{}))
}
