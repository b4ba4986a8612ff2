package main

import (
	"fmt"
	"strconv"

	"github.com/flightctl/quadrotor/dronemode"
	"github.com/flightctl/quadrotor/message"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single message to the drone and exit",
}

var sendControlCmd = &cobra.Command{
	Use:   "control <lift> <roll> <pitch> <yaw>",
	Short: "Send one Control message with the given stick values",
	Args:  cobra.ExactArgs(4),
	RunE:  runSendControl,
}

var sendModeCmd = &cobra.Command{
	Use:   "mode <Safe|Manual|Panic|Calibrate|YawControl|FullControl|RawMode>",
	Short: "Send a ModeRequest",
	Args:  cobra.ExactArgs(1),
	RunE:  runSendMode,
}

var sendKeepAliveCmd = &cobra.Command{
	Use:   "keepalive",
	Short: "Send a single KeepAlive",
	Args:  cobra.NoArgs,
	RunE:  runSendKeepAlive,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.AddCommand(sendControlCmd)
	sendCmd.AddCommand(sendModeCmd)
	sendCmd.AddCommand(sendKeepAliveCmd)
}

func parseChannel(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid channel value %q: %w", s, err)
	}
	return uint16(v), nil
}

func runSendControl(cmd *cobra.Command, args []string) error {
	lift, err := parseChannel(args[0])
	if err != nil {
		return err
	}
	roll, err := parseChannel(args[1])
	if err != nil {
		return err
	}
	pitch, err := parseChannel(args[2])
	if err != nil {
		return err
	}
	yaw, err := parseChannel(args[3])
	if err != nil {
		return err
	}

	link, p, err := openLink()
	if err != nil {
		return err
	}
	defer link.Close()

	return sendOrErr(p.Send(message.Control{Lift: lift, Roll: roll, Pitch: pitch, Yaw: yaw}))
}

func parseMode(s string) (dronemode.Mode, error) {
	for m := dronemode.Safe; m <= dronemode.RawMode; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func runSendMode(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(args[0])
	if err != nil {
		return err
	}

	link, p, err := openLink()
	if err != nil {
		return err
	}
	defer link.Close()

	return sendOrErr(p.Send(message.ModeRequest{Mode: mode}))
}

func runSendKeepAlive(cmd *cobra.Command, args []string) error {
	link, p, err := openLink()
	if err != nil {
		return err
	}
	defer link.Close()

	return sendOrErr(p.Send(message.KeepAlive{}))
}

func sendOrErr(err error) error {
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}
