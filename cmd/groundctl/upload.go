package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// uploadCmd is a placeholder: the real firmware-image upload tool is an
// external collaborator this repository does not reimplement. It exists
// only so groundctl's command surface matches the original runner's,
// which takes a firmware image path as its first positional argument
// before connecting.
var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a firmware image before connecting (placeholder, not implemented)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "upload: would flash %s (not implemented; use the external flashing tool)\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
