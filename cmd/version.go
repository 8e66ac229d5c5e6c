package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X github.com/awenger/benchusb/cmd.version=x.y.z"
var version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the benchusb version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "benchusb version %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
