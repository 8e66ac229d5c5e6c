package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send a command without reading a response",
	Long: `Send frames the command, appends the line terminator, and writes it
to the instrument's bulk OUT endpoint. No response is read; use query for
commands ending in '?'.`,
	Example: `  benchusb send --vendor 0x2a8d --product 0x1102 "OUTPUT ON"
  benchusb send -i psu "VOLTAGE 12.0"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vendor, product, err := target()
		if err != nil {
			return err
		}
		inst, err := connect(vendor, product, sessionOptions()...)
		if err != nil {
			return fmt.Errorf("connect %04x:%04x: %w", vendor, product, err)
		}
		defer inst.Close()

		if err := inst.Write(args[0]); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	addTargetFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}
