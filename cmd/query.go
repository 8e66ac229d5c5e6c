package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <command>",
	Short: "Send a command and print the instrument's response",
	Long: `Query writes the command, then performs the two-phase response read:
a receive-request frame on the bulk OUT endpoint followed by a receiving
transfer on the bulk IN endpoint. The response text is printed to stdout.`,
	Example: `  benchusb query --vendor 0x2a8d --product 0x1102 "*IDN?"
  benchusb query -i psu "MEASURE:VOLTAGE?"`,
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

		reply, err := inst.Query(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	addTargetFlags(queryCmd)
	rootCmd.AddCommand(queryCmd)
}
