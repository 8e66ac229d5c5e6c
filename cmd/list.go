package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listVerbosity int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List attached USB devices",
	Long: `List prints one line per attached USB device: bus and address, then
vendor and product ID. Repeat -v for class, subclass, and protocol codes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		descs, err := listDevices()
		if err != nil {
			return fmt.Errorf("list devices: %w", err)
		}
		for _, d := range descs {
			fmt.Fprintf(cmd.OutOrStdout(), "%03d:%03d %04x:%04x",
				d.Bus, d.Address, d.VendorID, d.ProductID)
			if listVerbosity > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " class=%02x subclass=%02x protocol=%02x",
					d.Class, d.SubClass, d.Protocol)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
		if len(descs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no devices attached")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().CountVarP(&listVerbosity, "verbose", "v", "increase listing detail")
	rootCmd.AddCommand(listCmd)
}
