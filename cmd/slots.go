package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sarchlab/lwsn/wsn/slot"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print when each node may access the medium.",
	Long: "`slots` prints, for every whole second, the slot class that owns " +
		"the medium and the delay each node waits before it transmits.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		nodes, _ := cmd.Flags().GetInt("nodes")
		seconds, _ := cmd.Flags().GetInt("seconds")

		if nodes < 1 || seconds < 1 {
			return fmt.Errorf("nodes and seconds must be positive")
		}

		return writeSlotTable(cmd.OutOrStdout(), nodes, seconds)
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)

	slotsCmd.Flags().Int("nodes", 8, "Number of nodes")
	slotsCmd.Flags().Int("seconds", slot.Frame, "Number of seconds to print")
}

func writeSlotTable(w io.Writer, nodes, seconds int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "SECOND\tPHASE")
	for sid := 0; sid < nodes; sid++ {
		fmt.Fprintf(tw, "\tSID %d", sid)
	}
	fmt.Fprintln(tw)

	for sec := 0; sec < seconds; sec++ {
		fmt.Fprintf(tw, "%d\t%d", sec, slot.Phase(int64(sec)))

		for sid := 0; sid < nodes; sid++ {
			fmt.Fprintf(tw, "\t%.1f", slot.Delay(int64(sec), uint16(sid)))
		}

		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
