package cmd

import (
	"context"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/sarchlab/lwsn/datarecording"
)

var reportCmd = &cobra.Command{
	Use:   "report <db>",
	Short: "Summarize a recorded simulation.",
	Long: "`report` reads the deliveries and drops that `run --db` recorded " +
		"and prints the per-gateway latency summary.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plotPath, _ := cmd.Flags().GetString("plot")

		return reportRecording(cmd.Context(), args[0], plotPath, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("plot", "", "Write the latency plot to this .png or .svg file")
}

func reportRecording(
	ctx context.Context,
	path, plotPath string,
	out io.Writer,
) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err = os.Stat(path); err != nil {
		return err
	}

	reader := datarecording.NewReader(path)
	defer func() {
		if e := reader.Close(); e != nil {
			err = multierror.Append(err, e)
		}
	}()

	deliveries, err := datarecording.LoadDeliveries(ctx, reader)
	if err != nil {
		return err
	}

	drops, err := datarecording.CountDrops(ctx, reader)
	if err != nil {
		return err
	}

	if err = printResults(out, deliveries, drops); err != nil {
		return err
	}

	if plotPath != "" {
		return savePlot(plotPath, deliveries)
	}

	return nil
}
