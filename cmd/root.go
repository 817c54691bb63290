// Package cmd provides the command-line interface of the line simulator.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lwsn",
	Short: "lwsn simulates a linear wireless sensor network.",
	Long: `lwsn simulates a line of sensor nodes that share one radio ` +
		`medium. The nodes take turns in 3-second slot frames and relay ` +
		`every packet toward the gateways at both ends of the line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		return applyEnv(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env",
		"File with LWSN_* variables that override the flag defaults")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
