package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const envPrefix = "LWSN_"

// loadEnvFile loads the variables of the file into the environment. Variables
// that are already set are kept. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// envName returns the variable that overrides a flag, for example
// LWSN_MIN_TIME for --min-time.
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnv sets every flag that is not given on the command line from its
// environment variable, if the variable exists.
func applyEnv(cmd *cobra.Command) error {
	var result *multierror.Error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" {
			return
		}

		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		if err := f.Value.Set(value); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("%s=%q: %w", envName(f.Name), value, err))
		}
	})

	return result.ErrorOrNil()
}
