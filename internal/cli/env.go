package cli

import (
	"strings"
	"syscall"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variable of every flag.
const EnvPrefix = "DARTS_"

// EnvName returns the environment variable read for the flag name.
func EnvName(prefix, name string) string {
	return prefix + strings.ReplaceAll(strings.ToUpper(name), "-", "_")
}

// bindEnv sets every flag not given on the command line from its environment variable, if set.
// Flags set this way count as changed, so they take precedence over configuration files.
func bindEnv(prefix string, cmd *cobra.Command) error {
	var result *multierror.Error
	flags := cmd.Flags()
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed {
			return
		}
		envName := EnvName(prefix, flag.Name)
		if value, ok := syscall.Getenv(envName); ok {
			if err := flags.Set(flag.Name, value); err != nil {
				result = multierror.Append(result,
					errors.Wrapf(err, "failed to parse %s (%s)", envName, flag.Value.Type()))
			}
		}
	})
	return result.ErrorOrNil()
}
