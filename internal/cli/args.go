package cli

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NoPositionalArgs rejects positional arguments. A stray token is most often the value of a
// boolean flag written with a space (`--noise False`), which pflag leaves unconsumed.
func NoPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}

	flag := "flag"
	cmd.LocalNonPersistentFlags().VisitAll(func(f *pflag.Flag) {
		if flag == "flag" && f.Name != "help" && f.Value.Type() == "bool" {
			flag = f.Name
		}
	})
	value := "false"
	if b, err := strconv.ParseBool(args[0]); err == nil {
		value = strconv.FormatBool(b)
	}
	return errors.Errorf("unexpected argument %q for %q; boolean flags take their value after "+
		"\"=\", e.g. --%s=%s", strings.Join(args, " "), cmd.CommandPath(), flag, value)
}
