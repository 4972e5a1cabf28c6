package cli

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/KunlinY/darts/pkg/check"
	"github.com/KunlinY/darts/pkg/logger"
	"github.com/KunlinY/darts/version"
)

const (
	bashCompletion       = "bash"
	zshCompletion        = "zsh"
	powerShellCompletion = "power"
)

// NewRootCmd returns the root command of a darts binary. Its persistent flags configure logging,
// and every subcommand reads unset flags from DARTS_ environment variables.
func NewRootCmd(use, short string, subcommands ...*cobra.Command) *cobra.Command {
	opts := logger.DefaultConfig()

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindEnv(EnvPrefix, cmd); err != nil {
				return err
			}
			if err := check.Validate(opts); err != nil {
				return errors.Wrap(err, "invalid logging flags")
			}
			logger.SetLogrus(*opts, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Level, "log_level", opts.Level,
		"set the logging level (can be one of: trace, debug, info, warn, error, or fatal)")
	cmd.PersistentFlags().BoolVar(&opts.Color, "log_color", opts.Color, "enable colored output")
	cmd.PersistentFlags().BoolVar(&opts.Structured, "log_structured", opts.Structured,
		"enable structured logging")

	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newVersionCmd(use))
	cmd.AddCommand(subcommands...)

	return cmd
}

func newVersionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built with %s)\n",
				name, version.Version, runtime.Version())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion",
		Short:     "generates shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{bashCompletion, zshCompletion, powerShellCompletion},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch shell := args[0]; shell {
			case bashCompletion:
				return cmd.Root().GenBashCompletion(out)
			case zshCompletion:
				return cmd.Root().GenZshCompletion(out)
			case powerShellCompletion:
				return cmd.Root().GenPowerShellCompletion(out)
			default:
				return errors.Errorf("unexpected shell provided: %s", shell)
			}
		},
	}
}
