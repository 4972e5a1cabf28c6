package cli

import (
	"github.com/spf13/cobra"
)

// InjectRootAlias returns args with inject inserted as the subcommand when args[1] does not
// already name a subcommand of rootCmd, so that a bare invocation runs inject. Help requests
// are routed to inject as well.
func InjectRootAlias(rootCmd *cobra.Command, args []string, inject string) []string {
	if len(args) > 1 {
		for _, v := range nonRootSubCmds(rootCmd) {
			if args[1] == v {
				return args
			}
		}
		if args[1] == "--version" {
			return args
		}
	}
	return append([]string{args[0], inject}, args[1:]...)
}

func nonRootSubCmds(rootCmd *cobra.Command) []string {
	res := []string{"help"}
	for _, c := range rootCmd.Commands() {
		res = append(res, c.Name())
		res = append(res, c.Aliases...)
	}
	return res
}
