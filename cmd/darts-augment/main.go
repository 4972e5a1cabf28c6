package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KunlinY/darts/internal/cli"
)

func newRootCmd() *cobra.Command {
	return cli.NewRootCmd("darts-augment", "derive the configuration of a DARTS augment run",
		newRunCmd(), cli.NewDevicesCmd())
}

func main() {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(cli.InjectRootAlias(rootCmd, os.Args, "run")[1:])
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("fatal error running darts-augment")
	}
}
