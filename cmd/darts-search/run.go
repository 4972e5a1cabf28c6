package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KunlinY/darts/internal/cli"
	"github.com/KunlinY/darts/internal/config"
	"github.com/KunlinY/darts/internal/detect"
	"github.com/KunlinY/darts/internal/options"
	"github.com/KunlinY/darts/pkg/schemas"
)

// countDevices is replaced in tests.
var countDevices config.DeviceCounter = detect.AcceleratorCount

func newRunCmd() *cobra.Command {
	var configFile, format string
	defaults := options.DefaultSearchOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "derive and print the search configuration",
		Args:  cli.NoPositionalArgs,
	}

	r := cli.NewRegistry(cmd.Flags())
	r.String("name", "", "experiment name (required)")
	r.String("dataset", "", "CIFAR10 / MNIST / FashionMNIST (required)")
	r.Int("batch_size", defaults.BatchSize, "batch size per worker")
	r.Float64("w_lr", defaults.WLR, "lr for weights")
	r.Float64("w_lr_min", defaults.WLRMin, "minimum lr for weights")
	r.Float64("w_momentum", defaults.WMomentum, "momentum for weights")
	r.Float64("w_weight_decay", defaults.WWeightDecay, "weight decay for weights")
	r.Float64("w_grad_clip", defaults.WGradClip, "gradient clipping for weights")
	r.Int("print_freq", defaults.PrintFreq, "print frequency")
	r.String("gpus", defaults.GPUs, "gpu device ids separated by comma. `all` indicates use all gpus.")
	r.Int("epochs", defaults.Epochs, "# of training epochs")
	r.Int("init_channels", defaults.InitChannels, "initial channels")
	r.Int("layers", defaults.Layers, "# of layers")
	r.Int("seed", defaults.Seed, "random seed")
	r.Int("workers", defaults.Workers, "# of workers")
	r.Float64("alpha_lr", defaults.AlphaLR, "lr for alpha")
	r.Float64("alpha_weight_decay", defaults.AlphaWeightDecay, "weight decay for alpha")
	r.Bool("noise", defaults.Noise, "add noise to the architecture weights")
	r.Int("world_size", defaults.WorldSize, "number of distributed processes")
	r.OptionalInt("rank", "rank of this process among the distributed processes")
	r.Int("num_gpus", defaults.NumGPUs, "number of gpus per process")
	r.String("master_addr", defaults.MasterAddr, "address of the rank 0 process")
	r.String("master_port", defaults.MasterPort, "port of the rank 0 process")

	cmd.Flags().StringVar(&configFile, "config_file", "", "YAML file with option values")
	cmd.Flags().StringVar(&format, "format", cli.FormatParams,
		"output format (one of params, markdown, json, or yaml)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts := options.SearchOptions{}
		if err := r.Load(configFile, schemas.SearchOptionsURL, &opts); err != nil {
			return err
		}

		c, err := config.NewSearchConfig(opts, countDevices)
		if err != nil {
			return errors.Wrap(err, "command-line arguments specify illegal configuration")
		}
		log.WithField("name", c.Name).Debug("search configuration ready")

		return cli.WriteConfig(cmd.OutOrStdout(), format, c)
	}

	return cmd
}
