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
	defaults := options.DefaultAugmentOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "derive and print the augment configuration",
		Args:  cli.NoPositionalArgs,
	}

	r := cli.NewRegistry(cmd.Flags())
	r.String("name", "", "experiment name (required)")
	r.String("dataset", "", "CIFAR10 / MNIST / FashionMNIST (required)")
	r.Int("batch_size", defaults.BatchSize, "batch size")
	r.Float64("lr", defaults.LR, "lr for weights")
	r.Float64("momentum", defaults.Momentum, "momentum")
	r.Float64("weight_decay", defaults.WeightDecay, "weight decay")
	r.Float64("grad_clip", defaults.GradClip, "gradient clipping for weights")
	r.Int("print_freq", defaults.PrintFreq, "print frequency")
	r.String("gpus", defaults.GPUs, "gpu device ids separated by comma. `all` indicates use all gpus.")
	r.Int("epochs", defaults.Epochs, "# of training epochs")
	r.Int("init_channels", defaults.InitChannels, "initial channels")
	r.Int("layers", defaults.Layers, "# of layers")
	r.Int("seed", defaults.Seed, "random seed")
	r.Int("workers", defaults.Workers, "# of workers")
	r.Float64("aux_weight", defaults.AuxWeight, "auxiliary loss weight")
	r.Int("cutout_length", defaults.CutoutLength, "cutout length")
	r.Float64("drop_path_prob", defaults.DropPathProb, "drop path prob")
	r.String("genotype", "", "cell genotype (required)")
	r.Bool("noise", defaults.Noise, "train the noised architecture")

	cmd.Flags().StringVar(&configFile, "config_file", "", "YAML file with option values")
	cmd.Flags().StringVar(&format, "format", cli.FormatParams,
		"output format (one of params, markdown, json, or yaml)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		opts := options.AugmentOptions{}
		if err := r.Load(configFile, schemas.AugmentOptionsURL, &opts); err != nil {
			return err
		}

		c, err := config.NewAugmentConfig(opts, countDevices)
		if err != nil {
			return errors.Wrap(err, "command-line arguments specify illegal configuration")
		}
		log.WithField("name", c.Name).Debug("augment configuration ready")

		return cli.WriteConfig(cmd.OutOrStdout(), format, c)
	}

	return cmd
}
