package config

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/KunlinY/darts/internal/options"
	"github.com/KunlinY/darts/pkg/check"
	"github.com/KunlinY/darts/pkg/genotype"
)

// AugmentConfig is the derived configuration of the augment phase, which retrains a discovered
// genotype at full scale.
type AugmentConfig struct {
	Name    string `json:"name"`
	Dataset string `json:"dataset"`

	BatchSize    int     `json:"batch_size"`
	LR           float64 `json:"lr"`
	Momentum     float64 `json:"momentum"`
	WeightDecay  float64 `json:"weight_decay"`
	GradClip     float64 `json:"grad_clip"`
	PrintFreq    int     `json:"print_freq"`
	GPUs         []int   `json:"gpus" copier:"-"`
	Epochs       int     `json:"epochs"`
	InitChannels int     `json:"init_channels"`
	Layers       int     `json:"layers"`
	Seed         int     `json:"seed"`
	Workers      int     `json:"workers"`

	AuxWeight    float64 `json:"aux_weight"`
	CutoutLength int     `json:"cutout_length"`
	DropPathProb float64 `json:"drop_path_prob"`

	Genotype *genotype.Genotype `json:"genotype" copier:"-"`
	Noise    bool               `json:"noise"`

	DataPath string `json:"data_path"`
	Path     string `json:"path"`
}

// NewAugmentConfig validates opts and derives the augment configuration from them. count is
// consulted only when opts.GPUs is "all".
func NewAugmentConfig(opts options.AugmentOptions, count DeviceCounter) (*AugmentConfig, error) {
	if err := check.Validate(opts); err != nil {
		return nil, err
	}

	gpus, err := ParseGPUs(opts.GPUs, count)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --gpus")
	}

	c := &AugmentConfig{GPUs: gpus, DataPath: DataPath}
	if err := copier.Copy(c, &opts); err != nil {
		return nil, errors.Wrap(err, "cannot copy augment options")
	}
	c.Path = joinPath(fmt.Sprintf("searchs_%d_%s", len(gpus), formatBool(opts.Noise)), opts.Name)

	if c.Genotype, err = genotype.Parse(opts.Genotype); err != nil {
		return nil, errors.Wrap(err, "invalid --genotype")
	}

	log.WithFields(log.Fields{
		"path": c.Path,
		"gpus": gpus,
	}).Info("derived augment configuration")
	return c, nil
}

// Params implements the Config interface.
func (c *AugmentConfig) Params() []Param {
	return params(c)
}

// PrintParams implements the Config interface.
func (c *AugmentConfig) PrintParams(prtf PrintFunc) {
	printParams(c.Params(), prtf)
}

// AsMarkdown implements the Config interface.
func (c *AugmentConfig) AsMarkdown() string {
	return asMarkdown(c.Params())
}

// Printable implements the Config interface.
func (c *AugmentConfig) Printable() ([]byte, error) {
	return printable(c)
}
