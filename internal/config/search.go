package config

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/KunlinY/darts/internal/options"
	"github.com/KunlinY/darts/pkg/check"
)

// SearchConfig is the derived configuration of the architecture search phase. The batch size
// and learning rates are global values: the per-worker options scaled by the world size.
type SearchConfig struct {
	Name    string `json:"name"`
	Dataset string `json:"dataset"`

	BatchSize    int     `json:"batch_size"`
	WLR          float64 `json:"w_lr"`
	WLRMin       float64 `json:"w_lr_min"`
	WMomentum    float64 `json:"w_momentum"`
	WWeightDecay float64 `json:"w_weight_decay"`
	WGradClip    float64 `json:"w_grad_clip"`
	PrintFreq    int     `json:"print_freq"`
	GPUs         []int   `json:"gpus" copier:"-"`
	Epochs       int     `json:"epochs"`
	InitChannels int     `json:"init_channels"`
	Layers       int     `json:"layers"`
	Seed         int     `json:"seed"`
	Workers      int     `json:"workers"`

	AlphaLR          float64 `json:"alpha_lr"`
	AlphaWeightDecay float64 `json:"alpha_weight_decay"`
	Noise            bool    `json:"noise"`

	WorldSize  int                 `json:"world_size"`
	Rank       options.OptionalInt `json:"rank"`
	NumGPUs    int                 `json:"num_gpus"`
	MasterAddr string              `json:"master_addr"`
	MasterPort string              `json:"master_port"`

	DataPath string `json:"data_path"`
	Path     string `json:"path"`
	PlotPath string `json:"plot_path"`
}

// NewSearchConfig validates opts and derives the search configuration from them. count is
// consulted only when opts.GPUs is "all".
func NewSearchConfig(opts options.SearchOptions, count DeviceCounter) (*SearchConfig, error) {
	if err := check.Validate(opts); err != nil {
		return nil, err
	}

	gpus, err := ParseGPUs(opts.GPUs, count)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --gpus")
	}

	c := &SearchConfig{GPUs: gpus, DataPath: DataPath}
	if err := copier.Copy(c, &opts); err != nil {
		return nil, errors.Wrap(err, "cannot copy search options")
	}

	// Options are per worker; the configuration holds the global values.
	worldSize := opts.WorldSize
	c.BatchSize = worldSize * opts.BatchSize
	c.WLR = float64(worldSize) * opts.WLR
	c.WLRMin = float64(worldSize) * opts.WLRMin
	c.AlphaLR = float64(worldSize) * opts.AlphaLR

	c.Path = joinPath(
		fmt.Sprintf("searchs_fl_%d_%s_%s", worldSize, opts.Rank, formatBool(opts.Noise)),
		opts.Name,
	)
	c.PlotPath = joinPath(c.Path, "plots")

	// An unset rank still lands in the path, as the training scripts expect.
	if !opts.Rank.IsSet() {
		log.WithField("path", c.Path).Warn("--rank is not set, the output path contains None")
	}
	log.WithFields(log.Fields{
		"path":       c.Path,
		"world_size": worldSize,
		"gpus":       gpus,
	}).Info("derived search configuration")
	return c, nil
}

// Params implements the Config interface.
func (c *SearchConfig) Params() []Param {
	return params(c)
}

// PrintParams implements the Config interface.
func (c *SearchConfig) PrintParams(prtf PrintFunc) {
	printParams(c.Params(), prtf)
}

// AsMarkdown implements the Config interface.
func (c *SearchConfig) AsMarkdown() string {
	return asMarkdown(c.Params())
}

// Printable implements the Config interface.
func (c *SearchConfig) Printable() ([]byte, error) {
	return printable(c)
}
