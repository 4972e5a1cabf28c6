// Package options declares the option sets accepted by the search and augment commands.
package options

import (
	"github.com/KunlinY/darts/pkg/check"
)

// SearchOptions stores the options of the architecture search phase, before derivation.
type SearchOptions struct {
	Name    string `json:"name"`
	Dataset string `json:"dataset"`

	BatchSize    int     `json:"batch_size"`
	WLR          float64 `json:"w_lr"`
	WLRMin       float64 `json:"w_lr_min"`
	WMomentum    float64 `json:"w_momentum"`
	WWeightDecay float64 `json:"w_weight_decay"`
	WGradClip    float64 `json:"w_grad_clip"`
	PrintFreq    int     `json:"print_freq"`
	GPUs         string  `json:"gpus"`
	Epochs       int     `json:"epochs"`
	InitChannels int     `json:"init_channels"`
	Layers       int     `json:"layers"`
	Seed         int     `json:"seed"`
	Workers      int     `json:"workers"`

	AlphaLR          float64 `json:"alpha_lr"`
	AlphaWeightDecay float64 `json:"alpha_weight_decay"`
	Noise            bool    `json:"noise"`

	WorldSize  int         `json:"world_size"`
	Rank       OptionalInt `json:"rank"`
	NumGPUs    int         `json:"num_gpus"`
	MasterAddr string      `json:"master_addr"`
	MasterPort string      `json:"master_port"`
}

// DefaultSearchOptions returns the search options used when nothing overrides them.
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{
		BatchSize:        64,
		WLR:              0.025,
		WLRMin:           0.001,
		WMomentum:        0.9,
		WWeightDecay:     3e-4,
		WGradClip:        5.,
		PrintFreq:        50,
		GPUs:             "0",
		Epochs:           50,
		InitChannels:     16,
		Layers:           8,
		Seed:             2,
		Workers:          4,
		AlphaLR:          3e-4,
		AlphaWeightDecay: 1e-3,
		WorldSize:        4,
		NumGPUs:          0,
		MasterAddr:       "server-kl",
		MasterPort:       "80",
	}
}

// Validate implements the check.Validatable interface.
func (o SearchOptions) Validate() []error {
	return []error{
		check.NotEmpty(o.Name, "--name is required"),
		check.NotEmpty(o.Dataset, "--dataset is required"),
	}
}

// AugmentOptions stores the options of the augment (retrain) phase, before derivation.
type AugmentOptions struct {
	Name    string `json:"name"`
	Dataset string `json:"dataset"`

	BatchSize    int     `json:"batch_size"`
	LR           float64 `json:"lr"`
	Momentum     float64 `json:"momentum"`
	WeightDecay  float64 `json:"weight_decay"`
	GradClip     float64 `json:"grad_clip"`
	PrintFreq    int     `json:"print_freq"`
	GPUs         string  `json:"gpus"`
	Epochs       int     `json:"epochs"`
	InitChannels int     `json:"init_channels"`
	Layers       int     `json:"layers"`
	Seed         int     `json:"seed"`
	Workers      int     `json:"workers"`

	AuxWeight    float64 `json:"aux_weight"`
	CutoutLength int     `json:"cutout_length"`
	DropPathProb float64 `json:"drop_path_prob"`

	Genotype string `json:"genotype"`
	Noise    bool   `json:"noise"`
}

// DefaultAugmentOptions returns the augment options used when nothing overrides them.
func DefaultAugmentOptions() *AugmentOptions {
	return &AugmentOptions{
		BatchSize:    96,
		LR:           0.025,
		Momentum:     0.9,
		WeightDecay:  3e-4,
		GradClip:     5.,
		PrintFreq:    200,
		GPUs:         "0",
		Epochs:       600,
		InitChannels: 36,
		Layers:       20,
		Seed:         2,
		Workers:      4,
		AuxWeight:    0.4,
		CutoutLength: 16,
		DropPathProb: 0.2,
	}
}

// Validate implements the check.Validatable interface.
func (o AugmentOptions) Validate() []error {
	return []error{
		check.NotEmpty(o.Name, "--name is required"),
		check.NotEmpty(o.Dataset, "--dataset is required"),
		check.NotEmpty(o.Genotype, "--genotype is required"),
	}
}
