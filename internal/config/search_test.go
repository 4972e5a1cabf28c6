package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gotest.tools/assert"

	"github.com/KunlinY/darts/internal/options"
	"github.com/KunlinY/darts/pkg/check"
)

func searchOptions(modify func(*options.SearchOptions)) options.SearchOptions {
	opts := options.DefaultSearchOptions()
	opts.Name = "m1"
	opts.Dataset = "CIFAR10"
	if modify != nil {
		modify(opts)
	}
	return *opts
}

func TestNewSearchConfig(t *testing.T) {
	c, err := NewSearchConfig(searchOptions(func(o *options.SearchOptions) {
		o.WorldSize = 2
		o.Rank = options.NewOptionalInt(0)
		o.BatchSize = 64
		o.WLR = 0.025
	}), nil)
	require.NoError(t, err)

	assert.Equal(t, c.BatchSize, 128)
	assert.Equal(t, c.WLR, 0.05)
	assert.Equal(t, c.WLRMin, 0.002)
	assert.Equal(t, c.AlphaLR, 6e-4)
	assert.Equal(t, c.Path, "searchs_fl_2_0_False/m1")
	assert.Equal(t, c.PlotPath, "searchs_fl_2_0_False/m1/plots")
	assert.Equal(t, c.DataPath, "./data/")
	assert.DeepEqual(t, c.GPUs, []int{0})

	// Options that are not derived pass through unchanged.
	assert.Equal(t, c.WMomentum, 0.9)
	assert.Equal(t, c.WWeightDecay, 3e-4)
	assert.Equal(t, c.AlphaWeightDecay, 1e-3)
	assert.Equal(t, c.MasterAddr, "server-kl")
	assert.Equal(t, c.MasterPort, "80")
	assert.Equal(t, c.WorldSize, 2)
}

func TestNewSearchConfigScalesByWorldSize(t *testing.T) {
	for _, w := range []int{1, 3, 4, 8} {
		c, err := NewSearchConfig(searchOptions(func(o *options.SearchOptions) {
			o.WorldSize = w
			o.Rank = options.NewOptionalInt(w - 1)
			o.BatchSize = 32
			o.WLR = 0.1
			o.WLRMin = 0.01
			o.AlphaLR = 0.5
			o.Noise = true
		}), nil)
		require.NoError(t, err)

		assert.Equal(t, c.BatchSize, w*32)
		assert.Equal(t, c.WLR, float64(w)*0.1)
		assert.Equal(t, c.WLRMin, float64(w)*0.01)
		assert.Equal(t, c.AlphaLR, float64(w)*0.5)
		rank, _ := c.Rank.Get()
		assert.Equal(t, rank, w-1)
		assert.Assert(t, strings.HasPrefix(c.Path, "searchs_fl_"))
		assert.Assert(t, strings.HasSuffix(c.Path, "_True/m1"))
	}
}

func TestNewSearchConfigUnsetRank(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	c, err := NewSearchConfig(searchOptions(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, c.Path, "searchs_fl_4_None_False/m1")

	var warned bool
	for _, entry := range hook.AllEntries() {
		if strings.Contains(entry.Message, "--rank is not set") {
			warned = true
		}
	}
	assert.Assert(t, warned)
}

func TestNewSearchConfigAllGPUs(t *testing.T) {
	c, err := NewSearchConfig(searchOptions(func(o *options.SearchOptions) {
		o.GPUs = AllGPUs
	}), counter(2))
	require.NoError(t, err)
	assert.DeepEqual(t, c.GPUs, []int{0, 1})
}

func TestNewSearchConfigErrors(t *testing.T) {
	_, err := NewSearchConfig(searchOptions(func(o *options.SearchOptions) { o.Name = "" }), nil)
	var validationErr check.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ErrorContains(t, err, "--name is required")

	_, err = NewSearchConfig(searchOptions(func(o *options.SearchOptions) { o.GPUs = "0,x" }), nil)
	assert.ErrorContains(t, err, `invalid --gpus: invalid gpu id "x"`)
}

func TestSearchConfigDumps(t *testing.T) {
	c, err := NewSearchConfig(searchOptions(func(o *options.SearchOptions) {
		o.WorldSize = 2
		o.Rank = options.NewOptionalInt(0)
		o.GPUs = "0,2,3"
	}), nil)
	require.NoError(t, err)

	var lines []string
	c.PrintParams(func(line string) { lines = append(lines, line) })

	require.Equal(t, "", lines[0])
	require.Equal(t, "Parameters:", lines[1])
	require.Equal(t, "", lines[len(lines)-1])
	body := lines[2 : len(lines)-1]
	require.Equal(t, len(c.Params()), len(body))
	require.Contains(t, body, "BATCH_SIZE=128")
	require.Contains(t, body, "W_LR=0.05")
	require.Contains(t, body, "W_WEIGHT_DECAY=0.0003")
	require.Contains(t, body, "GPUS=[0, 2, 3]")
	require.Contains(t, body, "NOISE=False")
	require.Contains(t, body, "RANK=0")
	require.Contains(t, body, "PATH=searchs_fl_2_0_False/m1")
	require.Contains(t, body, "PLOT_PATH=searchs_fl_2_0_False/m1/plots")
	require.Contains(t, body, "DATA_PATH=./data/")

	md := c.AsMarkdown()
	require.True(t, strings.HasPrefix(md, "|name|value|  \n|-|-|  \n"))
	require.Contains(t, md, "|w_lr|0.05|  \n")
	require.Equal(t, len(c.Params())+2, strings.Count(md, "\n"))

	var buf bytes.Buffer
	c.PrintParams(WriterPrinter(&buf))
	require.Equal(t, strings.Join(lines, "\n")+"\n", buf.String())
}

func TestSearchConfigParamsListEachNameOnce(t *testing.T) {
	c, err := NewSearchConfig(searchOptions(nil), nil)
	require.NoError(t, err)

	bs, err := c.Printable()
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &fields))

	ps := c.Params()
	require.Len(t, ps, len(fields))
	seen := map[string]bool{}
	for i, p := range ps {
		require.False(t, seen[p.Name], "duplicate %s", p.Name)
		seen[p.Name] = true
		require.Contains(t, fields, p.Name)
		if i > 0 {
			require.Less(t, strings.ToLower(ps[i-1].Name), strings.ToLower(p.Name))
		}
	}
	require.Nil(t, fields["rank"])
}
