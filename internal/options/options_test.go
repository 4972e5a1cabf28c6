//nolint:exhaustruct
package options

import (
	"encoding/json"
	"testing"

	"github.com/ghodss/yaml"
	"gotest.tools/assert"

	"github.com/KunlinY/darts/pkg/check"
)

func TestUnmarshalSearchOptions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected SearchOptions
	}{
		{
			name: "required only",
			raw: `
name: m1
dataset: CIFAR10
`,
			expected: SearchOptions{Name: "m1", Dataset: "CIFAR10"},
		},
		{
			name: "distributed",
			raw: `
name: m1
dataset: MNIST
world_size: 2
rank: 1
master_addr: 10.0.0.1
master_port: "29500"
noise: true
`,
			expected: SearchOptions{
				Name:       "m1",
				Dataset:    "MNIST",
				WorldSize:  2,
				Rank:       NewOptionalInt(1),
				MasterAddr: "10.0.0.1",
				MasterPort: "29500",
				Noise:      true,
			},
		},
		{
			name: "rank from a flag string",
			raw: `
rank: "3"
`,
			expected: SearchOptions{Rank: NewOptionalInt(3)},
		},
		{
			name: "unset rank",
			raw: `
rank: ""
gpus: all
`,
			expected: SearchOptions{GPUs: "all"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unmarshaled := SearchOptions{}
			err := yaml.Unmarshal([]byte(tt.raw), &unmarshaled, yaml.DisallowUnknownFields)
			assert.NilError(t, err)
			assert.DeepEqual(t, tt.expected, unmarshaled, cmpOptionalInt)
		})
	}
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	err := yaml.Unmarshal([]byte("name: m1\nlr: 0.1\n"), &SearchOptions{}, yaml.DisallowUnknownFields)
	assert.ErrorContains(t, err, "unknown field")

	err = yaml.Unmarshal([]byte("w_lr: 0.1\n"), &AugmentOptions{}, yaml.DisallowUnknownFields)
	assert.ErrorContains(t, err, "unknown field")
}

func TestOptionalInt(t *testing.T) {
	var o OptionalInt
	assert.Assert(t, !o.IsSet())
	assert.Equal(t, o.String(), "None")

	assert.NilError(t, o.Set(" 7 "))
	v, ok := o.Get()
	assert.Assert(t, ok)
	assert.Equal(t, v, 7)
	assert.Equal(t, o.String(), "7")

	assert.ErrorContains(t, o.Set("seven"), `invalid integer "seven"`)
	assert.NilError(t, o.Set(""))
	assert.Assert(t, !o.IsSet())

	bs, err := json.Marshal(struct {
		Set   OptionalInt `json:"set"`
		Unset OptionalInt `json:"unset"`
	}{Set: NewOptionalInt(0)})
	assert.NilError(t, err)
	assert.Equal(t, string(bs), `{"set":0,"unset":null}`)

	assert.ErrorContains(t, json.Unmarshal([]byte("1.5"), &o), "invalid integer 1.5")
	assert.ErrorContains(t, json.Unmarshal([]byte("true"), &o), "invalid integer true")
}

func TestValidate(t *testing.T) {
	search := DefaultSearchOptions()
	err := check.Validate(search)
	assert.ErrorContains(t, err, "--name is required")
	assert.ErrorContains(t, err, "--dataset is required")

	search.Name, search.Dataset = "m1", "CIFAR10"
	assert.NilError(t, check.Validate(search))

	augment := DefaultAugmentOptions()
	augment.Name, augment.Dataset = "m1", "CIFAR10"
	assert.ErrorContains(t, check.Validate(augment), "--genotype is required")
}
