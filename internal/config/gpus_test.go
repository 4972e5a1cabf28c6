package config

import (
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func counter(n int) DeviceCounter {
	return func() (int, error) { return n, nil }
}

func TestParseGPUs(t *testing.T) {
	tests := []struct {
		name  string
		gpus  string
		count DeviceCounter
		want  []int
	}{
		{name: "all with four devices", gpus: "all", count: counter(4), want: []int{0, 1, 2, 3}},
		{name: "all without devices", gpus: "all", count: counter(0), want: []int{}},
		{name: "single id", gpus: "0", want: []int{0}},
		{name: "list keeps order", gpus: "0,2,3", want: []int{0, 2, 3}},
		{name: "duplicates kept", gpus: "3,1,3", want: []int{3, 1, 3}},
		{name: "spaces around ids", gpus: "1, 2", want: []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGPUs(tt.gpus, tt.count)
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestParseGPUsErrors(t *testing.T) {
	for _, gpus := range []string{"x", "", "0,", "0;1", "1.5", "All"} {
		t.Run(gpus, func(t *testing.T) {
			_, err := ParseGPUs(gpus, counter(2))
			assert.ErrorContains(t, err, "invalid gpu id")
		})
	}

	_, err := ParseGPUs("all", func() (int, error) { return 0, errors.New("rocm-smi crashed") })
	assert.ErrorContains(t, err, "cannot count visible gpus: rocm-smi crashed")
}

func TestParseGPUsCountsOnlyForAll(t *testing.T) {
	called := false
	_, err := ParseGPUs("1", func() (int, error) {
		called = true
		return 0, nil
	})
	assert.NilError(t, err)
	assert.Assert(t, !called)
}
