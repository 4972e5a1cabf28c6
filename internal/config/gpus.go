package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/KunlinY/darts/internal/detect"
)

// AllGPUs selects every visible accelerator.
const AllGPUs = "all"

// DeviceCounter reports how many accelerators the current environment exposes.
type DeviceCounter func() (int, error)

// ParseGPUs converts "all" or a comma-separated list of integers into device ids. "all" yields
// [0, n) for the n devices reported by count (detect.AcceleratorCount when count is nil). Ids
// are neither de-duplicated nor checked against the visible devices.
func ParseGPUs(gpus string, count DeviceCounter) ([]int, error) {
	if gpus == AllGPUs {
		if count == nil {
			count = detect.AcceleratorCount
		}
		n, err := count()
		if err != nil {
			return nil, errors.Wrap(err, "cannot count visible gpus")
		}
		ids := make([]int, 0, n)
		for i := 0; i < n; i++ {
			ids = append(ids, i)
		}
		return ids, nil
	}

	tokens := strings.Split(gpus, ",")
	ids := make([]int, 0, len(tokens))
	for _, token := range tokens {
		id, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid gpu id %q", token)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
