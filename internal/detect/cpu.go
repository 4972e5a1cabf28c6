package detect

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"

	"github.com/KunlinY/darts/pkg/device"
)

const (
	osDarwin = "darwin"
)

// cpuInfo is replaced in tests.
var cpuInfo = cpu.Info

// detectCPUs returns the list of available CPUs; all the cores are returned as a single device.
func detectCPUs() ([]device.Device, error) {
	switch infos, err := cpuInfo(); {
	case err != nil:
		// Apple silicon does not report a CPU frequency, which surfaces here as ENOENT.
		if errno, ok := err.(syscall.Errno); ok && errno == syscall.ENOENT &&
			runtime.GOARCH == "arm64" && runtime.GOOS == osDarwin {
			return []device.Device{
				{ID: 0, Brand: "Apple", UUID: "AppleSilicon", Type: device.CPU},
			}, nil
		}
		return nil, errors.Wrap(err, "error while gathering CPU info")
	case len(infos) == 0:
		return nil, errors.New("no CPUs detected")
	default:
		return []device.Device{cpuDevice(infos)}, nil
	}
}

// cpuDevice aggregates the core counts per model name into one device description, using the
// vendor id of the first entry as its uuid.
func cpuDevice(infos []cpu.InfoStat) device.Device {
	coreCounts := map[string]int32{}
	for _, entry := range infos {
		coreCounts[entry.ModelName] += entry.Cores
	}

	brands := make([]string, 0, len(coreCounts))
	for modelName, cores := range coreCounts {
		brands = append(brands, fmt.Sprintf("%s x %d cores", modelName, cores))
	}
	sort.Strings(brands)

	return device.Device{
		ID:    0,
		Brand: strings.Join(brands, ", "),
		UUID:  infos[0].VendorID,
		Type:  device.CPU,
	}
}
