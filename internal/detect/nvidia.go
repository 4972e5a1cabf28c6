package detect

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/KunlinY/darts/pkg/device"
)

const nvidiaSmi = "nvidia-smi"

var (
	migModeArgs   = []string{"--query-gpu=mig.mode.current", "--format=csv,noheader"}
	listArgs      = []string{"-L"}
	queryGPUsArgs = []string{"--query-gpu=index,name,uuid", "--format=csv,noheader"}

	// Matches `  MIG 3g.20gb Device 0: (UUID: MIG-GPU-.../1/0)` lines of `nvidia-smi -L`.
	migInstanceRegExp = regexp.MustCompile(`(MIG \S+).+\(UUID.+(MIG.+)\)`)
)

// nvidia runs nvidia-smi with args. A missing binary yields no output; any other failure is
// logged and yields no output too.
func nvidia(args ...string) []byte {
	out, err := runCommand(nvidiaSmi, args...)
	switch {
	case notInstalled(err):
		return nil
	case err != nil:
		log.WithError(err).WithField("args", args).WithField("output", string(out)).Warn(
			"nvidia-smi failed")
		return nil
	}
	return out
}

// detectCudaGPUs returns the Nvidia GPUs visible to this process. When MIG is enabled the
// visible MIG instances are returned instead, numbered in listing order.
func detectCudaGPUs(visibleGPUs string) ([]device.Device, error) {
	if mode := nvidia(migModeArgs...); bytes.HasPrefix(mode, []byte("Enabled")) {
		if out := nvidia(listArgs...); migInstanceRegExp.Match(out) {
			instances := parseMigInstances(out, visibleDevices(cudaVisibleDevices))
			if visibleGPUs == "" {
				return instances, nil
			}
			selected := strings.Split(visibleGPUs, ",")
			filtered := []device.Device{}
			for _, d := range instances {
				if isVisible(selected, strconv.Itoa(int(d.ID)), d.UUID) {
					filtered = append(filtered, d)
				}
			}
			return filtered, nil
		}
	}

	args := queryGPUsArgs
	if visibleGPUs != "" {
		args = append(append([]string{}, queryGPUsArgs...), "--id="+visibleGPUs)
	}
	out := nvidia(args...)
	if out == nil {
		return nil, nil
	}
	return parseNvidiaSmi(out, visibleDevices(cudaVisibleDevices))
}

// parseNvidiaSmi reads `index, name, uuid` CSV records. Devices are kept when visible lists
// their index (as Slurm sets it) or their uuid (as PBS sets it).
func parseNvidiaSmi(out []byte, visible []string) ([]device.Device, error) {
	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true

	devices := []device.Device{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			return devices, nil
		} else if err != nil {
			return nil, errors.Wrap(err, "unexpected nvidia-smi output")
		}

		index, name, uuid := strings.TrimSpace(record[0]), record[1], strings.TrimSpace(record[2])
		if !isVisible(visible, index, uuid) {
			continue
		}
		id, err := strconv.Atoi(index)
		if err != nil {
			return nil, errors.Wrapf(err, "unexpected nvidia-smi output: gpu index %q", index)
		}
		devices = append(devices, device.Device{
			ID:    device.ID(id),
			Brand: strings.TrimSpace(name),
			UUID:  uuid,
			Type:  device.CUDA,
		})
	}
}

// parseMigInstances reads the MIG lines of `nvidia-smi -L`. Instances whose uuid is not in
// visible are skipped before numbering.
func parseMigInstances(out []byte, visible []string) []device.Device {
	devices := []device.Device{}
	lines := bufio.NewScanner(bytes.NewReader(out))
	for lines.Scan() {
		if m := migInstanceRegExp.FindStringSubmatch(lines.Text()); m != nil && isVisible(visible, m[2]) {
			devices = append(devices, device.Device{
				ID:    device.ID(len(devices)),
				Brand: m[1],
				UUID:  m[2],
				Type:  device.CUDA,
			})
		}
	}
	return devices
}
