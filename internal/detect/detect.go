// Package detect discovers the compute devices visible to a training process.
package detect

import (
	"os/exec"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/KunlinY/darts/pkg/device"
)

// Slot types accepted by Detect.
const (
	SlotTypeAuto = "auto"
	SlotTypeCUDA = "cuda"
	SlotTypeGPU  = "gpu"
	SlotTypeROCM = "rocm"
	SlotTypeCPU  = "cpu"
)

// SlotTypes lists every slot type accepted by Detect.
var SlotTypes = []string{SlotTypeAuto, SlotTypeCUDA, SlotTypeGPU, SlotTypeROCM, SlotTypeCPU}

// runCommand executes a device query tool and returns its standard output. Tests replace it.
var runCommand = func(name string, args ...string) ([]byte, error) {
	// #nosec G204
	return exec.Command(name, args...).Output()
}

// notInstalled reports whether err means the query tool is absent from PATH.
func notInstalled(err error) bool {
	execError, ok := err.(*exec.Error)
	return ok && execError.Err == exec.ErrNotFound
}

// Detect returns the devices of the given slot type. visibleGPUs optionally restricts GPU
// discovery to a comma-separated list of device ids. The auto slot type tries CUDA, then ROCm,
// and falls back to the CPU.
func Detect(slotType string, visibleGPUs string) ([]device.Device, error) {
	switch slotType {
	case SlotTypeCUDA, SlotTypeGPU:
		devices, err := detectCudaGPUs(visibleGPUs)
		if err != nil {
			return nil, errors.Wrap(err, "error while gathering GPU info through nvidia-smi command")
		}
		return devices, nil
	case SlotTypeROCM:
		devices, err := detectRocmGPUs(visibleGPUs)
		if err != nil {
			return nil, errors.Wrap(err, "error while gathering GPU info through rocm-smi command")
		}
		return devices, nil
	case SlotTypeCPU:
		return detectCPUs()
	case SlotTypeAuto:
		devices, err := AcceleratorDevices(visibleGPUs)
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			log.Debug("no accelerators found, falling back to the CPU")
			return detectCPUs()
		}
		return devices, nil
	default:
		return nil, errors.Errorf("unrecognized slot type %q", slotType)
	}
}

// AcceleratorDevices returns the visible CUDA devices, or the visible ROCm devices when no CUDA
// device is present.
func AcceleratorDevices(visibleGPUs string) ([]device.Device, error) {
	devices, err := detectCudaGPUs(visibleGPUs)
	if err != nil {
		return nil, errors.Wrap(err, "error while gathering GPU info through nvidia-smi command")
	}
	if len(devices) > 0 {
		return devices, nil
	}
	devices, err = detectRocmGPUs(visibleGPUs)
	if err != nil {
		return nil, errors.Wrap(err, "error while gathering GPU info through rocm-smi command")
	}
	return devices, nil
}

// AcceleratorCount returns the number of accelerators a training framework running in this
// environment would see. Machines without GPU tooling report zero.
func AcceleratorCount() (int, error) {
	devices, err := AcceleratorDevices("")
	if err != nil {
		return 0, err
	}
	log.WithField("count", len(devices)).Debug("detected accelerators")
	return len(devices), nil
}
