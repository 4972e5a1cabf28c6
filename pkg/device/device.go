package device

import "fmt"

// Type is a string holding the type of the Device.
type Type string

const (
	// CPU represents a CPU device.
	CPU Type = "cpu"
	// CUDA represents a CUDA device.
	CUDA Type = "cuda"
	// ROCM represents a ROCm device.
	ROCM Type = "rocm"
)

// IsAccelerator reports whether the type is a GPU runtime that training can be placed on.
func (t Type) IsAccelerator() bool {
	return t == CUDA || t == ROCM
}

// ID is the index of a device as reported by its runtime.
type ID int

// Device represents a single computational device visible to the training process.
type Device struct {
	ID    ID     `json:"id"`
	Brand string `json:"brand"`
	UUID  string `json:"uuid"`
	Type  Type   `json:"type"`
}

func (d *Device) String() string {
	return fmt.Sprintf("%s%d (%s)", d.Type, d.ID, d.Brand)
}
