package device

import "strconv"

// Kind identifies the class of a compute target.
type Kind uint8

// Supported device kinds.
const (
	KindCPU Kind = iota
	KindAccelerator
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindAccelerator:
		return "accelerator"
	default:
		return "unknown"
	}
}

// cpuIndex is the sentinel index of the CPU device, which has no ordinal.
const cpuIndex = -1

// Device identifies a compute target by kind and index. It is immutable
// after construction, comparable, and usable as a map key. The zero value
// is the CPU device.
type Device struct {
	kind  Kind
	index int
}

// New constructs a validated device descriptor. The CPU kind requires
// index -1 (its sentinel "no index"); the accelerator kind requires
// 0 <= index < the runtime's device count. Violations fail with
// *DeviceError; requesting an accelerator without a compiled-in runtime
// fails with a *DeviceError wrapping ErrUnsupported.
func New(kind Kind, index int) (Device, error) {
	switch kind {
	case KindCPU:
		if index != cpuIndex {
			return Device{}, deviceErrorf("device", "cpu device index must be -1, got %d", index)
		}
		// The CPU stores index 0 internally so that the zero value and
		// CPU() compare equal as map keys. Index() reports the sentinel.
		return Device{kind: KindCPU}, nil
	case KindAccelerator:
		if index < 0 {
			return Device{}, deviceErrorf("device", "accelerator device index must be non-negative, got %d", index)
		}
		count, err := AcceleratorCount()
		if err != nil {
			return Device{}, &DeviceError{Op: "device", Err: err}
		}
		if index >= count {
			return Device{}, deviceErrorf("device", "accelerator index %d out of range (%d devices)", index, count)
		}
		return Device{kind: KindAccelerator, index: index}, nil
	default:
		return Device{}, deviceErrorf("device", "unknown device kind %d", kind)
	}
}

// CPU returns the CPU device descriptor.
func CPU() Device {
	return Device{}
}

// Accelerator returns a validated accelerator descriptor.
func Accelerator(index int) (Device, error) {
	return New(KindAccelerator, index)
}

// Kind returns the device kind.
func (d Device) Kind() Kind { return d.kind }

// Index returns the device ordinal, or -1 for the CPU.
func (d Device) Index() int {
	if d.kind == KindCPU {
		return cpuIndex
	}
	return d.index
}

// IsCPU reports whether the device is the CPU.
func (d Device) IsCPU() bool { return d.kind == KindCPU }

// IsAccelerator reports whether the device is an accelerator.
func (d Device) IsAccelerator() bool { return d.kind == KindAccelerator }

// String renders the descriptor for diagnostics: "cpu" or
// "accelerator:<index>". The form is not parsed back.
func (d Device) String() string {
	if d.IsCPU() {
		return "cpu"
	}
	return "accelerator:" + strconv.Itoa(d.index)
}
