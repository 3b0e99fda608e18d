// Package device provides the compute-device abstraction for the Loom
// tensor library: device descriptors, raw per-device allocation and
// transfer, and a pooled allocator shared by tensor operations.
package device

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when an accelerator device is requested but no
// accelerator runtime was compiled in.
var ErrUnsupported = errors.New("accelerator support not enabled")

// DeviceError reports an invalid device construction, a failed allocation
// or a failed transfer.
type DeviceError struct {
	Op  string // operation that failed
	Msg string
	Err error // underlying runtime error, if any
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

// Unwrap returns the underlying runtime error.
func (e *DeviceError) Unwrap() error { return e.Err }

func deviceErrorf(op, format string, args ...any) *DeviceError {
	return &DeviceError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// MemoryError reports an allocator-internal invariant violation, such as
// freeing a pointer the allocator never handed out.
type MemoryError struct {
	Msg string
}

// Error implements the error interface.
func (e *MemoryError) Error() string {
	return "memory error: " + e.Msg
}
