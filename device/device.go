// Copyright 2026 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device exposes Loom's compute-device abstraction: descriptors
// identifying a target, the pooled memory allocator, and scoped buffers
// with guaranteed release.
package device

import (
	"github.com/loom-ml/loom/internal/device"
)

// Kind identifies the class of a compute target.
type Kind = device.Kind

// Supported device kinds.
const (
	KindCPU         Kind = device.KindCPU
	KindAccelerator Kind = device.KindAccelerator
)

// Device identifies a compute target by kind and index. Comparable and
// usable as a map key.
type Device = device.Device

// Allocator hands out device memory, recycling returned blocks through
// per-device pools. Safe for concurrent use.
type Allocator = device.Allocator

// Stats is a snapshot of one allocator's pool state.
type Stats = device.Stats

// ScopedBuffer exclusively owns one allocator-obtained buffer and
// releases it exactly once.
type ScopedBuffer = device.ScopedBuffer

// Error categories surfaced by device operations.
type (
	// DeviceError reports invalid construction or a failed allocation or
	// transfer.
	DeviceError = device.DeviceError
	// MemoryError reports an allocator-internal invariant violation.
	MemoryError = device.MemoryError
)

// ErrUnsupported is returned when an accelerator is requested but no
// accelerator runtime was compiled in.
var ErrUnsupported = device.ErrUnsupported

// New constructs a validated device descriptor.
func New(kind Kind, index int) (Device, error) {
	return device.New(kind, index)
}

// CPU returns the CPU device descriptor.
func CPU() Device {
	return device.CPU()
}

// Accelerator returns a validated accelerator descriptor.
func Accelerator(index int) (Device, error) {
	return device.Accelerator(index)
}

// AcceleratorCount reports how many accelerator devices the runtime
// exposes.
func AcceleratorCount() (int, error) {
	return device.AcceleratorCount()
}

// NewAllocator creates an empty allocator. Most callers share the
// process-wide Default instead.
var NewAllocator = device.NewAllocator

// Default returns the process-wide allocator, created on first use.
func Default() *Allocator {
	return device.Default()
}

// NewScopedBuffer allocates size bytes on dev and wraps the result.
func NewScopedBuffer(a *Allocator, size int, dev Device) (*ScopedBuffer, error) {
	return device.NewScopedBuffer(a, size, dev)
}
