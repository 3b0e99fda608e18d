// Copyright 2026 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

// Type aliases for the public API.

// DType is a constraint for supported tensor element types.
type DType = tensor.DType

// DataType carries runtime type information for a storage buffer.
type DataType = tensor.DataType

// Element type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} is a 3-D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is the user-facing handle pairing a shape with reference-counted
// storage.
type Tensor = tensor.Tensor

// Storage owns a contiguous run of typed elements backing one or more
// tensor handles.
type Storage = tensor.Storage

// Error categories surfaced by tensor operations.
type (
	// ShapeError reports shapes incompatible for an operation.
	ShapeError = tensor.ShapeError
	// IndexError reports an out-of-bounds checked access.
	IndexError = tensor.IndexError
)

// New creates a zero-initialized tensor with the given shape and type.
func New(shape Shape, dtype DataType, dev device.Device) (*Tensor, error) {
	return tensor.New(shape, dtype, dev)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape, dev device.Device) (*Tensor, error) {
	return tensor.FromSlice(data, shape, dev)
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape, dev device.Device) (*Tensor, error) {
	return tensor.Zeros[T](shape, dev)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape, dev device.Device) (*Tensor, error) {
	return tensor.Ones[T](shape, dev)
}

// Full creates a tensor filled with value.
func Full[T DType](shape Shape, value T, dev device.Device) (*Tensor, error) {
	return tensor.Full(shape, value, dev)
}

// BroadcastShapes applies NumPy-style broadcasting rules to two shapes.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// AreBroadcastable reports whether two shapes are broadcast-compatible
// without erroring.
func AreBroadcastable(a, b Shape) bool {
	return tensor.AreBroadcastable(a, b)
}

// ComputeBroadcastShape returns the broadcast of two shapes with the same
// failure contract as BroadcastShapes.
func ComputeBroadcastShape(a, b Shape) (Shape, error) {
	return tensor.ComputeBroadcastShape(a, b)
}

// BroadcastTo materializes t expanded to target. A tensor that already has
// the target shape is returned unchanged, with no copy.
func BroadcastTo(t *Tensor, target Shape) (*Tensor, error) {
	return tensor.BroadcastTo(t, target)
}

// LinearToMultiIndex converts a flat row-major offset into per-dimension
// coordinates.
func LinearToMultiIndex(linear int, shape Shape) []int {
	return tensor.LinearToMultiIndex(linear, shape)
}

// MultiToLinearIndex converts per-dimension coordinates back into a flat
// row-major offset.
func MultiToLinearIndex(idx []int, shape Shape) int {
	return tensor.MultiToLinearIndex(idx, shape)
}
