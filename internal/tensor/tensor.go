package tensor

import (
	"fmt"

	"github.com/loom-ml/loom/internal/device"
)

// Tensor is the user-facing handle pairing a shape with reference-counted
// storage. Handles created by Clone alias one buffer; everything else owns
// a fresh one.
type Tensor struct {
	storage *Storage
	shape   Shape
	stride  []int
	device  device.Device
}

// New creates a zero-initialized tensor with the given shape and type,
// resident on dev.
func New(shape Shape, dtype DataType, dev device.Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Tensor{
		storage: NewStorage(shape.NumElements(), dtype),
		shape:   shape.Clone(),
		stride:  shape.ComputeStrides(),
		device:  dev,
	}, nil
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T DType](data []T, shape Shape, dev device.Device) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != len(data) {
		return nil, shapeErrorf("fromslice", "shape %v requires %d elements, got %d",
			shape, shape.NumElements(), len(data))
	}

	return &Tensor{
		storage: StorageFromSlice(data),
		shape:   shape.Clone(),
		stride:  shape.ComputeStrides(),
		device:  dev,
	}, nil
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType](shape Shape, dev device.Device) (*Tensor, error) {
	return New(shape, TypeOf[T](), dev)
}

// Ones creates a tensor filled with ones.
func Ones[T DType](shape Shape, dev device.Device) (*Tensor, error) {
	return Full[T](shape, 1, dev)
}

// Full creates a tensor filled with value.
func Full[T DType](shape Shape, value T, dev device.Device) (*Tensor, error) {
	t, err := New(shape, TypeOf[T](), dev)
	if err != nil {
		return nil, err
	}
	for i := range shape.NumElements() {
		if err := t.storage.SetAt(i, value); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape { return t.shape }

// Strides returns the tensor's row-major element strides.
func (t *Tensor) Strides() []int { return t.stride }

// DType returns the element type.
func (t *Tensor) DType() DataType { return t.storage.DType() }

// Device returns the device the tensor is resident on.
func (t *Tensor) Device() device.Device { return t.device }

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int { return t.shape.NumElements() }

// ByteSize returns the total memory size in bytes.
func (t *Tensor) ByteSize() int { return t.storage.ByteSize() }

// Storage returns the backing storage. Used by backends and the broadcast
// evaluator for low-level access.
func (t *Tensor) Storage() *Storage { return t.storage }

// Clone returns a new handle sharing this tensor's storage. The buffer is
// reference-counted and lives until the last handle releases it.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		storage: t.storage.Share(),
		shape:   t.shape.Clone(),
		stride:  append([]int(nil), t.stride...),
		device:  t.device,
	}
}

// Release drops this handle's reference to the storage.
func (t *Tensor) Release() {
	t.storage.Release()
}

// IsUnique reports whether this handle is the only reference to the buffer.
func (t *Tensor) IsUnique() bool {
	return t.storage.Unique()
}

// At returns the element at the given coordinates, checking rank and
// bounds. A wrong number of coordinates fails with *ShapeError; an
// out-of-range coordinate fails with *IndexError.
func (t *Tensor) At(idx ...int) (any, error) {
	if len(idx) != len(t.shape) {
		return nil, shapeErrorf("at", "got %d coordinates for rank-%d tensor", len(idx), len(t.shape))
	}
	for i, coord := range idx {
		if coord < 0 || coord >= t.shape[i] {
			return nil, &IndexError{Index: coord, Len: t.shape[i]}
		}
	}
	return t.storage.At(MultiToLinearIndex(idx, t.shape))
}

// Float32 returns a zero-copy view of the data. Panics on dtype mismatch.
func (t *Tensor) Float32() []float32 { return t.storage.Float32() }

// Float64 returns a zero-copy view of the data. Panics on dtype mismatch.
func (t *Tensor) Float64() []float64 { return t.storage.Float64() }

// Int32 returns a zero-copy view of the data. Panics on dtype mismatch.
func (t *Tensor) Int32() []int32 { return t.storage.Int32() }

// Int64 returns a zero-copy view of the data. Panics on dtype mismatch.
func (t *Tensor) Int64() []int64 { return t.storage.Int64() }

// Uint8 returns a zero-copy view of the data. Panics on dtype mismatch.
func (t *Tensor) Uint8() []uint8 { return t.storage.Uint8() }
