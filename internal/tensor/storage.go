package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// buffer is a reference-counted byte store shared by every Storage handle
// that aliases one allocation. The count starts at 1 and the backing slice
// is dropped when the last handle releases it.
type buffer struct {
	data []byte
	refs atomic.Int32
}

func newBuffer(size int) *buffer {
	b := &buffer{data: make([]byte, size)}
	b.refs.Store(1)
	return b
}

func (b *buffer) retain() {
	b.refs.Add(1)
}

func (b *buffer) release() {
	if b.refs.Add(-1) == 0 {
		b.data = nil
	}
}

func (b *buffer) unique() bool {
	return b.refs.Load() == 1
}

// Storage owns a contiguous run of typed elements backing one or more
// tensor handles. Sharing arises only from Share; every operation that
// produces new values materializes a fresh Storage.
type Storage struct {
	buf   *buffer
	dtype DataType
	n     int
}

// NewStorage creates zero-initialized storage for n elements of dtype.
func NewStorage(n int, dtype DataType) *Storage {
	return &Storage{
		buf:   newBuffer(n * dtype.Size()),
		dtype: dtype,
		n:     n,
	}
}

// StorageFromSlice creates storage holding a copy of data.
func StorageFromSlice[T DType](data []T) *Storage {
	s := NewStorage(len(data), TypeOf[T]())
	copy(unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(s.buf.data))), len(data)), data)
	return s
}

// Len returns the number of elements.
func (s *Storage) Len() int { return s.n }

// DType returns the element type.
func (s *Storage) DType() DataType { return s.dtype }

// ByteSize returns the total size of the buffer in bytes.
func (s *Storage) ByteSize() int { return s.n * s.dtype.Size() }

// Bytes returns the raw byte slice. Direct access to the underlying memory;
// used for bulk copies into device buffers.
func (s *Storage) Bytes() []byte { return s.buf.data }

// Share returns a second handle aliasing the same buffer and increments the
// reference count. The buffer lives until the last handle calls Release.
func (s *Storage) Share() *Storage {
	s.buf.retain()
	return &Storage{buf: s.buf, dtype: s.dtype, n: s.n}
}

// Release decrements the reference count and drops the buffer when it
// reaches zero.
func (s *Storage) Release() {
	s.buf.release()
}

// Unique reports whether this handle is the only reference to the buffer.
func (s *Storage) Unique() bool {
	return s.buf.unique()
}

// At returns the element at position i, checking bounds. Out-of-range
// access fails with *IndexError.
func (s *Storage) At(i int) (any, error) {
	if i < 0 || i >= s.n {
		return nil, &IndexError{Index: i, Len: s.n}
	}
	switch s.dtype {
	case Float32:
		return s.Float32()[i], nil
	case Float64:
		return s.Float64()[i], nil
	case Int32:
		return s.Int32()[i], nil
	case Int64:
		return s.Int64()[i], nil
	case Uint8:
		return s.Uint8()[i], nil
	default:
		panic("unknown data type")
	}
}

// SetAt stores v at position i, checking bounds. v must match the storage
// element type.
func (s *Storage) SetAt(i int, v any) error {
	if i < 0 || i >= s.n {
		return &IndexError{Index: i, Len: s.n}
	}
	switch s.dtype {
	case Float32:
		s.Float32()[i] = v.(float32)
	case Float64:
		s.Float64()[i] = v.(float64)
	case Int32:
		s.Int32()[i] = v.(int32)
	case Int64:
		s.Int64()[i] = v.(int64)
	case Uint8:
		s.Uint8()[i] = v.(uint8)
	default:
		panic("unknown data type")
	}
	return nil
}

// Resize grows or shrinks the storage to n elements, retaining the existing
// prefix. New elements are zero-initialized. The handle detaches from any
// shared buffer: aliases keep seeing the old contents.
func (s *Storage) Resize(n int) {
	if n == s.n {
		return
	}
	next := newBuffer(n * s.dtype.Size())
	copy(next.data, s.buf.data[:min(len(s.buf.data), len(next.data))])
	s.buf.release()
	s.buf = next
	s.n = n
}

// CopyElement copies the element at src index j into dst index i.
// Both storages must share a dtype; indices are not bounds-checked.
func (s *Storage) CopyElement(i int, src *Storage, j int) {
	esz := s.dtype.Size()
	copy(s.buf.data[i*esz:(i+1)*esz], src.buf.data[j*esz:(j+1)*esz])
}

// Float32 interprets the data as []float32. Panics on dtype mismatch.
func (s *Storage) Float32() []float32 {
	s.check(Float32)
	return view[float32](s)
}

// Float64 interprets the data as []float64. Panics on dtype mismatch.
func (s *Storage) Float64() []float64 {
	s.check(Float64)
	return view[float64](s)
}

// Int32 interprets the data as []int32. Panics on dtype mismatch.
func (s *Storage) Int32() []int32 {
	s.check(Int32)
	return view[int32](s)
}

// Int64 interprets the data as []int64. Panics on dtype mismatch.
func (s *Storage) Int64() []int64 {
	s.check(Int64)
	return view[int64](s)
}

// Uint8 interprets the data as []uint8. Panics on dtype mismatch.
func (s *Storage) Uint8() []uint8 {
	s.check(Uint8)
	return s.buf.data
}

func (s *Storage) check(want DataType) {
	if s.dtype != want {
		panic(fmt.Sprintf("storage dtype is %s, not %s", s.dtype, want))
	}
}

// view reinterprets the byte buffer as a typed slice without copying.
func view[T DType](s *Storage) []T {
	if s.n == 0 {
		return nil
	}
	//nolint:gosec // zero-copy reinterpretation, length bounded by s.n
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(s.buf.data))), s.n)
}
