package device

import "unsafe"

// ScopedBuffer exclusively owns one allocator-obtained buffer and returns
// it to the pool exactly once. It must not be copied: two owners would
// double-return. Ownership can be transferred with Move.
type ScopedBuffer struct {
	alloc    *Allocator
	ptr      unsafe.Pointer
	size     int
	dev      Device
	released bool
}

// NewScopedBuffer allocates size bytes on dev and wraps the result. The
// caller releases it with Release (typically deferred).
func NewScopedBuffer(a *Allocator, size int, dev Device) (*ScopedBuffer, error) {
	p, err := a.Allocate(size, dev)
	if err != nil {
		return nil, err
	}
	return &ScopedBuffer{alloc: a, ptr: p, size: size, dev: dev}, nil
}

// Release hands the buffer back to its device's pool for reuse; the
// underlying allocation stays alive. Idempotent: only the first call
// returns the block.
func (b *ScopedBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.alloc.Return(b.ptr, b.size, b.dev)
	b.ptr = nil
}

// Move transfers ownership to a new ScopedBuffer and empties the receiver,
// which becomes a released no-op handle.
func (b *ScopedBuffer) Move() *ScopedBuffer {
	next := &ScopedBuffer{alloc: b.alloc, ptr: b.ptr, size: b.size, dev: b.dev, released: b.released}
	b.released = true
	b.ptr = nil
	return next
}

// Ptr returns the owned pointer, or nil after Release or Move.
func (b *ScopedBuffer) Ptr() unsafe.Pointer { return b.ptr }

// Size returns the allocation size in bytes.
func (b *ScopedBuffer) Size() int { return b.size }

// Device returns the device the buffer lives on.
func (b *ScopedBuffer) Device() Device { return b.dev }
