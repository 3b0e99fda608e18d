package device

import (
	"sync"
	"unsafe"
)

// Raw allocations for tensors are 64-byte aligned so SIMD kernels can use
// aligned loads on cache-line boundaries.
const cpuAlignment = 64

// runtime abstracts raw allocation and transfer for one device kind.
// Implementations are selected at call time from the device descriptor;
// the pooled Allocator sits on top of this interface.
type runtime interface {
	// Alloc obtains size bytes of device memory.
	Alloc(size int) (unsafe.Pointer, error)
	// Free releases memory obtained from Alloc.
	Free(p unsafe.Pointer) error
	// CopyIn transfers host bytes into device memory at dst.
	CopyIn(dst unsafe.Pointer, src []byte) error
	// CopyOut transfers device memory at src into host bytes.
	CopyOut(dst []byte, src unsafe.Pointer) error
}

// cpuRuntime allocates 64-byte-aligned host memory. Backing slices are
// retained in a table keyed by the aligned address so the garbage collector
// keeps them alive while the raw pointer is outstanding.
type cpuRuntime struct {
	mu    sync.Mutex
	slabs map[uintptr][]byte
}

func newCPURuntime() *cpuRuntime {
	return &cpuRuntime{slabs: make(map[uintptr][]byte)}
}

// Alloc returns a 64-byte-aligned pointer to size bytes of zeroed memory.
func (r *cpuRuntime) Alloc(size int) (unsafe.Pointer, error) {
	if size <= 0 {
		return nil, deviceErrorf("alloc", "invalid allocation size %d", size)
	}

	slab := make([]byte, size+cpuAlignment)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(slab)))
	off := (cpuAlignment - base%cpuAlignment) % cpuAlignment
	p := unsafe.Pointer(&slab[off])

	r.mu.Lock()
	r.slabs[uintptr(p)] = slab
	r.mu.Unlock()

	return p, nil
}

// Free releases an allocation. Freeing a pointer this runtime never handed
// out violates an allocator invariant and fails with *MemoryError.
func (r *cpuRuntime) Free(p unsafe.Pointer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slabs[uintptr(p)]; !ok {
		return &MemoryError{Msg: "free of unknown cpu pointer"}
	}
	delete(r.slabs, uintptr(p))
	return nil
}

// CopyIn performs a flat byte copy; on the CPU both sides are host memory.
func (r *cpuRuntime) CopyIn(dst unsafe.Pointer, src []byte) error {
	copy(unsafe.Slice((*byte)(dst), len(src)), src)
	return nil
}

// CopyOut performs a flat byte copy; on the CPU both sides are host memory.
func (r *cpuRuntime) CopyOut(dst []byte, src unsafe.Pointer) error {
	copy(dst, unsafe.Slice((*byte)(src), len(dst)))
	return nil
}
