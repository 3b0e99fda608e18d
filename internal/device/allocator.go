package device

import (
	"sync"
	"unsafe"

	"github.com/rs/zerolog"
)

// memoryBlock records one pooled allocation. Blocks are never freed back
// to the runtime while the pool tracks them; in_use toggles on get/return.
type memoryBlock struct {
	ptr   unsafe.Pointer
	size  int
	inUse bool
}

// Allocator hands out device memory, recycling returned blocks through
// per-device pools. All pool bookkeeping is serialized by one mutex per
// allocator; raw runtime calls happen outside the critical section on the
// allocation path, so concurrent tensor operations only contend on the
// scan-and-mark.
//
// An Allocator is constructed explicitly and passed by shared ownership.
// The one-pool-per-process usage pattern goes through Default.
type Allocator struct {
	mu    sync.Mutex
	pools map[Device][]*memoryBlock
	cpu   *cpuRuntime
	log   zerolog.Logger
}

// NewAllocator creates an empty allocator logging through log.
func NewAllocator(log zerolog.Logger) *Allocator {
	return &Allocator{
		pools: make(map[Device][]*memoryBlock),
		cpu:   newCPURuntime(),
		log:   log,
	}
}

var (
	defaultOnce  sync.Once
	defaultAlloc *Allocator
)

// Default returns the process-wide allocator, created on first use.
func Default() *Allocator {
	defaultOnce.Do(func() {
		defaultAlloc = NewAllocator(zerolog.Nop())
	})
	return defaultAlloc
}

// runtimeFor resolves the raw runtime for a device.
func (a *Allocator) runtimeFor(dev Device) (runtime, error) {
	if dev.IsCPU() {
		return a.cpu, nil
	}
	rt := acceleratorRuntime()
	if rt == nil {
		return nil, &DeviceError{Op: "runtime", Err: ErrUnsupported}
	}
	return rt, nil
}

// Allocate obtains at least size bytes on dev. Size 0 returns a nil handle
// without touching any pool. The pool is consulted first; on a miss a raw
// runtime allocation is performed and returned untracked; the block
// becomes poolable once it is first returned. Allocation failure surfaces
// as *DeviceError and leaves no partial pool state.
func (a *Allocator) Allocate(size int, dev Device) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil
	}
	if size < 0 {
		return nil, deviceErrorf("allocate", "negative allocation size %d", size)
	}

	if p := a.getFromPool(size, dev); p != nil {
		return p, nil
	}

	rt, err := a.runtimeFor(dev)
	if err != nil {
		return nil, err
	}
	p, err := rt.Alloc(size)
	if err != nil {
		return nil, &DeviceError{Op: "allocate", Msg: "raw allocation failed", Err: err}
	}

	a.log.Debug().Int("size", size).Stringer("device", dev).Msg("pool miss, raw allocation")
	return p, nil
}

// Deallocate genuinely frees p back to the runtime. This is distinct from
// Return: callers choose Return when they want the memory retained for
// reuse. A nil pointer is a no-op.
func (a *Allocator) Deallocate(p unsafe.Pointer, dev Device) error {
	if p == nil {
		return nil
	}

	rt, err := a.runtimeFor(dev)
	if err != nil {
		return err
	}

	a.forget(p, dev)
	return rt.Free(p)
}

// CopyToHost transfers len(dst) bytes from device memory at src into dst.
// Size 0 is a no-op. Transfer failures surface as *DeviceError embedding
// the runtime's error text.
func (a *Allocator) CopyToHost(dst []byte, src unsafe.Pointer, dev Device) error {
	if len(dst) == 0 {
		return nil
	}
	rt, err := a.runtimeFor(dev)
	if err != nil {
		return err
	}
	if err := rt.CopyOut(dst, src); err != nil {
		return &DeviceError{Op: "copy_to_host", Err: err}
	}
	return nil
}

// CopyToDevice transfers src into device memory at dst. Size 0 is a no-op.
func (a *Allocator) CopyToDevice(dst unsafe.Pointer, src []byte, dev Device) error {
	if len(src) == 0 {
		return nil
	}
	rt, err := a.runtimeFor(dev)
	if err != nil {
		return err
	}
	if err := rt.CopyIn(dst, src); err != nil {
		return &DeviceError{Op: "copy_to_device", Err: err}
	}
	return nil
}

// getFromPool scans the device's block list for the first free block large
// enough for the request and marks it in use. Returns nil on a miss.
// First-fit, not best-fit: blocks are coarse-grained and short-lived, so
// amortized O(1) reuse wins over fragmentation minimization.
func (a *Allocator) getFromPool(size int, dev Device) unsafe.Pointer {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, block := range a.pools[dev] {
		if !block.inUse && block.size >= size {
			block.inUse = true
			poolHits.Inc()
			return block.ptr
		}
	}

	poolMisses.Inc()
	return nil
}

// Return hands a buffer back to dev's pool for reuse. A pointer the pool
// already tracks is marked free; an unknown pointer is adopted as a new
// free block, which lets the pool absorb raw allocations on their first
// return without pre-registration. A nil pointer is a no-op.
func (a *Allocator) Return(p unsafe.Pointer, size int, dev Device) {
	if p == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, block := range a.pools[dev] {
		if block.ptr == p {
			block.inUse = false
			return
		}
	}

	// Adoption can mask a caller returning a pointer from elsewhere; log it
	// so provenance bugs stay visible.
	a.log.Debug().Int("size", size).Stringer("device", dev).Msg("pool adopted unregistered block")
	a.pools[dev] = append(a.pools[dev], &memoryBlock{ptr: p, size: size, inUse: false})
	poolBlocks.Inc()
	poolBytes.Add(float64(size))
}

// forget drops a block from the pool if it is tracked there, so Deallocate
// does not leave a dangling pool entry.
func (a *Allocator) forget(p unsafe.Pointer, dev Device) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pool := a.pools[dev]
	for i, block := range pool {
		if block.ptr == p {
			a.pools[dev] = append(pool[:i], pool[i+1:]...)
			poolBlocks.Dec()
			poolBytes.Sub(float64(block.size))
			return
		}
	}
}

// Stats is a snapshot of one allocator's pool state.
type Stats struct {
	Blocks int // tracked blocks across all devices
	InUse  int // blocks currently marked in use
	Bytes  int // total tracked bytes
}

// Stats returns a snapshot of the pool state.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var s Stats
	for _, pool := range a.pools {
		for _, block := range pool {
			s.Blocks++
			s.Bytes += block.size
			if block.inUse {
				s.InUse++
			}
		}
	}
	return s
}

// Teardown frees every tracked block back to its runtime and empties the
// pools. Outstanding (in-use) blocks are freed too; callers must not hold
// pointers across Teardown.
func (a *Allocator) Teardown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error
	for dev, pool := range a.pools {
		rt, err := a.runtimeFor(dev)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, block := range pool {
			if err := rt.Free(block.ptr); err != nil && firstErr == nil {
				firstErr = err
			}
			poolBlocks.Dec()
			poolBytes.Sub(float64(block.size))
		}
		delete(a.pools, dev)
	}
	return firstErr
}
