//go:build webgpu

package device

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
)

// accelBuffer is the opaque handle returned for accelerator allocations.
// The raw pointer handed to callers points at this struct; the runtime's
// handle table keeps it reachable.
type accelBuffer struct {
	buf  *wgpu.Buffer
	size int
}

// webgpuRuntime implements the accelerator runtime on a WebGPU device.
// Buffers live in GPU memory; transfers go through staging buffers because
// storage buffers cannot be mapped directly.
type webgpuRuntime struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	mu      sync.Mutex
	handles map[uintptr]*accelBuffer
}

var (
	accelOnce sync.Once
	accel     *webgpuRuntime
	accelErr  error
)

// initWebGPU brings up the instance/adapter/device chain once per process.
func initWebGPU() (rt *webgpuRuntime, err error) {
	// The native library may be missing at runtime even though the tag is
	// set; surface that as an error instead of crashing.
	defer func() {
		if r := recover(); r != nil {
			rt = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", err)
	}

	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", err)
	}

	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &webgpuRuntime{
		instance: instance,
		adapter:  adapter,
		device:   dev,
		queue:    queue,
		handles:  make(map[uintptr]*accelBuffer),
	}, nil
}

func getWebGPU() (*webgpuRuntime, error) {
	accelOnce.Do(func() {
		accel, accelErr = initWebGPU()
	})
	return accel, accelErr
}

// AcceleratorCount reports how many accelerator devices the runtime
// exposes. WebGPU presents a single logical adapter.
func AcceleratorCount() (int, error) {
	if _, err := getWebGPU(); err != nil {
		return 0, err
	}
	return 1, nil
}

// acceleratorRuntime returns the raw accelerator runtime, or nil when the
// WebGPU device could not be initialized.
func acceleratorRuntime() runtime {
	rt, err := getWebGPU()
	if err != nil {
		return nil
	}
	return rt
}

// Alloc creates a GPU storage buffer and returns its opaque handle.
func (r *webgpuRuntime) Alloc(size int) (unsafe.Pointer, error) {
	if size <= 0 {
		return nil, deviceErrorf("alloc", "invalid allocation size %d", size)
	}

	buf := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  uint64(size),
	})
	if buf == nil {
		return nil, deviceErrorf("alloc", "failed to allocate %d bytes on %s", size, "webgpu")
	}

	h := &accelBuffer{buf: buf, size: size}
	p := unsafe.Pointer(h)

	r.mu.Lock()
	r.handles[uintptr(p)] = h
	r.mu.Unlock()

	return p, nil
}

// Free releases a GPU buffer obtained from Alloc.
func (r *webgpuRuntime) Free(p unsafe.Pointer) error {
	r.mu.Lock()
	h, ok := r.handles[uintptr(p)]
	delete(r.handles, uintptr(p))
	r.mu.Unlock()

	if !ok {
		return &MemoryError{Msg: "free of unknown accelerator handle"}
	}
	h.buf.Release()
	return nil
}

// CopyIn uploads host bytes into the GPU buffer behind dst. The upload goes
// through a mapped staging buffer copied on the queue.
func (r *webgpuRuntime) CopyIn(dst unsafe.Pointer, src []byte) error {
	h, err := r.lookup(dst)
	if err != nil {
		return err
	}
	if len(src) > h.size {
		return deviceErrorf("copy_in", "transfer of %d bytes exceeds buffer size %d", len(src), h.size)
	}

	size := uint64(len(src))
	staging := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()

	mapped := staging.GetMappedRange(0, size)
	copy(unsafe.Slice((*byte)(mapped), size), src)
	staging.Unmap()

	encoder := r.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, h.buf, 0, size)
	r.queue.Submit(encoder.Finish(nil))
	return nil
}

// CopyOut downloads GPU bytes behind src into dst via a read-mapped
// staging buffer.
func (r *webgpuRuntime) CopyOut(dst []byte, src unsafe.Pointer) error {
	h, err := r.lookup(src)
	if err != nil {
		return err
	}
	if len(dst) > h.size {
		return deviceErrorf("copy_out", "transfer of %d bytes exceeds buffer size %d", len(dst), h.size)
	}

	size := uint64(len(dst))
	staging := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := r.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(h.buf, 0, staging, 0, size)
	r.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(r.device, wgpu.MapModeRead, 0, size); err != nil {
		return &DeviceError{Op: "copy_out", Msg: "failed to map staging buffer", Err: err}
	}
	mapped := staging.GetMappedRange(0, size)
	copy(dst, unsafe.Slice((*byte)(mapped), size))
	staging.Unmap()
	return nil
}

func (r *webgpuRuntime) lookup(p unsafe.Pointer) (*accelBuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[uintptr(p)]
	if !ok {
		return nil, &MemoryError{Msg: "unknown accelerator handle"}
	}
	return h, nil
}
