// Package cpu implements tensor operations on the host CPU: element-wise
// arithmetic with broadcasting, 2-D matrix multiplication and reductions.
package cpu

import (
	"github.com/loom-ml/loom/internal/config"
	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// Backend executes tensor operations on the calling thread, fanning large
// kernels out across worker goroutines.
type Backend struct {
	device device.Device
	par    parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *Backend {
	return &Backend{
		device: device.CPU(),
		par:    parallel.DefaultConfig(),
	}
}

// NewWithConfig creates a CPU backend honoring the configured worker count.
func NewWithConfig(cfg config.Config) *Backend {
	return NewWithWorkers(cfg.Workers)
}

// NewWithWorkers creates a CPU backend pinned to n worker goroutines.
func NewWithWorkers(n int) *Backend {
	return &Backend{
		device: device.CPU(),
		par:    parallel.DefaultConfig().WithWorkers(n),
	}
}

// Name returns the backend name.
func (b *Backend) Name() string { return "cpu" }

// Device returns the compute device.
func (b *Backend) Device() device.Device { return b.device }

// Add performs element-wise addition with NumPy-style broadcasting.
func (b *Backend) Add(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("add", opAdd, x, y)
}

// Sub performs element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("sub", opSub, x, y)
}

// Mul performs element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("mul", opMul, x, y)
}

// Div performs element-wise division with broadcasting.
func (b *Backend) Div(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	return b.binary("div", opDiv, x, y)
}
