// Copyright 2026 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for tensor operations:
// element-wise arithmetic with broadcasting, 2-D matrix multiplication
// and reductions. Operations execute on the calling thread; large kernels
// fan out across worker goroutines with no shared mutable state.
package cpu

import (
	internalcpu "github.com/loom-ml/loom/internal/backend/cpu"
)

// Backend executes tensor operations on the host CPU.
type Backend = internalcpu.Backend

// New creates a CPU backend with default parallelism.
//
// Example:
//
//	backend := cpu.New()
//	x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3}, backend.Device())
//	y, _ := backend.AddScalar(x, float32(1))
func New() *Backend {
	return internalcpu.New()
}

// NewWithWorkers creates a CPU backend pinned to n worker goroutines.
func NewWithWorkers(n int) *Backend {
	return internalcpu.NewWithWorkers(n)
}
