// Copyright 2026 The Loom Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor API for the Loom library.
//
// # Overview
//
// A Tensor pairs a shape with reference-counted contiguous storage. This
// package provides:
//   - N-dimensional tensors over float32, float64, int32, int64 and uint8
//   - NumPy-style broadcasting and shape inference
//   - Row-major stride arithmetic and index conversion
//   - Device placement via the device package
//
// # Basic Usage
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x, _ := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{1, 3}, backend.Device())
//	    y, _ := tensor.BroadcastTo(x, tensor.Shape{2, 3})
//	    sum, _ := backend.Add(x, y)
//	    _ = sum
//	}
//
// # Broadcasting
//
// Shapes are compared right to left; dimensions are compatible when equal
// or when one of them is 1. A scalar broadcasts to anything:
//
//	tensor.BroadcastShapes(tensor.Shape{1, 3}, tensor.Shape{2, 3}) // (2, 3)
//
// # Memory Management
//
// Storage is reference-counted: Clone shares a buffer, every operation
// result owns a fresh one. Failures surface as distinguishable error
// categories (*ShapeError, *IndexError); nothing in this package retries.
package tensor
