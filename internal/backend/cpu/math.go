package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

// number covers the element types binary arithmetic is defined over.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64 | ~uint8
}

func apply[T number](op binOp, a, b T) T {
	switch op {
	case opAdd:
		return a + b
	case opSub:
		return a - b
	case opMul:
		return a * b
	case opDiv:
		return a / b
	default:
		panic("unknown binary op")
	}
}

// binary validates dtypes, computes the broadcast shape and dispatches to
// the typed kernel.
func (b *Backend) binary(name string, op binOp, x, y *tensor.Tensor) (*tensor.Tensor, error) {
	if x.DType() != y.DType() {
		return nil, fmt.Errorf("%s: dtype mismatch: %s vs %s", name, x.DType(), y.DType())
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		return nil, err
	}

	out, err := tensor.New(outShape, x.DType(), b.device)
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		binaryKernel(op, out.Float32(), x.Float32(), y.Float32(), x, y, outShape, needsBroadcast, b.par)
	case tensor.Float64:
		binaryKernel(op, out.Float64(), x.Float64(), y.Float64(), x, y, outShape, needsBroadcast, b.par)
	case tensor.Int32:
		binaryKernel(op, out.Int32(), x.Int32(), y.Int32(), x, y, outShape, needsBroadcast, b.par)
	case tensor.Int64:
		binaryKernel(op, out.Int64(), x.Int64(), y.Int64(), x, y, outShape, needsBroadcast, b.par)
	case tensor.Uint8:
		binaryKernel(op, out.Uint8(), x.Uint8(), y.Uint8(), x, y, outShape, needsBroadcast, b.par)
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %s", name, x.DType())
	}

	return out, nil
}

// binaryKernel writes op(x, y) into dst. Same-shape inputs take the flat
// path; otherwise both inputs are read through broadcast-adjusted strides.
func binaryKernel[T number](op binOp, dst, xs, ys []T, x, y *tensor.Tensor,
	outShape tensor.Shape, needsBroadcast bool, par parallel.Config,
) {
	if !needsBroadcast && x.Shape().Equal(y.Shape()) {
		parallel.ForRange(len(dst), func(start, end int) {
			for i := start; i < end; i++ {
				dst[i] = apply(op, xs[i], ys[i])
			}
		}, par)
		return
	}

	outStrides := outShape.ComputeStrides()
	xStrides := tensor.BroadcastStrides(x.Shape(), outShape)
	yStrides := tensor.BroadcastStrides(y.Shape(), outShape)

	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			xi := tensor.SourceIndex(i, outStrides, xStrides)
			yi := tensor.SourceIndex(i, outStrides, yStrides)
			dst[i] = apply(op, xs[xi], ys[yi])
		}
	}, par)
}
