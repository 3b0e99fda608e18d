package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// AddScalar adds a scalar to every element. The scalar must match the
// tensor's element type.
func (b *Backend) AddScalar(x *tensor.Tensor, scalar any) (*tensor.Tensor, error) {
	return b.scalarOp("add_scalar", opAdd, x, scalar)
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.Tensor, scalar any) (*tensor.Tensor, error) {
	return b.scalarOp("mul_scalar", opMul, x, scalar)
}

func (b *Backend) scalarOp(name string, op binOp, x *tensor.Tensor, scalar any) (*tensor.Tensor, error) {
	out, err := tensor.New(x.Shape(), x.DType(), b.device)
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		v, ok := scalar.(float32)
		if !ok {
			return nil, fmt.Errorf("%s: scalar %T does not match dtype %s", name, scalar, x.DType())
		}
		scalarKernel(op, out.Float32(), x.Float32(), v, b.par)
	case tensor.Float64:
		v, ok := scalar.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: scalar %T does not match dtype %s", name, scalar, x.DType())
		}
		scalarKernel(op, out.Float64(), x.Float64(), v, b.par)
	case tensor.Int32:
		v, ok := scalar.(int32)
		if !ok {
			return nil, fmt.Errorf("%s: scalar %T does not match dtype %s", name, scalar, x.DType())
		}
		scalarKernel(op, out.Int32(), x.Int32(), v, b.par)
	case tensor.Int64:
		v, ok := scalar.(int64)
		if !ok {
			return nil, fmt.Errorf("%s: scalar %T does not match dtype %s", name, scalar, x.DType())
		}
		scalarKernel(op, out.Int64(), x.Int64(), v, b.par)
	case tensor.Uint8:
		v, ok := scalar.(uint8)
		if !ok {
			return nil, fmt.Errorf("%s: scalar %T does not match dtype %s", name, scalar, x.DType())
		}
		scalarKernel(op, out.Uint8(), x.Uint8(), v, b.par)
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %s", name, x.DType())
	}
	return out, nil
}

func scalarKernel[T number](op binOp, dst, src []T, v T, par parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			dst[i] = apply(op, src[i], v)
		}
	}, par)
}
