package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Sum reduces the whole tensor to a scalar (rank-0 result).
func (b *Backend) Sum(x *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := tensor.New(tensor.Shape{}, x.DType(), b.device)
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		out.Float32()[0] = sum(x.Float32())
	case tensor.Float64:
		out.Float64()[0] = sum(x.Float64())
	case tensor.Int32:
		out.Int32()[0] = sum(x.Int32())
	case tensor.Int64:
		out.Int64()[0] = sum(x.Int64())
	case tensor.Uint8:
		out.Uint8()[0] = sum(x.Uint8())
	default:
		return nil, fmt.Errorf("sum: unsupported dtype %s", x.DType())
	}
	return out, nil
}

// SumDim reduces along one dimension. With keepDim the reduced axis stays
// in the result shape with size 1; otherwise it is dropped.
func (b *Backend) SumDim(x *tensor.Tensor, dim int, keepDim bool) (*tensor.Tensor, error) {
	shape := x.Shape()
	if dim < 0 || dim >= len(shape) {
		return nil, &tensor.ShapeError{Op: "sumdim",
			Msg: fmt.Sprintf("dimension %d out of range for rank-%d tensor", dim, len(shape))}
	}

	out, err := tensor.New(reducedShape(shape, dim, keepDim), x.DType(), b.device)
	if err != nil {
		return nil, err
	}

	switch x.DType() {
	case tensor.Float32:
		sumDim(out.Float32(), x.Float32(), shape, dim)
	case tensor.Float64:
		sumDim(out.Float64(), x.Float64(), shape, dim)
	case tensor.Int32:
		sumDim(out.Int32(), x.Int32(), shape, dim)
	case tensor.Int64:
		sumDim(out.Int64(), x.Int64(), shape, dim)
	case tensor.Uint8:
		sumDim(out.Uint8(), x.Uint8(), shape, dim)
	default:
		return nil, fmt.Errorf("sumdim: unsupported dtype %s", x.DType())
	}
	return out, nil
}

// MeanDim computes the mean along one dimension for float tensors. A
// zero-length axis yields NaN, the 0/0 of an empty mean.
func (b *Backend) MeanDim(x *tensor.Tensor, dim int, keepDim bool) (*tensor.Tensor, error) {
	if x.DType() != tensor.Float32 && x.DType() != tensor.Float64 {
		return nil, fmt.Errorf("meandim: unsupported dtype %s", x.DType())
	}

	out, err := b.SumDim(x, dim, keepDim)
	if err != nil {
		return nil, err
	}

	count := float64(x.Shape()[dim])
	switch x.DType() {
	case tensor.Float32:
		data := out.Float32()
		for i := range data {
			data[i] /= float32(count)
		}
	case tensor.Float64:
		data := out.Float64()
		for i := range data {
			data[i] /= count
		}
	}
	return out, nil
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	return out
}

func sum[T number](xs []T) T {
	var total T
	for _, v := range xs {
		total += v
	}
	return total
}

// sumDim accumulates src into dst with the reduced axis collapsed. The
// iteration splits the linear index into outer/axis/inner parts so src is
// walked sequentially.
func sumDim[T number](dst, src []T, shape tensor.Shape, dim int) {
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	axis := shape[dim]
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}

	for o := 0; o < outer; o++ {
		for a := 0; a < axis; a++ {
			srcBase := (o*axis + a) * inner
			dstBase := o * inner
			for i := 0; i < inner; i++ {
				dst[dstBase+i] += src[srcBase+i]
			}
		}
	}
}
