package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// MatMul performs 2-D matrix multiplication: (M, K) @ (K, N) -> (M, N).
// The float64 path goes through gonum's BLAS; other dtypes use a
// row-parallel kernel. Output rows are independent tiles, so workers need
// no synchronization.
func (b *Backend) MatMul(x, y *tensor.Tensor) (*tensor.Tensor, error) {
	xShape, yShape := x.Shape(), y.Shape()

	if len(xShape) != 2 || len(yShape) != 2 {
		return nil, &tensor.ShapeError{Op: "matmul",
			Msg: fmt.Sprintf("requires 2-D tensors, got %d-D and %d-D", len(xShape), len(yShape))}
	}
	m, k := xShape[0], xShape[1]
	if yShape[0] != k {
		return nil, &tensor.ShapeError{Op: "matmul",
			Msg: fmt.Sprintf("inner dimensions do not match: %v @ %v", xShape, yShape)}
	}
	n := yShape[1]
	if x.DType() != y.DType() {
		return nil, fmt.Errorf("matmul: dtype mismatch: %s vs %s", x.DType(), y.DType())
	}

	out, err := tensor.New(tensor.Shape{m, n}, x.DType(), b.device)
	if err != nil {
		return nil, err
	}
	// Zero-sized k would also hand gonum a zero-column stride, which Dgemm
	// rejects; the zeroed output is already the correct product.
	if m == 0 || n == 0 || k == 0 {
		return out, nil
	}

	switch x.DType() {
	case tensor.Float64:
		matmulBLAS(out.Float64(), x.Float64(), y.Float64(), m, k, n)
	case tensor.Float32:
		matmulRows(out.Float32(), x.Float32(), y.Float32(), m, k, n, b.par)
	case tensor.Int32:
		matmulRows(out.Int32(), x.Int32(), y.Int32(), m, k, n, b.par)
	case tensor.Int64:
		matmulRows(out.Int64(), x.Int64(), y.Int64(), m, k, n, b.par)
	default:
		return nil, fmt.Errorf("matmul: unsupported dtype %s", x.DType())
	}

	return out, nil
}

// matmulBLAS runs C = A @ B through gonum's float64 GEMM.
func matmulBLAS(c, a, bb []float64, m, k, n int) {
	am := blas64.General{Rows: m, Cols: k, Stride: k, Data: a}
	bm := blas64.General{Rows: k, Cols: n, Stride: n, Data: bb}
	cm := blas64.General{Rows: m, Cols: n, Stride: n, Data: c}
	blas64.Gemm(blas.NoTrans, blas.NoTrans, 1, am, bm, 0, cm)
}

// matmulRows computes C = A @ B a row of C at a time, with the k loop
// innermost over cached rows of B.
func matmulRows[T number](c, a, bb []T, m, k, n int, par parallel.Config) {
	parallel.ForRange(m, func(start, end int) {
		for i := start; i < end; i++ {
			row := c[i*n : (i+1)*n]
			for j := range row {
				row[j] = 0
			}
			for kk := 0; kk < k; kk++ {
				aik := a[i*k+kk]
				bRow := bb[kk*n : (kk+1)*n]
				for j, bv := range bRow {
					row[j] += aik * bv
				}
			}
		}
	}, par)
}
