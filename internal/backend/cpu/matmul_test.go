package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestMatMulFloat64(t *testing.T) {
	b := New()
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, device.CPU())
	require.NoError(t, err)
	y, err := tensor.FromSlice([]float64{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2}, device.CPU())
	require.NoError(t, err)

	out, err := b.MatMul(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float64{58, 64, 139, 154}, out.Float64())
}

func TestMatMulFloat32(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := fromF32(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out, err := b.MatMul(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{58, 64, 139, 154}, out.Float32())
}

func TestMatMulIdentity(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	id := fromF32(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})

	out, err := b.MatMul(x, id)
	require.NoError(t, err)
	assert.Equal(t, x.Float32(), out.Float32())
}

func TestMatMulInt64(t *testing.T) {
	b := New()
	x, err := tensor.FromSlice([]int64{1, 2, 3, 4}, tensor.Shape{2, 2}, device.CPU())
	require.NoError(t, err)
	y, err := tensor.FromSlice([]int64{5, 6, 7, 8}, tensor.Shape{2, 2}, device.CPU())
	require.NoError(t, err)

	out, err := b.MatMul(x, y)
	require.NoError(t, err)
	assert.Equal(t, []int64{19, 22, 43, 50}, out.Int64())
}

func TestMatMulVectorShapes(t *testing.T) {
	// (1, K) @ (K, 1) is the 2-D form of a dot product.
	b := New()
	x := fromF32(t, []float32{1, 2, 3}, tensor.Shape{1, 3})
	y := fromF32(t, []float32{4, 5, 6}, tensor.Shape{3, 1})

	out, err := b.MatMul(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1}, out.Shape())
	assert.Equal(t, []float32{32}, out.Float32())
}

func TestMatMulInnerDimMismatch(t *testing.T) {
	b := New()
	x := fromF32(t, make([]float32, 6), tensor.Shape{2, 3})
	y := fromF32(t, make([]float32, 8), tensor.Shape{4, 2})

	_, err := b.MatMul(x, y)
	var shapeErr *tensor.ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "matmul", shapeErr.Op)
}

func TestMatMulRequires2D(t *testing.T) {
	b := New()
	x := fromF32(t, make([]float32, 6), tensor.Shape{6})
	y := fromF32(t, make([]float32, 6), tensor.Shape{2, 3})

	_, err := b.MatMul(x, y)
	var shapeErr *tensor.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestMatMulDTypeMismatch(t *testing.T) {
	b := New()
	x := fromF32(t, make([]float32, 4), tensor.Shape{2, 2})
	y, err := tensor.FromSlice(make([]float64, 4), tensor.Shape{2, 2}, device.CPU())
	require.NoError(t, err)

	_, err = b.MatMul(x, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dtype mismatch")
}

func TestMatMulEmptyResult(t *testing.T) {
	b := New()
	x := fromF32(t, nil, tensor.Shape{0, 3})
	y := fromF32(t, make([]float32, 6), tensor.Shape{3, 2})

	out, err := b.MatMul(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 2}, out.Shape())
	assert.Equal(t, 0, out.NumElements())
}

func TestMatMulZeroInnerDim(t *testing.T) {
	// (2, 0) @ (0, 3) is a legal product: a (2, 3) result of all zeros.
	b := New()

	x64, err := tensor.FromSlice([]float64(nil), tensor.Shape{2, 0}, device.CPU())
	require.NoError(t, err)
	y64, err := tensor.FromSlice([]float64(nil), tensor.Shape{0, 3}, device.CPU())
	require.NoError(t, err)

	out, err := b.MatMul(x64, y64)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0}, out.Float64())

	x32 := fromF32(t, nil, tensor.Shape{2, 0})
	y32 := fromF32(t, nil, tensor.Shape{0, 3})

	out, err = b.MatMul(x32, y32)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0, 0, 0}, out.Float32())
}

func TestMatMulParallelMatchesSequential(t *testing.T) {
	const m, k, n = 17, 23, 13
	xs := make([]float32, m*k)
	ys := make([]float32, k*n)
	for i := range xs {
		xs[i] = float32(i%7) - 3
	}
	for i := range ys {
		ys[i] = float32(i%5) - 2
	}

	x := fromF32(t, xs, tensor.Shape{m, k})
	y := fromF32(t, ys, tensor.Shape{k, n})

	seq, err := NewWithWorkers(1).MatMul(x, y)
	require.NoError(t, err)
	par, err := NewWithWorkers(8).MatMul(x, y)
	require.NoError(t, err)

	assert.Equal(t, seq.Float32(), par.Float32())
}
