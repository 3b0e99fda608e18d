package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loom-ml/loom/internal/device"
	"github.com/loom-ml/loom/internal/tensor"
)

func fromF32(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, device.CPU())
	require.NoError(t, err)
	return x
}

func fromI32(t *testing.T, data []int32, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, device.CPU())
	require.NoError(t, err)
	return x
}

func TestBackendName(t *testing.T) {
	b := New()
	assert.Equal(t, "cpu", b.Name())
	assert.True(t, b.Device().IsCPU())
}

func TestAddSameShape(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromF32(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	out, err := b.Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 44}, out.Float32())
}

func TestAddBroadcastRow(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := fromF32(t, []float32{10, 20, 30}, tensor.Shape{3})

	out, err := b.Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.Float32())
}

func TestAddBroadcastColumn(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := fromF32(t, []float32{100, 200}, tensor.Shape{2, 1})

	out, err := b.Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{101, 102, 103, 204, 205, 206}, out.Float32())
}

func TestAddBothBroadcast(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2}, tensor.Shape{2, 1})
	y := fromF32(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	out, err := b.Add(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 21, 31, 12, 22, 32}, out.Float32())
}

func TestSub(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{5, 7, 9}, tensor.Shape{3})
	y := fromF32(t, []float32{1, 2, 3}, tensor.Shape{3})

	out, err := b.Sub(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5, 6}, out.Float32())
}

func TestMulInt32(t *testing.T) {
	b := New()
	x := fromI32(t, []int32{1, 2, 3, 4}, tensor.Shape{4})
	y := fromI32(t, []int32{2, 2, 2, 2}, tensor.Shape{4})

	out, err := b.Mul(x, y)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 4, 6, 8}, out.Int32())
}

func TestDiv(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{10, 20, 30}, tensor.Shape{3})
	y := fromF32(t, []float32{2, 4, 5}, tensor.Shape{3})

	out, err := b.Div(x, y)
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 5, 6}, out.Float32())
}

func TestBinaryDTypeMismatch(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1}, tensor.Shape{1})
	y := fromI32(t, []int32{1}, tensor.Shape{1})

	_, err := b.Add(x, y)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dtype mismatch")
}

func TestBinaryIncompatibleShapes(t *testing.T) {
	b := New()
	x := fromF32(t, make([]float32, 6), tensor.Shape{2, 3})
	y := fromF32(t, make([]float32, 8), tensor.Shape{4, 2})

	_, err := b.Add(x, y)
	var shapeErr *tensor.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestScalarBroadcast(t *testing.T) {
	b := New()
	x := fromF32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := fromF32(t, []float32{10}, tensor.Shape{})

	out, err := b.Mul(x, y)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{10, 20, 30, 40}, out.Float32())
}

func TestAddLargeFansOut(t *testing.T) {
	// Large enough to cross the parallel chunk threshold.
	n := 10_000
	xs := make([]float32, n)
	ys := make([]float32, n)
	for i := range xs {
		xs[i] = float32(i)
		ys[i] = float32(2 * i)
	}
	b := NewWithWorkers(4)
	x := fromF32(t, xs, tensor.Shape{n})
	y := fromF32(t, ys, tensor.Shape{n})

	out, err := b.Add(x, y)
	require.NoError(t, err)
	data := out.Float32()
	for i := 0; i < n; i += 997 {
		assert.Equal(t, float32(3*i), data[i])
	}
}
