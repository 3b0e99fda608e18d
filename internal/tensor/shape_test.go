package tensor

import (
	"errors"
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1}, // scalar convention
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
		{Shape{2, 0, 4}, 0}, // zero dimension propagates
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeValidate(t *testing.T) {
	if err := (Shape{2, 0, 3}).Validate(); err != nil {
		t.Errorf("zero dimensions should be legal, got %v", err)
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("negative dimension should fail validation")
	}
}

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{}, []int{}},
		{Shape{4}, []int{1}},
		{Shape{2, 3}, []int{3, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.want) {
			t.Errorf("%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.want)
				break
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b   Shape
		want   Shape
		needs  bool
		wantOK bool
	}{
		{Shape{1, 3}, Shape{2, 3}, Shape{2, 3}, true, true},
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, true},
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, true},
		{Shape{}, Shape{4, 2}, Shape{4, 2}, true, true}, // scalar broadcasts anywhere
		{Shape{3}, Shape{2, 3}, Shape{2, 3}, true, true},
		{Shape{2, 3}, Shape{4, 2}, nil, false, false},
		{Shape{2, 0}, Shape{1, 0}, Shape{2, 0}, true, true}, // empty result allowed
	}

	for _, tt := range tests {
		got, needs, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantOK != (err == nil) {
			t.Errorf("BroadcastShapes(%v, %v) error = %v, wantOK %v", tt.a, tt.b, err, tt.wantOK)
			continue
		}
		if !tt.wantOK {
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("BroadcastShapes(%v, %v) error type = %T, want *ShapeError", tt.a, tt.b, err)
			}
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if needs != tt.needs {
			t.Errorf("BroadcastShapes(%v, %v) needsBroadcast = %v, want %v", tt.a, tt.b, needs, tt.needs)
		}
	}
}

func TestBroadcastShapesCommutative(t *testing.T) {
	pairs := [][2]Shape{
		{Shape{1, 3}, Shape{2, 3}},
		{Shape{5, 1, 4}, Shape{3, 4}},
		{Shape{}, Shape{7}},
		{Shape{2, 1}, Shape{1, 6}},
	}

	for _, p := range pairs {
		ab, _, err1 := BroadcastShapes(p[0], p[1])
		ba, _, err2 := BroadcastShapes(p[1], p[0])
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected error for %v and %v: %v, %v", p[0], p[1], err1, err2)
		}
		if !ab.Equal(ba) {
			t.Errorf("broadcast not commutative for %v, %v: %v vs %v", p[0], p[1], ab, ba)
		}
		if ab.NumElements() < max(p[0].NumElements(), p[1].NumElements()) {
			t.Errorf("broadcast of %v, %v shrank element count", p[0], p[1])
		}
	}
}

func TestAreBroadcastable(t *testing.T) {
	tests := []struct {
		a, b Shape
		want bool
	}{
		{Shape{1, 3}, Shape{2, 3}, true},
		{Shape{2, 3}, Shape{4, 2}, false},
		{Shape{}, Shape{9, 9, 9}, true},
		{Shape{4, 1}, Shape{1, 5}, true},
	}

	for _, tt := range tests {
		if got := AreBroadcastable(tt.a, tt.b); got != tt.want {
			t.Errorf("AreBroadcastable(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	shapes := []Shape{
		{4},
		{2, 3},
		{2, 3, 4},
		{1, 5, 1, 2},
	}

	for _, shape := range shapes {
		n := shape.NumElements()
		for i := 0; i < n; i++ {
			idx := LinearToMultiIndex(i, shape)
			if got := MultiToLinearIndex(idx, shape); got != i {
				t.Errorf("shape %v: round trip of %d gave %d (multi %v)", shape, i, got, idx)
			}
		}
	}
}

func TestLinearToMultiIndexScalar(t *testing.T) {
	idx := LinearToMultiIndex(0, Shape{})
	if len(idx) != 0 {
		t.Errorf("scalar multi-index = %v, want empty", idx)
	}
	if got := MultiToLinearIndex(idx, Shape{}); got != 0 {
		t.Errorf("scalar linear index = %d, want 0", got)
	}
}
