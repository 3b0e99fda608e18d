package tensor

// Shape represents the dimensions of a tensor. An empty shape is a scalar.
type Shape []int

// NumElements returns the total number of elements described by the shape.
// A scalar shape has one element; a shape containing a zero dimension has
// none.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is non-negative. Zero dimensions are
// legal and describe an empty tensor.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return shapeErrorf("", "negative dimension %d at axis %d", dim, i)
		}
	}
	return nil
}

// Equal reports whether two shapes have the same rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major element strides for the shape.
// stride[i] is the number of elements to skip to advance one unit along
// dimension i: stride[last] = 1, stride[i] = stride[i+1] * shape[i+1].
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Shapes are compared element-wise from right to left; a dimension pair is
// compatible when the dimensions are equal or one of them is 1. Missing
// leading dimensions are treated as 1, so a scalar broadcasts to anything.
//
// Returns the broadcast shape, a flag indicating whether any expansion is
// actually needed, and a *ShapeError when the shapes are incompatible.
//
// Examples:
//
//	(1, 3) + (2, 3) → (2, 3), true, nil
//	(2, 3) + (2, 3) → (2, 3), false, nil
//	(2, 3) + (4, 2) → nil, false, error
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	rank := max(len(a), len(b))
	result := make(Shape, rank)
	needsBroadcast := false

	for i := 0; i < rank; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		switch {
		case aDim == bDim:
			result[rank-1-i] = aDim
		case aDim == 1:
			result[rank-1-i] = bDim
			needsBroadcast = true
		case bDim == 1:
			result[rank-1-i] = aDim
			needsBroadcast = true
		default:
			return nil, false, shapeErrorf("broadcast",
				"shapes %v and %v are not compatible (axis %d: %d vs %d)",
				a, b, rank-1-i, aDim, bDim)
		}
	}

	return result, needsBroadcast, nil
}

// AreBroadcastable reports whether two shapes are broadcast-compatible
// without allocating the result shape. Use this as a non-erroring pre-check.
func AreBroadcastable(a, b Shape) bool {
	rank := max(len(a), len(b))
	for i := 0; i < rank; i++ {
		aDim, bDim := 1, 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}
		if aDim != bDim && aDim != 1 && bDim != 1 {
			return false
		}
	}
	return true
}

// LinearToMultiIndex converts a flat row-major offset into per-dimension
// coordinates for the given shape.
func LinearToMultiIndex(linear int, shape Shape) []int {
	idx := make([]int, len(shape))
	strides := shape.ComputeStrides()
	for i, stride := range strides {
		if stride == 0 {
			continue
		}
		idx[i] = linear / stride
		linear %= stride
	}
	return idx
}

// MultiToLinearIndex converts per-dimension coordinates back into a flat
// row-major offset. It is the inverse of LinearToMultiIndex for all valid
// offsets.
func MultiToLinearIndex(idx []int, shape Shape) int {
	strides := shape.ComputeStrides()
	linear := 0
	for i, coord := range idx {
		linear += coord * strides[i]
	}
	return linear
}
