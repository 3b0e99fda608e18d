package tensor

// BroadcastStrides computes read strides for treating a tensor of shape in
// as if it had shape out. Dimensions of size 1 and padded leading
// dimensions get stride 0, so every output coordinate along them maps back
// to source index 0.
func BroadcastStrides(in, out Shape) []int {
	strides := make([]int, len(out))
	offset := len(out) - len(in)
	orig := in.ComputeStrides()

	for i := range out {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			strides[i] = 0
		case in[inIdx] == 1:
			strides[i] = 0
		default:
			strides[i] = orig[inIdx]
		}
	}
	return strides
}

// SourceIndex maps a flat output offset back to the flat source offset
// using broadcast-adjusted input strides. outStrides are the row-major
// strides of the output shape.
func SourceIndex(outIdx int, outStrides, inStrides []int) int {
	srcIdx := 0
	for i := range outStrides {
		if outStrides[i] == 0 {
			continue
		}
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		srcIdx += coord * inStrides[i]
	}
	return srcIdx
}

// ComputeBroadcastShape returns the broadcast of two shapes with the same
// failure contract as BroadcastShapes.
func ComputeBroadcastShape(a, b Shape) (Shape, error) {
	shape, _, err := BroadcastShapes(a, b)
	return shape, err
}

// BroadcastTo materializes t expanded to target. When the shapes already
// match, the input tensor is returned unchanged with no copy. Incompatible
// shapes fail with *ShapeError. The result owns fresh storage and never
// aliases the source.
func BroadcastTo(t *Tensor, target Shape) (*Tensor, error) {
	if t.Shape().Equal(target) {
		return t, nil
	}
	if !AreBroadcastable(t.Shape(), target) {
		return nil, shapeErrorf("broadcast_to", "cannot broadcast %v to %v", t.Shape(), target)
	}
	// The target must dominate the source shape, not merely be compatible
	// with it: every source dimension has to be 1 or equal to its pair.
	shape, _, err := BroadcastShapes(t.Shape(), target)
	if err != nil || !shape.Equal(target) {
		return nil, shapeErrorf("broadcast_to", "cannot broadcast %v to %v", t.Shape(), target)
	}

	out, err := New(target, t.DType(), t.Device())
	if err != nil {
		return nil, err
	}

	outStrides := target.ComputeStrides()
	inStrides := BroadcastStrides(t.Shape(), target)

	n := target.NumElements()
	for i := 0; i < n; i++ {
		out.storage.CopyElement(i, t.storage, SourceIndex(i, outStrides, inStrides))
	}
	return out, nil
}
