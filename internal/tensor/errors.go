package tensor

import "fmt"

// ShapeError reports shapes that are incompatible for an operation:
// a failed broadcast, a rank mismatch or mismatched matmul dimensions.
type ShapeError struct {
	Op  string // operation that rejected the shapes
	Msg string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: shape error: %s", e.Op, e.Msg)
	}
	return "shape error: " + e.Msg
}

func shapeErrorf(op, format string, args ...any) *ShapeError {
	return &ShapeError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IndexError reports an out-of-bounds access through a checked accessor.
type IndexError struct {
	Index int
	Len   int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}
