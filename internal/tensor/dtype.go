// Package tensor provides the shape, storage and broadcasting substrate for
// the Loom tensor library.
package tensor

// DType is a constraint for supported tensor element types. Exact types
// only: TypeOf and the checked storage accessors dispatch on the dynamic
// type, so defined types with these underlying types are not admitted.
type DType interface {
	float32 | float64 | int32 | int64 | uint8
}

// DataType carries runtime type information for a storage buffer.
type DataType int

// Supported element types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
	Uint8
)

// Size returns the width of one element in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	case Uint8:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// TypeOf reports the DataType for a generic element type T.
func TypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	default:
		panic("unsupported element type")
	}
}
