package quantization

import (
	"fmt"

	"github.com/PhilipBAdams/SPTAG/internal/vmath"
)

// Scalar enumerates the element kinds a codebook may hold.
type Scalar = vmath.Scalar

// QuantizerType identifies a concrete quantizer variant in mixed containers.
// It is serialized as a single byte ahead of the quantizer body.
type QuantizerType uint8

const (
	// QuantizerNone marks a container without a quantizer.
	QuantizerNone QuantizerType = iota
	// QuantizerPQ marks a product quantizer.
	QuantizerPQ
)

func (t QuantizerType) String() string {
	switch t {
	case QuantizerNone:
		return "None"
	case QuantizerPQ:
		return "PQ"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// VectorType identifies the scalar element kind of a codebook. It is
// conveyed out-of-band by the container wrapping a serialized quantizer.
type VectorType uint8

const (
	VectorUndefined VectorType = iota
	VectorFloat32
	VectorInt8
	VectorUInt8
)

func (t VectorType) String() string {
	switch t {
	case VectorFloat32:
		return "Float32"
	case VectorInt8:
		return "Int8"
	case VectorUInt8:
		return "UInt8"
	default:
		return fmt.Sprintf("Undefined(%d)", uint8(t))
	}
}

// ElementSize returns the serialized size of one element in bytes, or 0 for
// undefined kinds.
func (t VectorType) ElementSize() int {
	switch t {
	case VectorFloat32:
		return 4
	case VectorInt8, VectorUInt8:
		return 1
	default:
		return 0
	}
}

// vectorTypeOf maps a Scalar type parameter to its wire tag.
func vectorTypeOf[T Scalar]() VectorType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return VectorFloat32
	case int8:
		return VectorInt8
	default:
		return VectorUInt8
	}
}
