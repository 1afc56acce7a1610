// Package vmath provides the scalar and lookup kernels behind the public
// distance package and the PQ quantizer hot loops.
//
// Kernels are generic over the supported codebook element kinds. Integer
// kinds accumulate in widened int32 arithmetic and convert to float32 once
// at the end.
package vmath

import "math"

// Scalar enumerates the element kinds a codebook may hold.
type Scalar interface {
	float32 | int8 | uint8
}

// SquaredL2 returns the squared Euclidean distance between a and b.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func SquaredL2[T Scalar](a, b []T) float32 {
	switch av := any(a).(type) {
	case []float32:
		return squaredL2F32(av, any(b).([]float32))
	case []int8:
		return squaredL2I8(av, any(b).([]int8))
	default:
		return squaredL2U8(any(a).([]uint8), any(b).([]uint8))
	}
}

// Dot returns the inner product of a and b.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func Dot[T Scalar](a, b []T) float32 {
	switch av := any(a).(type) {
	case []float32:
		return dotF32(av, any(b).([]float32))
	case []int8:
		return dotI8(av, any(b).([]int8))
	default:
		return dotU8(any(a).([]uint8), any(b).([]uint8))
	}
}

// CosineDistance returns the library's cosine distance convention,
// 1 - dot(a,b)/(|a|*|b|). Zero-norm inputs are treated as having
// similarity 0, so the distance degrades to 1.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func CosineDistance[T Scalar](a, b []T) float32 {
	dot := Dot(a, b)
	na := Dot(a, a)
	nb := Dot(b, b)
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/float32(math.Sqrt(float64(na)*float64(nb)))
}

func squaredL2F32(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}
	return distance
}

func squaredL2I8(a, b []int8) float32 {
	var distance int32
	for i := range a {
		d := int32(a[i]) - int32(b[i])
		distance += d * d
	}
	return float32(distance)
}

func squaredL2U8(a, b []uint8) float32 {
	var distance int32
	for i := range a {
		d := int32(a[i]) - int32(b[i])
		distance += d * d
	}
	return float32(distance)
}

func dotF32(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

func dotI8(a, b []int8) float32 {
	var ret int32
	for i := range a {
		ret += int32(a[i]) * int32(b[i])
	}
	return float32(ret)
}

func dotU8(a, b []uint8) float32 {
	var ret int32
	for i := range a {
		ret += int32(a[i]) * int32(b[i])
	}
	return float32(ret)
}
