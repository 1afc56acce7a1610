// Package distance provides the elementwise distance primitives used by the
// quantizer: squared L2 and cosine over fixed-width subvectors of the
// supported codebook element kinds (float32, int8, uint8).
//
// Cosine values travel through the library as distances. The pair
// CosineSimilarityFromDistance / DistanceFromCosineSimilarity converts
// between the distance convention and plain cosine similarity; the round
// trip holds up to float32 rounding.
package distance

import (
	"fmt"

	"github.com/PhilipBAdams/SPTAG/internal/vmath"
)

// Scalar enumerates the element kinds distance kernels accept.
type Scalar = vmath.Scalar

// SquaredL2 calculates the squared L2 (Euclidean) distance between two
// vectors. Assumes vectors are the same length (caller's responsibility).
// Integer element kinds accumulate in widened arithmetic.
func SquaredL2[T Scalar](a, b []T) float32 {
	return vmath.SquaredL2(a, b)
}

// Dot calculates the inner product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot[T Scalar](a, b []T) float32 {
	return vmath.Dot(a, b)
}

// Cosine calculates the cosine distance between two vectors in the
// library's convention: 1 - similarity. Zero-norm inputs are treated as
// similarity 0.
func Cosine[T Scalar](a, b []T) float32 {
	return vmath.CosineDistance(a, b)
}

// CosineSimilarityFromDistance maps a cosine distance back to similarity.
func CosineSimilarityFromDistance(d float32) float32 {
	return 1 - d
}

// DistanceFromCosineSimilarity maps a cosine similarity to the distance
// convention. Inverse of CosineSimilarityFromDistance.
func DistanceFromCosineSimilarity(s float32) float32 {
	return 1 - s
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricL2 Metric = iota
	MetricCosine
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricCosine:
		return "Cosine"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for distance calculation over a scalar kind.
type Func[T Scalar] func(a, b []T) float32

// Provider returns the distance function for the given metric.
func Provider[T Scalar](m Metric) (Func[T], error) {
	switch m {
	case MetricL2:
		return SquaredL2[T], nil
	case MetricCosine:
		return Cosine[T], nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
