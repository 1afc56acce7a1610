package quantization

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFiniteCentroid is returned when encoding finds no centroid with a
	// finite distance for some subvector, so no valid code exists.
	ErrNoFiniteCentroid = errors.New("no centroid with finite distance for subvector")

	// ErrShortBuffer is returned when an output buffer is smaller than
	// CodeSize (encode) or Dimension (reconstruct) requires.
	ErrShortBuffer = errors.New("output buffer too small")

	// ErrCorruptQuantizer is returned when a serialized quantizer ends early
	// or its header is inconsistent with the stream.
	ErrCorruptQuantizer = errors.New("corrupt quantizer stream")
)

// ErrInvalidDimensions indicates construction parameters that violate the
// model: M >= 1, Dsub >= 1, 0 < K <= 256.
type ErrInvalidDimensions struct {
	NumSubvectors   int
	KsPerSubvector  int
	DimPerSubvector int
}

func (e *ErrInvalidDimensions) Error() string {
	return fmt.Sprintf("invalid quantizer dimensions: subvectors=%d ks=%d dimPerSubvector=%d",
		e.NumSubvectors, e.KsPerSubvector, e.DimPerSubvector)
}

// ErrDimensionMismatch indicates an input vector whose length does not match
// the quantizer's dimension.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrCodebookSize indicates a codebook buffer whose length does not equal
// M * K * Dsub.
type ErrCodebookSize struct {
	Expected int
	Actual   int
}

func (e *ErrCodebookSize) Error() string {
	return fmt.Sprintf("codebook size mismatch: expected %d elements, got %d", e.Expected, e.Actual)
}

// ErrCodeRange indicates a code byte outside [0, K).
type ErrCodeRange struct {
	Subvector int
	Code      byte
	Ks        int
}

func (e *ErrCodeRange) Error() string {
	return fmt.Sprintf("code byte %d out of range [0, %d) in subvector %d", e.Code, e.Ks, e.Subvector)
}

// ErrUnknownQuantizerType indicates a type tag the factory cannot dispatch.
type ErrUnknownQuantizerType struct {
	Type QuantizerType
}

func (e *ErrUnknownQuantizerType) Error() string {
	return fmt.Sprintf("unknown quantizer type: %s", e.Type)
}

// ErrUnknownVectorType indicates an element-kind tag the factory cannot
// dispatch.
type ErrUnknownVectorType struct {
	Type VectorType
}

func (e *ErrUnknownVectorType) Error() string {
	return fmt.Sprintf("unknown vector type: %s", e.Type)
}
