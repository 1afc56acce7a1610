package quantization

import (
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"

	sptag "github.com/PhilipBAdams/SPTAG"
)

// headerSize is the fixed serialized header: M, K, Dsub as 32-bit ints.
const headerSize = 12

// pqHeader is the on-wire quantizer header, little-endian, no padding.
type pqHeader struct {
	NumSubvectors   sptag.DimensionType
	KsPerSubvector  sptag.SizeType
	DimPerSubvector sptag.DimensionType
}

// Save writes the header and the raw codebook to w. The element kind is
// not part of the stream; it travels as the container's VectorType tag.
// Write errors are returned as-is; the stream may be partially written.
func (pq *PQQuantizer[T]) Save(w io.Writer) error {
	header := pqHeader{
		NumSubvectors:   sptag.DimensionType(pq.numSubvectors),
		KsPerSubvector:  sptag.SizeType(pq.ksPerSubvector),
		DimPerSubvector: sptag.DimensionType(pq.dimPerSubvector),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("writing quantizer header: %w", err)
	}

	if _, err := w.Write(scalarBytes(pq.codebooks)); err != nil {
		return fmt.Errorf("writing codebooks: %w", err)
	}

	pq.logger.Info("saved quantizer",
		"subvectors", pq.numSubvectors,
		"ksPerSubvector", pq.ksPerSubvector,
		"dimPerSubvector", pq.dimPerSubvector,
	)
	return nil
}

// LoadPQQuantizer reads a quantizer with element kind T from r and rebuilds
// both distance tables before returning. On any short read or inconsistent
// header no quantizer is exposed. Loaded quantizers start in SDC mode.
func LoadPQQuantizer[T Scalar](r io.Reader, optFns ...Option) (*PQQuantizer[T], error) {
	var header pqHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %w", ErrCorruptQuantizer, err)
	}

	m := int(header.NumSubvectors)
	k := int(header.KsPerSubvector)
	d := int(header.DimPerSubvector)
	if m < 1 || d < 1 || k < 1 || k > 256 {
		return nil, fmt.Errorf("%w: %w", ErrCorruptQuantizer, &ErrInvalidDimensions{
			NumSubvectors:   m,
			KsPerSubvector:  k,
			DimPerSubvector: d,
		})
	}

	codebooks := make([]T, m*k*d)
	if _, err := io.ReadFull(r, scalarBytes(codebooks)); err != nil {
		return nil, fmt.Errorf("%w: reading codebooks: %w", ErrCorruptQuantizer, err)
	}

	pq, err := NewPQQuantizer(m, k, d, false, codebooks, optFns...)
	if err != nil {
		return nil, err
	}

	pq.logger.Info("loaded quantizer",
		"subvectors", m,
		"ksPerSubvector", k,
		"dimPerSubvector", d,
	)
	return pq, nil
}

// scalarBytes views a scalar slice as raw bytes without copying.
// Little-endian is native on the supported targets, so the view matches
// the wire format.
func scalarBytes[T Scalar](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*elementSize(zero))
}

func elementSize[T Scalar](zero T) int {
	return int(unsafe.Sizeof(zero))
}
