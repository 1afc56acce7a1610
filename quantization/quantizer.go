package quantization

import (
	"fmt"
	"io"
)

// Quantizer is the type-erased surface index layers consume: code-level
// distance kernels, geometry accessors, and persistence. Operations on raw
// vectors (Quantize, Reconstruct, QuantizeADC) are typed by the codebook
// element kind and live on the concrete PQQuantizer.
type Quantizer interface {
	// QuantizerType returns the wire tag of the concrete variant.
	QuantizerType() QuantizerType

	// VectorType returns the codebook element kind.
	VectorType() VectorType

	// NumSubvectors returns M.
	NumSubvectors() int

	// KsPerSubvector returns the number of centroids per subspace.
	KsPerSubvector() int

	// DimPerSubvector returns the dimensions per subspace.
	DimPerSubvector() int

	// Dimension returns the raw vector dimension M * Dsub.
	Dimension() int

	// CodeSize returns the byte length of one encoding in the current mode.
	CodeSize() int

	// BufferSize returns the serialized size of the quantizer in bytes.
	BufferSize() uint64

	// EnableADC reports the asymmetric-distance mode flag.
	EnableADC() bool

	// SetEnableADC toggles asymmetric-distance mode. Callers must
	// synchronize with in-flight encode and distance calls.
	SetEnableADC(enable bool)

	// L2Distance returns the squared L2 distance between two encodings.
	L2Distance(x, y []byte) float32

	// CosineDistance returns the cosine distance between two encodings.
	CosineDistance(x, y []byte) float32

	// Save writes the quantizer to w in its wire format.
	Save(w io.Writer) error
}

var _ Quantizer = (*PQQuantizer[float32])(nil)

// Load reads a quantizer of the given type and element kind from r. The
// tags travel out-of-band, typically in the header of the wrapping index
// container. A QuantizerNone tag yields (nil, nil).
func Load(r io.Reader, qt QuantizerType, vt VectorType, optFns ...Option) (Quantizer, error) {
	switch qt {
	case QuantizerNone:
		return nil, nil
	case QuantizerPQ:
		switch vt {
		case VectorFloat32:
			return LoadPQQuantizer[float32](r, optFns...)
		case VectorInt8:
			return LoadPQQuantizer[int8](r, optFns...)
		case VectorUInt8:
			return LoadPQQuantizer[uint8](r, optFns...)
		default:
			return nil, &ErrUnknownVectorType{Type: vt}
		}
	default:
		return nil, &ErrUnknownQuantizerType{Type: qt}
	}
}

// LoadTagged reads a one-byte QuantizerType tag from r and dispatches to
// the matching loader.
func LoadTagged(r io.Reader, vt VectorType, optFns ...Option) (Quantizer, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, fmt.Errorf("%w: reading quantizer type tag: %w", ErrCorruptQuantizer, err)
	}
	return Load(r, QuantizerType(tag[0]), vt, optFns...)
}

// SaveTagged writes q's one-byte QuantizerType tag followed by its body.
// A nil q writes the QuantizerNone tag alone.
func SaveTagged(w io.Writer, q Quantizer) error {
	tag := QuantizerNone
	if q != nil {
		tag = q.QuantizerType()
	}
	if _, err := w.Write([]byte{byte(tag)}); err != nil {
		return fmt.Errorf("writing quantizer type tag: %w", err)
	}
	if q == nil {
		return nil
	}
	return q.Save(w)
}
