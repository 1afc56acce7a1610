package quantization

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/PhilipBAdams/SPTAG/distance"
	"github.com/PhilipBAdams/SPTAG/internal/mem"
	"github.com/PhilipBAdams/SPTAG/internal/vmath"
)

// PQQuantizer is a product quantizer over codebooks of element kind T.
//
// The codebook buffer is owned exclusively by the quantizer and immutable
// after construction. Both inter-centroid distance tables are built before
// the constructor or loader returns, so a reachable quantizer is always
// fully consistent.
//
// After construction the quantizer is read-only aside from SetEnableADC, so
// encode and distance calls may run concurrently from many goroutines as
// long as the ADC flag is not toggled mid-call.
type PQQuantizer[T Scalar] struct {
	numSubvectors   int // M
	ksPerSubvector  int // K, at most 256 so a code fits in one byte
	dimPerSubvector int // Dsub

	enableADC bool

	codebooks []T // M * K * Dsub, centroid c of subspace s at (s*K + c) * Dsub

	// Flat M*K*K lookup tables indexed s*K*K + j*K + k. l2Table holds
	// squared L2 between centroid pairs; cosineTable holds cosine
	// similarities (converted back to a distance after summation).
	l2Table     []float32
	cosineTable []float32

	logger *slog.Logger
}

type options struct {
	logger *slog.Logger
}

// Option configures quantizer construction and loading.
type Option func(*options)

// WithLogger sets the logger used for save/load progress lines.
// If nil is passed, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.Default()
		}
		o.logger = l
	}
}

func applyOptions(optFns []Option) options {
	o := options{logger: slog.Default()}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// NewPQQuantizer creates a quantizer from a pre-trained codebook, taking
// ownership of the buffer. codebooks must hold exactly
// numSubvectors * ksPerSubvector * dimPerSubvector elements, row-major.
// Both distance tables are built before returning.
func NewPQQuantizer[T Scalar](numSubvectors, ksPerSubvector, dimPerSubvector int, enableADC bool, codebooks []T, optFns ...Option) (*PQQuantizer[T], error) {
	if numSubvectors < 1 || dimPerSubvector < 1 || ksPerSubvector < 1 || ksPerSubvector > 256 {
		return nil, &ErrInvalidDimensions{
			NumSubvectors:   numSubvectors,
			KsPerSubvector:  ksPerSubvector,
			DimPerSubvector: dimPerSubvector,
		}
	}

	if want := numSubvectors * ksPerSubvector * dimPerSubvector; len(codebooks) != want {
		return nil, &ErrCodebookSize{Expected: want, Actual: len(codebooks)}
	}

	o := applyOptions(optFns)

	pq := &PQQuantizer[T]{
		numSubvectors:   numSubvectors,
		ksPerSubvector:  ksPerSubvector,
		dimPerSubvector: dimPerSubvector,
		enableADC:       enableADC,
		codebooks:       codebooks,
		logger:          o.logger,
	}
	pq.buildDistanceTables()

	return pq, nil
}

// buildDistanceTables fills both M*K*K tables from the codebook, one
// subspace per task. Entries are mirrored across the diagonal so only the
// upper triangle is computed.
func (pq *PQQuantizer[T]) buildDistanceTables() {
	m, k, d := pq.numSubvectors, pq.ksPerSubvector, pq.dimPerSubvector

	pq.l2Table = mem.AllocAlignedFloat32(m * k * k)
	pq.cosineTable = mem.AllocAlignedFloat32(m * k * k)

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for s := 0; s < m; s++ {
		s := s
		g.Go(func() error {
			base := s * k * d
			tbase := s * k * k
			for j := 0; j < k; j++ {
				cj := pq.codebooks[base+j*d : base+(j+1)*d]
				for l := j; l < k; l++ {
					cl := pq.codebooks[base+l*d : base+(l+1)*d]

					l2 := vmath.SquaredL2(cj, cl)
					pq.l2Table[tbase+j*k+l] = l2
					pq.l2Table[tbase+l*k+j] = l2

					cos := distance.CosineSimilarityFromDistance(vmath.CosineDistance(cj, cl))
					pq.cosineTable[tbase+j*k+l] = cos
					pq.cosineTable[tbase+l*k+j] = cos
				}
			}
			return nil
		})
	}

	_ = g.Wait()
}

// QuantizerType implements Quantizer.
func (pq *PQQuantizer[T]) QuantizerType() QuantizerType { return QuantizerPQ }

// VectorType implements Quantizer.
func (pq *PQQuantizer[T]) VectorType() VectorType { return vectorTypeOf[T]() }

// NumSubvectors returns M.
func (pq *PQQuantizer[T]) NumSubvectors() int { return pq.numSubvectors }

// KsPerSubvector returns K, the number of centroids per subspace.
func (pq *PQQuantizer[T]) KsPerSubvector() int { return pq.ksPerSubvector }

// DimPerSubvector returns Dsub.
func (pq *PQQuantizer[T]) DimPerSubvector() int { return pq.dimPerSubvector }

// Dimension returns D = M * Dsub.
func (pq *PQQuantizer[T]) Dimension() int { return pq.numSubvectors * pq.dimPerSubvector }

// EnableADC reports whether encodings are interpreted asymmetrically.
func (pq *PQQuantizer[T]) EnableADC() bool { return pq.enableADC }

// SetEnableADC switches between symmetric and asymmetric interpretation of
// encode outputs and distance operands. Toggling must be externally
// synchronized with in-flight encode and distance calls.
func (pq *PQQuantizer[T]) SetEnableADC(enable bool) { pq.enableADC = enable }

// CodeSize returns the byte length of one encoding: M bytes in SDC mode,
// 2*M*K float32s in ADC mode.
func (pq *PQQuantizer[T]) CodeSize() int {
	if pq.enableADC {
		return 2 * pq.numSubvectors * pq.ksPerSubvector * 4
	}
	return pq.numSubvectors
}

// BufferSize returns the serialized size of the quantizer in bytes.
func (pq *PQQuantizer[T]) BufferSize() uint64 {
	var zero T
	elem := uint64(len(pq.codebooks)) * uint64(elementSize(zero))
	return headerSize + elem
}

// Quantize encodes a raw vector of length Dimension() into out, which must
// hold at least CodeSize() bytes. In SDC mode it writes the index of the
// nearest centroid (squared L2, first minimum wins) for each subspace. In
// ADC mode it writes the per-query lookup table as little-endian float32s.
func (pq *PQQuantizer[T]) Quantize(raw []T, out []byte) error {
	if len(raw) != pq.Dimension() {
		return &ErrDimensionMismatch{Expected: pq.Dimension(), Actual: len(raw)}
	}
	if len(out) < pq.CodeSize() {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrShortBuffer, pq.CodeSize(), len(out))
	}

	if pq.enableADC {
		table := pq.NewADCTable()
		if err := pq.QuantizeADC(raw, table); err != nil {
			return err
		}
		putFloats(out, table)
		return nil
	}

	return pq.quantizeSDC(raw, out)
}

func (pq *PQQuantizer[T]) quantizeSDC(raw []T, out []byte) error {
	m, k, d := pq.numSubvectors, pq.ksPerSubvector, pq.dimPerSubvector

	for s := 0; s < m; s++ {
		sub := raw[s*d : (s+1)*d]
		base := s * k * d

		bestIndex := -1
		minDist := float32(math.Inf(1))
		for j := 0; j < k; j++ {
			dist := vmath.SquaredL2(sub, pq.codebooks[base+j*d:base+(j+1)*d])
			if dist < minDist {
				minDist = dist
				bestIndex = j
			}
		}
		if bestIndex < 0 {
			return fmt.Errorf("%w: subvector %d", ErrNoFiniteCentroid, s)
		}
		out[s] = byte(bestIndex)
	}

	return nil
}

// Reconstruct writes the centroid concatenation selected by code into out,
// which must hold at least Dimension() elements.
func (pq *PQQuantizer[T]) Reconstruct(code []byte, out []T) error {
	m, k, d := pq.numSubvectors, pq.ksPerSubvector, pq.dimPerSubvector

	if len(code) < m {
		return &ErrDimensionMismatch{Expected: m, Actual: len(code)}
	}
	if len(out) < pq.Dimension() {
		return fmt.Errorf("%w: need %d elements, got %d", ErrShortBuffer, pq.Dimension(), len(out))
	}

	for s := 0; s < m; s++ {
		c := int(code[s])
		if c >= k {
			return &ErrCodeRange{Subvector: s, Code: code[s], Ks: k}
		}
		start := (s*k + c) * d
		copy(out[s*d:(s+1)*d], pq.codebooks[start:start+d])
	}

	return nil
}

// L2Distance returns the squared L2 distance between two encodings.
//
// In SDC mode both operands are M-byte codes. In ADC mode x must be the
// ADC-encoded query (the asymmetry of the argument order is part of the
// contract) and y an M-byte code.
func (pq *PQQuantizer[T]) L2Distance(x, y []byte) float32 {
	if pq.enableADC {
		pq.checkADCOperands(x, y)
		return adcSum(x, y, pq.numSubvectors, pq.ksPerSubvector, 0)
	}

	pq.checkCodes(x, y)
	return vmath.SdcLookup(pq.l2Table, x, y, pq.numSubvectors, pq.ksPerSubvector)
}

// CosineDistance returns the cosine distance between two encodings in the
// library's convention. Operand rules match L2Distance.
func (pq *PQQuantizer[T]) CosineDistance(x, y []byte) float32 {
	m, k := pq.numSubvectors, pq.ksPerSubvector

	if pq.enableADC {
		pq.checkADCOperands(x, y)
		return distance.DistanceFromCosineSimilarity(adcSum(x, y, m, k, m*k))
	}

	pq.checkCodes(x, y)
	return distance.DistanceFromCosineSimilarity(vmath.SdcLookup(pq.cosineTable, x, y, m, k))
}

// checkCodes validates SDC operands. Violations are programming errors.
func (pq *PQQuantizer[T]) checkCodes(x, y []byte) {
	m, k := pq.numSubvectors, pq.ksPerSubvector

	if len(x) < m || len(y) < m {
		panic(fmt.Sprintf("quantization: code length %d/%d, need %d", len(x), len(y), m))
	}
	if k == 256 {
		return // every byte is a valid centroid index
	}
	for s := 0; s < m; s++ {
		if int(x[s]) >= k {
			panic((&ErrCodeRange{Subvector: s, Code: x[s], Ks: k}).Error())
		}
		if int(y[s]) >= k {
			panic((&ErrCodeRange{Subvector: s, Code: y[s], Ks: k}).Error())
		}
	}
}

func (pq *PQQuantizer[T]) checkADCOperands(x, y []byte) {
	m, k := pq.numSubvectors, pq.ksPerSubvector

	if len(x) < 2*m*k*4 {
		panic(fmt.Sprintf("quantization: ADC table operand holds %d bytes, need %d", len(x), 2*m*k*4))
	}
	if len(y) < m {
		panic(fmt.Sprintf("quantization: code length %d, need %d", len(y), m))
	}
	if k == 256 {
		return
	}
	for s := 0; s < m; s++ {
		if int(y[s]) >= k {
			panic((&ErrCodeRange{Subvector: s, Code: y[s], Ks: k}).Error())
		}
	}
}
