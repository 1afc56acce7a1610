package quantization

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/PhilipBAdams/SPTAG/distance"
	"github.com/PhilipBAdams/SPTAG/internal/vmath"
)

// ADCTable is a per-query lookup table of 2*M*K float32s. The first M*K
// entries hold squared L2 distances from each query subvector to each
// centroid, indexed s*K + j; the next M*K hold cosine similarities with the
// same shape.
type ADCTable []float32

// NewADCTable allocates an ADC table sized for this quantizer.
func (pq *PQQuantizer[T]) NewADCTable() ADCTable {
	return make(ADCTable, 2*pq.numSubvectors*pq.ksPerSubvector)
}

// QuantizeADC fills table with per-centroid distances for the raw query.
// Unlike Quantize no centroid selection occurs; the table stands in for the
// query in subsequent ADC distance calls. The cosine half stores
// similarities computed with the cosine kernel.
func (pq *PQQuantizer[T]) QuantizeADC(raw []T, table ADCTable) error {
	m, k, d := pq.numSubvectors, pq.ksPerSubvector, pq.dimPerSubvector

	if len(raw) != pq.Dimension() {
		return &ErrDimensionMismatch{Expected: pq.Dimension(), Actual: len(raw)}
	}
	if len(table) < 2*m*k {
		return fmt.Errorf("%w: need %d table entries, got %d", ErrShortBuffer, 2*m*k, len(table))
	}

	for s := 0; s < m; s++ {
		sub := raw[s*d : (s+1)*d]
		base := s * k * d
		for j := 0; j < k; j++ {
			centroid := pq.codebooks[base+j*d : base+(j+1)*d]
			table[s*k+j] = vmath.SquaredL2(sub, centroid)
			table[m*k+s*k+j] = distance.CosineSimilarityFromDistance(vmath.CosineDistance(sub, centroid))
		}
	}

	return nil
}

// ADCL2Distance returns the asymmetric squared L2 distance between an
// ADC-encoded query table and an M-byte database code.
func (pq *PQQuantizer[T]) ADCL2Distance(table ADCTable, code []byte) float32 {
	m, k := pq.numSubvectors, pq.ksPerSubvector
	pq.checkADCCode(code)
	return vmath.AdcLookup(table[:m*k], code, m, k)
}

// ADCCosineDistance returns the asymmetric cosine distance between an
// ADC-encoded query table and an M-byte database code.
func (pq *PQQuantizer[T]) ADCCosineDistance(table ADCTable, code []byte) float32 {
	m, k := pq.numSubvectors, pq.ksPerSubvector
	pq.checkADCCode(code)
	return distance.DistanceFromCosineSimilarity(vmath.AdcLookup(table[m*k:2*m*k], code, m, k))
}

func (pq *PQQuantizer[T]) checkADCCode(code []byte) {
	m, k := pq.numSubvectors, pq.ksPerSubvector

	if len(code) < m {
		panic(fmt.Sprintf("quantization: code length %d, need %d", len(code), m))
	}
	if k == 256 {
		return
	}
	for s := 0; s < m; s++ {
		if int(code[s]) >= k {
			panic((&ErrCodeRange{Subvector: s, Code: code[s], Ks: k}).Error())
		}
	}
}

// adcSum reads the serialized table in x and sums the entry selected by
// y[s] in each subspace, starting at table offset half (0 for the L2 half,
// M*K for the cosine half). An aligned operand is summed through a direct
// float32 view; otherwise entries are decoded individually.
func adcSum(x, y []byte, m, k, half int) float32 {
	if t, ok := floatView(x); ok {
		return vmath.AdcLookup(t[half:], y, m, k)
	}

	var sum float32
	for s := 0; s < m; s++ {
		off := (half + s*k + int(y[s])) * 4
		sum += math.Float32frombits(binary.LittleEndian.Uint32(x[off:]))
	}
	return sum
}

// floatView reinterprets b as a float32 slice without copying.
// Little-endian is native on the supported targets, so the view matches the
// serialized layout. Returns false when b is not 4-byte aligned.
func floatView(b []byte) ([]float32, bool) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, false
	}
	ptr := unsafe.Pointer(&b[0])
	if uintptr(ptr)%unsafe.Alignof(float32(0)) != 0 {
		return nil, false
	}
	return unsafe.Slice((*float32)(ptr), len(b)/4), true
}

// putFloats serializes table into out as little-endian float32s.
func putFloats(out []byte, table []float32) {
	for i, v := range table {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
}
