// Package quantization provides the product-quantization (PQ) core: a
// quantizer that owns pre-trained codebooks, encodes raw vectors into
// compact byte codes, and answers distance queries between encodings via
// precomputed lookup tables.
//
// # Data Model
//
// A PQ quantizer partitions a D-dimensional space into M contiguous
// subspaces of Dsub = D/M dimensions and stores K centroids per subspace in
// one dense row-major buffer. A compressed vector is M bytes, one centroid
// index per subspace (K <= 256).
//
// # Distance Modes
//
// Symmetric distance (SDC) sums inter-centroid table entries for two codes:
//
//	pq, _ := quantization.NewPQQuantizer(8, 256, 16, false, codebook)
//	code := make([]byte, pq.CodeSize())
//	_ = pq.Quantize(vec, code)
//	d := pq.L2Distance(codeA, codeB)
//
// Asymmetric distance (ADC) replaces the query's code with a per-query
// table of distances to every centroid, so database codes are compared
// against the raw query without re-quantizing it:
//
//	table := pq.NewADCTable()
//	_ = pq.QuantizeADC(query, table)
//	d := pq.ADCL2Distance(table, code)
//
// When the EnableADC flag is set, the byte-level Quantize/L2Distance
// surface switches to the same asymmetric interpretation: encode emits the
// table's float32s little-endian and the left distance operand is read back
// as that table.
//
// # Persistence
//
// Save writes a fixed little-endian header (M, K, Dsub as int32) followed
// by the raw codebook; Load reads it back and rebuilds both lookup tables
// before returning. The element kind and quantizer kind travel out-of-band
// as VectorType and QuantizerType tags carried by the wrapping container.
package quantization
