// Package sptag provides the core building blocks of a product-quantization
// (PQ) based approximate nearest-neighbor search engine.
//
// The module is organized leaf-first:
//
//   - distance: elementwise L2 and cosine kernels over codebook scalar types
//   - quantization: the PQ quantizer (codebooks, lookup tables, SDC/ADC
//     distance kernels, persistence)
//   - diskio: an asynchronous block reader for SSD-resident posting lists
//
// # Quick Start
//
//	// Wrap a trained codebook (M subspaces, K centroids, Dsub dims each).
//	pq, _ := quantization.NewPQQuantizer(4, 256, 32, false, codebook)
//
//	code := make([]byte, pq.CodeSize())
//	_ = pq.Quantize(vec, code)
//
//	d := pq.L2Distance(codeA, codeB) // table lookup, no raw vectors touched
//
// Index structures (KDT/BKT trees), metadata, and codebook training live in
// the surrounding system; this module only defines the interfaces they
// consume.
package sptag

// DimensionType is the on-wire integer kind for vector and subspace
// dimensions. Quantizer headers serialize dimensions in this width.
type DimensionType = int32

// SizeType is the on-wire integer kind for element counts such as the number
// of centroids per subspace.
type SizeType = int32
