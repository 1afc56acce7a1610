package vmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2Float32(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{2, 4, 6, 8}

	assert.InDelta(t, 1+4+9+16, SquaredL2(a, b), 1e-6)
	assert.Equal(t, float32(0), SquaredL2(a, a))
}

func TestSquaredL2Int8(t *testing.T) {
	a := []int8{-128, 0, 127}
	b := []int8{127, 0, -128}

	// Widened accumulation must not wrap: (255)^2 * 2 = 130050.
	assert.Equal(t, float32(130050), SquaredL2(a, b))
}

func TestSquaredL2Uint8(t *testing.T) {
	a := []uint8{0, 255}
	b := []uint8{255, 0}

	assert.Equal(t, float32(130050), SquaredL2(a, b))
}

func TestDot(t *testing.T) {
	assert.Equal(t, float32(1*2+2*4), Dot([]float32{1, 2}, []float32{2, 4}))
	assert.Equal(t, float32(-127*127), Dot([]int8{-127}, []int8{127}))
	assert.Equal(t, float32(255*255), Dot([]uint8{255}, []uint8{255}))
}

func TestCosineDistance(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}

	assert.InDelta(t, 1.0, CosineDistance(a, b), 1e-6)  // orthogonal
	assert.InDelta(t, 0.0, CosineDistance(a, a), 1e-6)  // identical
	assert.InDelta(t, 2.0, CosineDistance(a, []float32{-1, 0}), 1e-6)

	// Zero-norm input degrades to similarity 0.
	assert.Equal(t, float32(1), CosineDistance(a, []float32{0, 0}))
}

func TestAdcLookup(t *testing.T) {
	const m, k = 2, 4
	table := make([]float32, m*k)
	for i := range table {
		table[i] = float32(i)
	}

	// s=0 picks entry 1, s=1 picks entry 4+3=7.
	assert.Equal(t, float32(1+7), AdcLookup(table, []byte{1, 3}, m, k))
}

func TestSdcLookupMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, tc := range []struct{ m, k int }{
		{1, 2}, {3, 7}, {8, 16}, {13, 256}, {32, 256}, {50, 100},
	} {
		table := make([]float32, tc.m*tc.k*tc.k)
		for i := range table {
			table[i] = rng.Float32() * 100
		}

		for iter := 0; iter < 50; iter++ {
			x := make([]byte, tc.m)
			y := make([]byte, tc.m)
			for s := 0; s < tc.m; s++ {
				x[s] = byte(rng.Intn(tc.k))
				y[s] = byte(rng.Intn(tc.k))
			}

			want := SdcLookupScalar(table, x, y, tc.m, tc.k)
			got := SdcLookup(table, x, y, tc.m, tc.k)

			tol := math.Max(1e-5*math.Abs(float64(want)), 1e-6)
			require.InDelta(t, want, got, tol,
				"m=%d k=%d: vectorized %v vs scalar %v", tc.m, tc.k, got, want)
		}
	}
}

func TestSdcLookupEmpty(t *testing.T) {
	assert.Equal(t, float32(0), SdcLookup(nil, nil, nil, 0, 4))
}

func BenchmarkSdcLookup(b *testing.B) {
	const m, k = 32, 256
	rng := rand.New(rand.NewSource(1))
	table := make([]float32, m*k*k)
	for i := range table {
		table[i] = rng.Float32()
	}
	x := make([]byte, m)
	y := make([]byte, m)
	for s := 0; s < m; s++ {
		x[s] = byte(rng.Intn(k))
		y[s] = byte(rng.Intn(k))
	}

	b.Run("vectorized", func(b *testing.B) {
		var sink float32
		for i := 0; i < b.N; i++ {
			sink += SdcLookup(table, x, y, m, k)
		}
		_ = sink
	})
	b.Run("scalar", func(b *testing.B) {
		var sink float32
		for i := 0; i < b.N; i++ {
			sink += SdcLookupScalar(table, x, y, m, k)
		}
		_ = sink
	})
}

func TestCosineDistanceIntKinds(t *testing.T) {
	a := []uint8{3, 4}
	b := []uint8{3, 4}

	assert.InDelta(t, 0, CosineDistance(a, b), 1e-6)

	c := []int8{1, 0}
	d := []int8{1, 1}
	want := 1 - 1/float32(math.Sqrt(2))
	assert.InDelta(t, want, CosineDistance(c, d), 1e-6)
}
