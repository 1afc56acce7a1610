package quantization

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pq := randomQuantizer(t, 4, 8, 3, rng)

	var buf bytes.Buffer
	require.NoError(t, pq.Save(&buf))
	require.Equal(t, pq.BufferSize(), uint64(buf.Len()))

	loaded, err := LoadPQQuantizer[float32](&buf)
	require.NoError(t, err)

	assert.Equal(t, pq.NumSubvectors(), loaded.NumSubvectors())
	assert.Equal(t, pq.KsPerSubvector(), loaded.KsPerSubvector())
	assert.Equal(t, pq.DimPerSubvector(), loaded.DimPerSubvector())
	assert.False(t, loaded.EnableADC())

	for iter := 0; iter < 10; iter++ {
		a := randomCode(4, 8, rng)
		b := randomCode(4, 8, rng)
		require.Equal(t, pq.L2Distance(a, b), loaded.L2Distance(a, b))
		require.Equal(t, pq.CosineDistance(a, b), loaded.CosineDistance(a, b))
	}

	// Encoding agrees too.
	raw := make([]float32, pq.Dimension())
	for i := range raw {
		raw[i] = rng.Float32()
	}
	c1 := make([]byte, pq.CodeSize())
	c2 := make([]byte, loaded.CodeSize())
	require.NoError(t, pq.Quantize(raw, c1))
	require.NoError(t, loaded.Quantize(raw, c2))
	require.Equal(t, c1, c2)
}

func TestSaveLoadTinyWireFormat(t *testing.T) {
	pq := tinyQuantizer(t, false)

	var buf bytes.Buffer
	require.NoError(t, pq.Save(&buf))

	raw := buf.Bytes()
	require.Len(t, raw, 12+4*4*2)
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(raw[0:4])))   // M
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(raw[4:8])))   // K
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(raw[8:12])))  // Dsub
	assert.Equal(t, float32(1), fromBits(raw[12+2*4:]))                      // centroid (1,1) of subspace 0
}

func fromBits(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func TestLoadTruncated(t *testing.T) {
	pq := tinyQuantizer(t, false)

	var buf bytes.Buffer
	require.NoError(t, pq.Save(&buf))
	full := buf.Bytes()

	for _, cut := range []int{0, 4, 11, 12, 20, len(full) - 1} {
		_, err := LoadPQQuantizer[float32](bytes.NewReader(full[:cut]))
		require.ErrorIs(t, err, ErrCorruptQuantizer, "cut=%d", cut)
	}
}

func TestLoadBadHeader(t *testing.T) {
	headers := [][3]int32{
		{0, 2, 2},
		{2, 0, 2},
		{2, 2, 0},
		{2, 300, 2},
		{-1, 2, 2},
	}
	for _, h := range headers {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, h))
		_, err := LoadPQQuantizer[float32](&buf)
		require.ErrorIs(t, err, ErrCorruptQuantizer, "header=%v", h)
	}
}

func TestFactoryLoad(t *testing.T) {
	pq := tinyQuantizer(t, false)

	var buf bytes.Buffer
	require.NoError(t, pq.Save(&buf))

	q, err := Load(&buf, QuantizerPQ, VectorFloat32)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, QuantizerPQ, q.QuantizerType())
	assert.Equal(t, float32(10), q.L2Distance([]byte{0, 0}, []byte{1, 1}))
}

func TestFactoryNoneAndUnknown(t *testing.T) {
	q, err := Load(bytes.NewReader(nil), QuantizerNone, VectorFloat32)
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = Load(bytes.NewReader(nil), QuantizerType(99), VectorFloat32)
	var uq *ErrUnknownQuantizerType
	require.ErrorAs(t, err, &uq)

	_, err = Load(bytes.NewReader(nil), QuantizerPQ, VectorUndefined)
	var uv *ErrUnknownVectorType
	require.ErrorAs(t, err, &uv)
}

func TestSaveLoadTagged(t *testing.T) {
	pq := tinyQuantizer(t, false)

	var buf bytes.Buffer
	require.NoError(t, SaveTagged(&buf, pq))

	q, err := LoadTagged(&buf, VectorFloat32)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, float32(10), q.L2Distance([]byte{0, 0}, []byte{1, 1}))

	// Nil quantizer writes just the None tag.
	buf.Reset()
	require.NoError(t, SaveTagged(&buf, nil))
	assert.Equal(t, []byte{byte(QuantizerNone)}, buf.Bytes())

	q, err = LoadTagged(&buf, VectorFloat32)
	require.NoError(t, err)
	assert.Nil(t, q)

	// An empty stream is a corrupt tagged quantizer.
	_, err = LoadTagged(bytes.NewReader(nil), VectorFloat32)
	require.ErrorIs(t, err, ErrCorruptQuantizer)
}

func TestSaveLoadInt8RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	codebook := make([]int8, 2*4*3)
	for i := range codebook {
		codebook[i] = int8(rng.Intn(100) - 50)
	}
	pq, err := NewPQQuantizer(2, 4, 3, false, codebook)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pq.Save(&buf))
	require.Equal(t, 12+len(codebook), buf.Len())

	loaded, err := LoadPQQuantizer[int8](&buf)
	require.NoError(t, err)

	for iter := 0; iter < 10; iter++ {
		a := randomCode(2, 4, rng)
		b := randomCode(2, 4, rng)
		require.Equal(t, pq.L2Distance(a, b), loaded.L2Distance(a, b))
	}
}
