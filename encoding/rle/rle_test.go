package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHybridRoundTripRLERun(t *testing.T) {
	enc := NewHybridEncoder(3)
	enc.EncodeRLE(5, 10)

	dec := NewHybridDecoder(enc.Bytes(), 3)
	out := make([]int32, 10)
	require.NoError(t, dec.ReadInto(out))
	for _, v := range out {
		require.Equal(t, int32(5), v)
	}
}

func TestHybridRoundTripBitPacked(t *testing.T) {
	values := []int32{0, 1, 2, 3, 2, 1, 0, 1, 2}
	enc := NewHybridEncoder(2)
	enc.EncodeBitPacked(values)

	dec := NewHybridDecoder(enc.Bytes(), 2)
	out := make([]int32, len(values))
	require.NoError(t, dec.ReadInto(out))
	require.Equal(t, values, out)
}

func TestHybridRoundTripAutoMixed(t *testing.T) {
	values := []int32{1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1, 2, 0, 1, 2, 0, 1, 2}
	data := EncodeAuto(2, values)

	dec := NewHybridDecoder(data, 2)
	out := make([]int32, len(values))
	require.NoError(t, dec.ReadInto(out))
	require.Equal(t, values, out)
}

func TestHybridZeroBitWidthReturnsZeros(t *testing.T) {
	dec := NewHybridDecoder(nil, 0)
	out := make([]int32, 5)
	require.NoError(t, dec.ReadInto(out))
	for _, v := range out {
		require.Equal(t, int32(0), v)
	}
}

func TestHybridTruncatedInputErrors(t *testing.T) {
	dec := NewHybridDecoder([]byte{0x03}, 3) // bit-packed header for one group of 8, but missing the packed bytes
	out := make([]int32, 1)
	require.Error(t, dec.ReadInto(out))
}

func TestDecodeBoolean(t *testing.T) {
	values := []int32{1, 0, 1, 1, 0, 0, 0, 1, 1}
	body := EncodeAuto(1, values)

	length := make([]byte, 4)
	length[0] = byte(len(body))
	length[1] = byte(len(body) >> 8)
	length[2] = byte(len(body) >> 16)
	length[3] = byte(len(body) >> 24)
	src := append(length, body...)

	dst := make([]bool, len(values))
	n, err := DecodeBoolean(dst, src)
	require.NoError(t, err)
	require.Equal(t, len(values), n)
	for i, v := range values {
		require.Equal(t, v != 0, dst[i])
	}
}

func TestDecodeBooleanMissingLengthPrefix(t *testing.T) {
	_, err := DecodeBoolean(make([]bool, 1), []byte{1, 2})
	require.Error(t, err)
}
