package plain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripBoolean(t *testing.T) {
	values := []bool{true, false, false, true, true, true, false, false, true}
	buf := EncodeBoolean(nil, values)

	dst := make([]bool, len(values))
	n, err := DecodeBoolean(dst, buf)
	require.NoError(t, err)
	require.Equal(t, len(values), n)
	require.Equal(t, values, dst)
}

func TestRoundTripInt32(t *testing.T) {
	values := []int32{0, 1, -1, 1 << 20, -(1 << 20)}
	buf := EncodeInt32(nil, values)

	dst := make([]int32, len(values))
	_, err := DecodeInt32(dst, buf)
	require.NoError(t, err)
	require.Equal(t, values, dst)
}

func TestRoundTripInt64(t *testing.T) {
	values := []int64{0, -1, 1 << 40}
	buf := EncodeInt64(nil, values)

	dst := make([]int64, len(values))
	_, err := DecodeInt64(dst, buf)
	require.NoError(t, err)
	require.Equal(t, values, dst)
}

func TestRoundTripFloatDouble(t *testing.T) {
	floats := []float32{0, 1.5, -3.25}
	buf := EncodeFloat(nil, floats)
	dstF := make([]float32, len(floats))
	_, err := DecodeFloat(dstF, buf)
	require.NoError(t, err)
	require.Equal(t, floats, dstF)

	doubles := []float64{0, 1.5, -3.25}
	buf2 := EncodeDouble(nil, doubles)
	dstD := make([]float64, len(doubles))
	_, err = DecodeDouble(dstD, buf2)
	require.NoError(t, err)
	require.Equal(t, doubles, dstD)
}

func TestRoundTripByteArray(t *testing.T) {
	values := [][]byte{[]byte("alice"), []byte(""), []byte("bob")}
	buf := EncodeByteArray(nil, values)

	dst := make([][]byte, len(values))
	consumed, err := DecodeByteArray(dst, buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), consumed)
	require.Equal(t, values, dst)
}

func TestDecodeByteArrayOverrunErrors(t *testing.T) {
	buf := EncodeByteArray(nil, [][]byte{[]byte("alice")})
	buf = buf[:len(buf)-1] // truncate the last byte
	dst := make([][]byte, 1)
	_, err := DecodeByteArray(dst, buf)
	require.Error(t, err)
}

func TestRoundTripFixedLenByteArray(t *testing.T) {
	values := [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}
	buf := EncodeFixedLenByteArray(nil, values)

	dst := make([][]byte, len(values))
	n, err := DecodeFixedLenByteArray(dst, buf, 4)
	require.NoError(t, err)
	require.Equal(t, len(values), n)
	require.Equal(t, values, dst)
}

func TestDecodeInt96(t *testing.T) {
	src := make([]byte, 24)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([][12]byte, 2)
	n, err := DecodeInt96(dst, src)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, byte(0), dst[0][0])
	require.Equal(t, byte(12), dst[1][0])
}
