package plain

import (
	"encoding/binary"
	"math"
)

// The Encode* helpers below append PLAIN-encoded values to buf and return
// the grown slice. They exist only to build test fixtures; the reader never
// writes Parquet.

func EncodeBoolean(buf []byte, values []bool) []byte {
	n := (len(values) + 7) / 8
	start := len(buf)
	buf = append(buf, make([]byte, n)...)
	for i, v := range values {
		if v {
			buf[start+i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}

func EncodeInt32(buf []byte, values []int32) []byte {
	var b [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		buf = append(buf, b[:]...)
	}
	return buf
}

func EncodeInt64(buf []byte, values []int64) []byte {
	var b [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(b[:], uint64(v))
		buf = append(buf, b[:]...)
	}
	return buf
}

func EncodeFloat(buf []byte, values []float32) []byte {
	var b [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf = append(buf, b[:]...)
	}
	return buf
}

func EncodeDouble(buf []byte, values []float64) []byte {
	var b [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		buf = append(buf, b[:]...)
	}
	return buf
}

func EncodeByteArray(buf []byte, values [][]byte) []byte {
	var b [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(b[:], uint32(len(v)))
		buf = append(buf, b[:]...)
		buf = append(buf, v...)
	}
	return buf
}

func EncodeFixedLenByteArray(buf []byte, values [][]byte) []byte {
	for _, v := range values {
		buf = append(buf, v...)
	}
	return buf
}
