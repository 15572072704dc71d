// Package plain implements Parquet's PLAIN encoding: raw little-endian
// values for fixed-width types, length-prefixed values for BYTE_ARRAY, and
// LSB-first bit-packing for BOOLEAN.
package plain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dnlrv/parqstream/internal/bitutil"
)

// DecodeBoolean unpacks count boolean values (8 per byte, LSB-first) from
// src into dst.
func DecodeBoolean(dst []bool, src []byte) (int, error) {
	n := len(dst)
	need := (n + 7) / 8
	if len(src) < need {
		return 0, fmt.Errorf("plain: short input decoding %d booleans", n)
	}
	for i := 0; i < n; i++ {
		dst[i] = (src[i/8]>>(uint(i)%8))&1 != 0
	}
	return n, nil
}

// DecodeInt32 reads len(dst) little-endian int32 values from src.
func DecodeInt32(dst []int32, src []byte) (int, error) {
	if len(src) < len(dst)*4 {
		return 0, fmt.Errorf("plain: short input decoding %d int32 values", len(dst))
	}
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return len(dst), nil
}

// DecodeInt64 reads len(dst) little-endian int64 values from src.
func DecodeInt64(dst []int64, src []byte) (int, error) {
	if len(src) < len(dst)*8 {
		return 0, fmt.Errorf("plain: short input decoding %d int64 values", len(dst))
	}
	for i := range dst {
		dst[i] = int64(binary.LittleEndian.Uint64(src[i*8:]))
	}
	return len(dst), nil
}

// DecodeInt96 reads len(dst) 12-byte legacy INT96 values from src.
func DecodeInt96(dst [][12]byte, src []byte) (int, error) {
	if len(src) < len(dst)*12 {
		return 0, fmt.Errorf("plain: short input decoding %d int96 values", len(dst))
	}
	for i := range dst {
		copy(dst[i][:], src[i*12:i*12+12])
	}
	return len(dst), nil
}

// DecodeFloat reads len(dst) little-endian float32 values from src.
func DecodeFloat(dst []float32, src []byte) (int, error) {
	if len(src) < len(dst)*4 {
		return 0, fmt.Errorf("plain: short input decoding %d float values", len(dst))
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	return len(dst), nil
}

// DecodeDouble reads len(dst) little-endian float64 values from src.
func DecodeDouble(dst []float64, src []byte) (int, error) {
	if len(src) < len(dst)*8 {
		return 0, fmt.Errorf("plain: short input decoding %d double values", len(dst))
	}
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:]))
	}
	return len(dst), nil
}

// DecodeByteArray reads count length-prefixed byte arrays from src, returning
// the decoded slices (each referencing src, zero-copy) and the number of
// bytes of src consumed.
func DecodeByteArray(dst [][]byte, src []byte) (consumed int, err error) {
	off := 0
	for i := range dst {
		length, err := bitutil.ReadLE32(src[off:])
		if err != nil {
			return off, fmt.Errorf("plain: reading byte array length at value %d: %w", i, err)
		}
		off += 4
		if off+int(length) > len(src) {
			return off, fmt.Errorf("plain: byte array value %d of length %d overruns input", i, length)
		}
		dst[i] = src[off : off+int(length)]
		off += int(length)
	}
	return off, nil
}

// DecodeFixedLenByteArray slices count values of typeLength bytes each,
// zero-copy, out of src.
func DecodeFixedLenByteArray(dst [][]byte, src []byte, typeLength int) (int, error) {
	need := len(dst) * typeLength
	if len(src) < need {
		return 0, fmt.Errorf("plain: short input decoding %d fixed-length values of size %d", len(dst), typeLength)
	}
	for i := range dst {
		dst[i] = src[i*typeLength : (i+1)*typeLength]
	}
	return len(dst), nil
}
