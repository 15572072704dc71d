// Package bytestreamsplit implements Parquet's BYTE_STREAM_SPLIT encoding:
// for a W-byte-wide primitive, the input is W equal-length streams (byte 0
// of every value, then byte 1 of every value, and so on).
package bytestreamsplit

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Decode splits src into width equal streams and reassembles count values of
// width bytes each into dst (count*width bytes). It is the shared primitive
// behind DecodeFloat/DecodeDouble/DecodeInt32/DecodeInt64/
// DecodeFixedLenByteArray, all of which differ only in width.
func Decode(dst []byte, src []byte, count, width int) error {
	if len(src) < count*width {
		return fmt.Errorf("bytestreamsplit: short input for %d values of width %d", count, width)
	}
	if len(dst) < count*width {
		return fmt.Errorf("bytestreamsplit: output buffer too small for %d values of width %d", count, width)
	}
	for i := 0; i < count; i++ {
		for b := 0; b < width; b++ {
			dst[i*width+b] = src[b*count+i]
		}
	}
	return nil
}

func DecodeFloat(dst []float32, src []byte) error {
	buf := make([]byte, len(dst)*4)
	if err := Decode(buf, src, len(dst), 4); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return nil
}

func DecodeDouble(dst []float64, src []byte) error {
	buf := make([]byte, len(dst)*8)
	if err := Decode(buf, src, len(dst), 8); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return nil
}

func DecodeInt32(dst []int32, src []byte) error {
	buf := make([]byte, len(dst)*4)
	if err := Decode(buf, src, len(dst), 4); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return nil
}

func DecodeInt64(dst []int64, src []byte) error {
	buf := make([]byte, len(dst)*8)
	if err := Decode(buf, src, len(dst), 8); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int64(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return nil
}

// DecodeFixedLenByteArray reassembles count values of typeLength bytes each
// from src, writing each value (zero-copy into a freshly allocated backing
// array since BYTE_STREAM_SPLIT interleaves bytes across the whole page) as
// a slice into dst.
func DecodeFixedLenByteArray(dst [][]byte, src []byte, typeLength int) error {
	buf := make([]byte, len(dst)*typeLength)
	if err := Decode(buf, src, len(dst), typeLength); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = buf[i*typeLength : (i+1)*typeLength]
	}
	return nil
}
