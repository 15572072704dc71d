// Package bitutil implements the little-endian primitive reads, varint
// decoding and bit-packing primitives shared by the level decoder and the
// PLAIN/DELTA/BYTE_STREAM_SPLIT value decoders.
package bitutil

import (
	"encoding/binary"
	"fmt"
)

// ErrShortBuffer is returned when a read would need more bytes than remain
// in the input.
var ErrShortBuffer = fmt.Errorf("bitutil: unexpected end of input")

// ByteCount returns the number of bytes needed to hold bitWidth bits.
func ByteCount(bitWidth uint) int { return int((bitWidth + 7) / 8) }

// ReadLE32 reads a strict little-endian uint32 from the front of b.
func ReadLE32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, ErrShortBuffer
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadLE64 reads a strict little-endian uint64 from the front of b.
func ReadLE64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, ErrShortBuffer
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Uvarint reads an unsigned varint (7 bits per byte, high bit = continuation)
// from the front of b, returning the decoded value and the number of bytes
// consumed. It never reads past len(b).
func Uvarint(b []byte) (value uint64, n int, err error) {
	for shift := uint(0); n < len(b) && shift < 64; shift += 7 {
		c := b[n]
		n++
		value |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return value, n, nil
		}
	}
	return 0, 0, fmt.Errorf("bitutil: truncated or oversized varint")
}

// ZigZagDecode64 decodes a zig-zag encoded signed 64-bit integer.
func ZigZagDecode64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// ZigZagVarint reads a zig-zag varint from the front of b.
func ZigZagVarint(b []byte) (value int64, n int, err error) {
	u, n, err := Uvarint(b)
	if err != nil {
		return 0, 0, err
	}
	return ZigZagDecode64(u), n, nil
}

// BitReader pulls fixed-width fields out of a byte slice, LSB-first within
// each byte, accumulating into a 64-bit word as described by the Parquet
// RLE/bit-pack hybrid and DELTA_BINARY_PACKED mini-block formats.
type BitReader struct {
	data   []byte
	pos    int  // byte offset of the next unread byte
	bitBuf uint64
	bitCnt uint // number of valid bits currently buffered in bitBuf
}

// NewBitReader creates a reader over b.
func NewBitReader(b []byte) *BitReader {
	return &BitReader{data: b}
}

// Reset rebinds the reader to a new byte slice.
func (r *BitReader) Reset(b []byte) {
	r.data, r.pos, r.bitBuf, r.bitCnt = b, 0, 0, 0
}

// BytesConsumed returns the number of whole bytes consumed so far, rounding
// up to include any byte a partially drained bit buffer still holds.
func (r *BitReader) BytesConsumed() int {
	if r.bitCnt == 0 {
		return r.pos
	}
	return r.pos - int(r.bitCnt/8)
}

func (r *BitReader) fill() {
	for r.bitCnt <= 56 && r.pos < len(r.data) {
		r.bitBuf |= uint64(r.data[r.pos]) << r.bitCnt
		r.bitCnt += 8
		r.pos++
	}
}

// ReadBits extracts width bits (0 <= width <= 57) from the stream. It
// returns ErrShortBuffer if the stream does not contain enough bits.
func (r *BitReader) ReadBits(width uint) (uint64, error) {
	if width == 0 {
		return 0, nil
	}
	r.fill()
	if r.bitCnt < width {
		return 0, ErrShortBuffer
	}
	v := r.bitBuf & ((uint64(1) << width) - 1)
	r.bitBuf >>= width
	r.bitCnt -= width
	return v, nil
}

// Unpack8 extracts 8 consecutive width-bit values from src (LSB-first) into
// dst, returning the number of whole bytes of src consumed. width must be in
// [1, 8]; callers needing wider fields fall back to ReadBits.
func Unpack8(dst []int32, src []byte, width uint) int {
	var r BitReader
	r.Reset(src)
	for i := 0; i < 8; i++ {
		v, err := r.ReadBits(width)
		if err != nil {
			break
		}
		dst[i] = int32(v)
	}
	return ByteCount(width * 8)
}
