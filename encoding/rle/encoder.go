package rle

import "github.com/dnlrv/parqstream/internal/bitutil"

// HybridEncoder writes the RLE/bit-pack hybrid wire format. It is only used
// to build test fixtures and to exercise the encode/decode round-trip
// property this package is tested against; the reader never writes Parquet.
type HybridEncoder struct {
	bitWidth int
	buf      []byte
}

// NewHybridEncoder returns an encoder at the given bit width.
func NewHybridEncoder(bitWidth int) *HybridEncoder {
	return &HybridEncoder{bitWidth: bitWidth}
}

// EncodeRLE appends a single RLE run of count copies of value.
func (e *HybridEncoder) EncodeRLE(value int32, count int) {
	e.buf = appendUvarint(e.buf, uint64(count)<<1)
	width := bitutil.ByteCount(uint(e.bitWidth))
	v := uint32(value)
	var b [4]byte
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
	e.buf = append(e.buf, b[:width]...)
}

// EncodeBitPacked appends one bit-packed run covering all of values, padding
// the final group with zeros if len(values) is not a multiple of 8.
func (e *HybridEncoder) EncodeBitPacked(values []int32) {
	groups := (len(values) + 7) / 8
	e.buf = appendUvarint(e.buf, uint64(groups)<<1|1)

	var bitBuf uint64
	var bitCnt uint
	flush := func() {
		for bitCnt >= 8 {
			e.buf = append(e.buf, byte(bitBuf))
			bitBuf >>= 8
			bitCnt -= 8
		}
	}
	for i := 0; i < groups*8; i++ {
		var v int32
		if i < len(values) {
			v = values[i]
		}
		bitBuf |= uint64(uint32(v)&((1<<uint(e.bitWidth))-1)) << bitCnt
		bitCnt += uint(e.bitWidth)
		flush()
	}
	for bitCnt > 0 {
		e.buf = append(e.buf, byte(bitBuf))
		bitBuf >>= 8
		if bitCnt >= 8 {
			bitCnt -= 8
		} else {
			bitCnt = 0
		}
	}
}

// Bytes returns the encoded stream built so far.
func (e *HybridEncoder) Bytes() []byte { return e.buf }

func appendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// EncodeAuto picks a reasonable mix of RLE/bit-packed runs to represent
// values; it greedily emits an RLE run for any repeat of 8 or more equal
// values and falls back to a single bit-packed run otherwise. This is not a
// compression-optimal encoder, only a correct one used for fixtures/tests.
func EncodeAuto(bitWidth int, values []int32) []byte {
	e := NewHybridEncoder(bitWidth)
	i := 0
	for i < len(values) {
		j := i + 1
		for j < len(values) && values[j] == values[i] {
			j++
		}
		if run := j - i; run >= 8 {
			e.EncodeRLE(values[i], run)
			i = j
			continue
		}
		// accumulate a bit-packed chunk until the next long repeat or EOF
		k := i
		for k < len(values) {
			j2 := k + 1
			for j2 < len(values) && values[j2] == values[k] {
				j2++
			}
			if j2-k >= 8 {
				break
			}
			k = j2
		}
		// only the stream's last bit-packed run may end in a padded group,
		// so a run followed by more values is widened to whole groups of 8
		if k < len(values) {
			k = i + (k-i+7)/8*8
			if k > len(values) {
				k = len(values)
			}
		}
		e.EncodeBitPacked(values[i:k])
		i = k
	}
	return e.Bytes()
}
