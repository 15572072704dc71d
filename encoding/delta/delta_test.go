package delta

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeBinaryPacked builds a single-miniblock-group DELTA_BINARY_PACKED run
// (block size 128, 4 mini-blocks of 32 values each) for the given values.
// It is a test-only encoder; the reader never writes Parquet.
func encodeBinaryPacked(values []int64) []byte {
	const blockSize = 128
	const numMiniBlocks = 4
	const miniBlockSize = blockSize / numMiniBlocks

	var buf []byte
	buf = appendUvarint(buf, blockSize)
	buf = appendUvarint(buf, numMiniBlocks)
	buf = appendUvarint(buf, uint64(len(values)))
	if len(values) == 0 {
		buf = appendZigZag(buf, 0)
		return buf
	}
	buf = appendZigZag(buf, values[0])

	deltas := make([]int64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		deltas = append(deltas, values[i]-values[i-1])
	}

	for off := 0; off < len(deltas) || off == 0; off += blockSize {
		end := off + blockSize
		if end > len(deltas) {
			end = len(deltas)
		}
		block := deltas[off:end]

		minDelta := int64(0)
		if len(block) > 0 {
			minDelta = block[0]
			for _, d := range block[1:] {
				if d < minDelta {
					minDelta = d
				}
			}
		}
		buf = appendZigZag(buf, minDelta)

		bitWidths := make([]byte, numMiniBlocks)
		for mb := 0; mb < numMiniBlocks; mb++ {
			start := mb * miniBlockSize
			if start >= len(block) {
				bitWidths[mb] = 0
				continue
			}
			mend := start + miniBlockSize
			if mend > len(block) {
				mend = len(block)
			}
			var max uint64
			for _, d := range block[start:mend] {
				v := uint64(d - minDelta)
				if v > max {
					max = v
				}
			}
			bitWidths[mb] = byte(bitsNeeded(max))
		}
		buf = append(buf, bitWidths...)

		for mb := 0; mb < numMiniBlocks; mb++ {
			bw := bitWidths[mb]
			start := mb * miniBlockSize
			var bitBuf uint64
			var bitCnt uint
			flush := func() {
				for bitCnt >= 8 {
					buf = append(buf, byte(bitBuf))
					bitBuf >>= 8
					bitCnt -= 8
				}
			}
			for i := 0; i < miniBlockSize; i++ {
				var v uint64
				if start+i < len(block) {
					v = uint64(block[start+i] - minDelta)
				}
				bitBuf |= (v & ((1 << uint(bw)) - 1)) << bitCnt
				bitCnt += uint(bw)
				flush()
			}
			for bitCnt > 0 {
				buf = append(buf, byte(bitBuf))
				bitBuf >>= 8
				if bitCnt >= 8 {
					bitCnt -= 8
				} else {
					bitCnt = 0
				}
			}
		}
		if end == len(deltas) {
			break
		}
	}
	return buf
}

func bitsNeeded(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

func appendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func appendZigZag(buf []byte, v int64) []byte {
	return appendUvarint(buf, uint64(v<<1)^uint64(v>>63))
}

func TestBinaryPackedDecoderRoundTrip(t *testing.T) {
	values := []int64{100, 101, 99, 150, 150, 150, 50, 1000}
	data := encodeBinaryPacked(values)

	dec, err := NewBinaryPackedDecoder(data)
	require.NoError(t, err)
	require.Equal(t, len(values), dec.TotalValues())
	require.Equal(t, values, dec.Values())

	dst := make([]int64, len(values))
	n, err := dec.DecodeInt64(dst)
	require.NoError(t, err)
	require.Equal(t, len(values), n)
	require.Equal(t, values, dst)
}

func TestBinaryPackedDecoderInt32Narrowing(t *testing.T) {
	values := []int64{1, 2, 3, 4}
	data := encodeBinaryPacked(values)

	dec, err := NewBinaryPackedDecoder(data)
	require.NoError(t, err)
	dst := make([]int32, len(values))
	_, err = dec.DecodeInt32(dst)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3, 4}, dst)
}

func TestBinaryPackedDecoderRejectsBadMiniBlockCount(t *testing.T) {
	var buf []byte
	buf = appendUvarint(buf, 128)
	buf = appendUvarint(buf, 0) // numMiniBlocks == 0
	buf = appendUvarint(buf, 1)
	buf = appendZigZag(buf, 0)
	_, err := NewBinaryPackedDecoder(buf)
	require.Error(t, err)
}

func TestDecodeLengthByteArray(t *testing.T) {
	values := [][]byte{[]byte("alice"), []byte(""), []byte("bob")}
	lengths := make([]int64, len(values))
	for i, v := range values {
		lengths[i] = int64(len(v))
	}
	buf := encodeBinaryPacked(lengths)
	for _, v := range values {
		buf = append(buf, v...)
	}

	dst := make([][]byte, len(values))
	_, err := DecodeLengthByteArray(dst, buf)
	require.NoError(t, err)
	require.Equal(t, values, dst)
}

func TestDecodeByteArrayDelta(t *testing.T) {
	// values share increasing prefixes so prefix-encoding actually exercises
	// the "previous" path rather than always being zero.
	values := [][]byte{[]byte("apple"), []byte("application"), []byte("apply")}
	prefixes := make([]int64, len(values))
	suffixes := make([]int64, len(values))
	var suffixBytes []byte
	var previous []byte
	for i, v := range values {
		p := 0
		for p < len(previous) && p < len(v) && previous[p] == v[p] {
			p++
		}
		prefixes[i] = int64(p)
		suffixes[i] = int64(len(v) - p)
		suffixBytes = append(suffixBytes, v[p:]...)
		previous = v
	}

	buf := encodeBinaryPacked(prefixes)
	buf = append(buf, encodeBinaryPacked(suffixes)...)
	buf = append(buf, suffixBytes...)

	dst := make([][]byte, len(values))
	_, err := DecodeByteArray(dst, buf)
	require.NoError(t, err)
	require.Equal(t, values, dst)
}
