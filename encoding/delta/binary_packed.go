// Package delta implements Parquet's DELTA_BINARY_PACKED,
// DELTA_LENGTH_BYTE_ARRAY and DELTA_BYTE_ARRAY encodings.
package delta

import (
	"fmt"

	"github.com/dnlrv/parqstream/internal/bitutil"
)

// BinaryPackedDecoder decodes an entire DELTA_BINARY_PACKED run eagerly into
// an int64 buffer at construction time; INT32 columns narrow on read.
type BinaryPackedDecoder struct {
	values   []int64
	consumed int
}

// NewBinaryPackedDecoder parses the header and every block of the run
// starting at the front of data.
func NewBinaryPackedDecoder(data []byte) (*BinaryPackedDecoder, error) {
	pos := 0

	blockSize, n, err := bitutil.Uvarint(data[pos:])
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading block size: %w", err)
	}
	pos += n

	numMiniBlocks, n, err := bitutil.Uvarint(data[pos:])
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading mini-block count: %w", err)
	}
	pos += n

	totalValues, n, err := bitutil.Uvarint(data[pos:])
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading total value count: %w", err)
	}
	pos += n

	firstValue, n, err := bitutil.ZigZagVarint(data[pos:])
	if err != nil {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading first value: %w", err)
	}
	pos += n

	if numMiniBlocks == 0 {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: invalid mini-block count 0")
	}
	if blockSize == 0 || blockSize%128 != 0 {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: block size %d is not a positive multiple of 128", blockSize)
	}
	miniBlockSize := blockSize / numMiniBlocks
	if miniBlockSize == 0 || miniBlockSize%32 != 0 {
		return nil, fmt.Errorf("DELTA_BINARY_PACKED: mini-block size %d is not a positive multiple of 32", miniBlockSize)
	}

	values := make([]int64, 0, totalValues)
	if totalValues > 0 {
		values = append(values, firstValue)
	}
	last := firstValue

	bitWidths := make([]byte, numMiniBlocks)
	for uint64(len(values)) < totalValues {
		minDelta, n, err := bitutil.ZigZagVarint(data[pos:])
		if err != nil {
			return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading min delta: %w", err)
		}
		pos += n

		if pos+int(numMiniBlocks) > len(data) {
			return nil, fmt.Errorf("DELTA_BINARY_PACKED: truncated bit-width array")
		}
		copy(bitWidths, data[pos:pos+int(numMiniBlocks)])
		pos += int(numMiniBlocks)

		for _, bw := range bitWidths {
			remain := int(totalValues) - len(values)
			if remain <= 0 {
				break
			}
			count := int(miniBlockSize)
			if count > remain {
				count = remain
			}
			if bw == 0 {
				for i := 0; i < count; i++ {
					last += minDelta
					values = append(values, last)
				}
				// a zero-width mini-block still occupies its full width in
				// the bit-packed layout conceptually, but consumes no bytes.
				continue
			}
			r := bitutil.NewBitReader(data[pos:])
			consumedBits := 0
			for i := 0; i < int(miniBlockSize); i++ {
				v, err := r.ReadBits(uint(bw))
				if err != nil {
					return nil, fmt.Errorf("DELTA_BINARY_PACKED: reading mini-block value: %w", err)
				}
				consumedBits += int(bw)
				if i < count {
					last += minDelta + int64(v)
					values = append(values, last)
				}
			}
			pos += bitutil.ByteCount(uint(consumedBits))
		}
	}

	return &BinaryPackedDecoder{values: values, consumed: pos}, nil
}

// TotalValues returns the declared total number of encoded values.
func (d *BinaryPackedDecoder) TotalValues() int { return len(d.values) }

// Consumed returns the number of bytes of the input slice the run occupied.
func (d *BinaryPackedDecoder) Consumed() int { return d.consumed }

// Values returns the fully decoded int64 values.
func (d *BinaryPackedDecoder) Values() []int64 { return d.values }

// DecodeInt32 copies the decoded values (narrowed to int32) into dst.
func (d *BinaryPackedDecoder) DecodeInt32(dst []int32) (int, error) {
	n := len(dst)
	if n > len(d.values) {
		n = len(d.values)
	}
	for i := 0; i < n; i++ {
		dst[i] = int32(d.values[i])
	}
	return n, nil
}

// DecodeInt64 copies the decoded values into dst.
func (d *BinaryPackedDecoder) DecodeInt64(dst []int64) (int, error) {
	n := copy(dst, d.values)
	return n, nil
}
