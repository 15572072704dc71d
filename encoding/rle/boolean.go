package rle

import (
	"encoding/binary"
	"fmt"
)

// DecodeBoolean decodes the RLE-encoded boolean values used by the legacy
// BOOLEAN(RLE) data-page encoding: a 4-byte little-endian length prefix
// followed by an RLE/bit-pack hybrid stream at bit_width=1.
func DecodeBoolean(dst []bool, src []byte) (int, error) {
	if len(src) < 4 {
		return 0, fmt.Errorf("rle: missing boolean stream length prefix")
	}
	length := binary.LittleEndian.Uint32(src)
	if int(length) > len(src)-4 {
		return 0, fmt.Errorf("rle: boolean stream length %d exceeds input", length)
	}
	body := src[4 : 4+int(length)]

	ints := make([]int32, len(dst))
	dec := NewHybridDecoder(body, 1)
	if err := dec.ReadInto(ints); err != nil {
		return 0, fmt.Errorf("rle: decoding booleans: %w", err)
	}
	for i, v := range ints {
		dst[i] = v != 0
	}
	return len(dst), nil
}
