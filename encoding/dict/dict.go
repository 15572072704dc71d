// Package dict decodes RLE_DICTIONARY/PLAIN_DICTIONARY-encoded index
// streams: a one-byte bit width followed by an RLE/bit-pack hybrid stream.
package dict

import (
	"fmt"

	"github.com/dnlrv/parqstream/encoding/rle"
)

// DecodeIndices decodes count dictionary indices from src into dst.
func DecodeIndices(dst []int32, src []byte) (int, error) {
	if len(src) < 1 {
		return 0, fmt.Errorf("dict: missing bit-width byte")
	}
	bitWidth := int(src[0])
	if bitWidth > 32 {
		return 0, fmt.Errorf("dict: bit width %d exceeds 32", bitWidth)
	}
	dec := rle.NewHybridDecoder(src[1:], bitWidth)
	if err := dec.ReadInto(dst); err != nil {
		return 0, fmt.Errorf("dict: decoding indices: %w", err)
	}
	return len(dst), nil
}
