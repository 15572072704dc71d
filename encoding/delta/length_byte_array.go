package delta

import "fmt"

// DecodeLengthByteArray decodes a DELTA_LENGTH_BYTE_ARRAY run: a
// DELTA_BINARY_PACKED run of lengths followed by the concatenated value
// bytes. The returned slices reference src (zero-copy).
func DecodeLengthByteArray(dst [][]byte, src []byte) (int, error) {
	lengths, err := NewBinaryPackedDecoder(src)
	if err != nil {
		return 0, fmt.Errorf("DELTA_LENGTH_BYTE_ARRAY: %w", err)
	}
	if lengths.TotalValues() < len(dst) {
		return 0, fmt.Errorf("DELTA_LENGTH_BYTE_ARRAY: only %d lengths for %d values", lengths.TotalValues(), len(dst))
	}

	off := lengths.Consumed()
	for i := range dst {
		n := int(lengths.Values()[i])
		if n < 0 || off+n > len(src) {
			return i, fmt.Errorf("DELTA_LENGTH_BYTE_ARRAY: value %d of length %d overruns input", i, n)
		}
		dst[i] = src[off : off+n]
		off += n
	}
	return off, nil
}
