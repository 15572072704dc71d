package delta

import "fmt"

// DecodeByteArray decodes a DELTA_BYTE_ARRAY run: two DELTA_BINARY_PACKED
// runs (prefix lengths, then suffix lengths) followed by the concatenated
// suffix bytes. Each value is previous[0:prefix] + suffix; since later
// values may share a prefix with an earlier reconstructed value rather than
// the raw input, the output buffers are freshly allocated (not zero-copy).
func DecodeByteArray(dst [][]byte, src []byte) (int, error) {
	prefixes, err := NewBinaryPackedDecoder(src)
	if err != nil {
		return 0, fmt.Errorf("DELTA_BYTE_ARRAY: reading prefix lengths: %w", err)
	}
	off := prefixes.Consumed()

	suffixes, err := NewBinaryPackedDecoder(src[off:])
	if err != nil {
		return 0, fmt.Errorf("DELTA_BYTE_ARRAY: reading suffix lengths: %w", err)
	}
	off += suffixes.Consumed()

	if prefixes.TotalValues() < len(dst) || suffixes.TotalValues() < len(dst) {
		return 0, fmt.Errorf("DELTA_BYTE_ARRAY: insufficient prefix/suffix lengths for %d values", len(dst))
	}

	var previous []byte
	for i := range dst {
		prefixLen := int(prefixes.Values()[i])
		suffixLen := int(suffixes.Values()[i])
		if prefixLen < 0 || prefixLen > len(previous) {
			return i, fmt.Errorf("DELTA_BYTE_ARRAY: value %d has invalid prefix length %d", i, prefixLen)
		}
		if suffixLen < 0 || off+suffixLen > len(src) {
			return i, fmt.Errorf("DELTA_BYTE_ARRAY: value %d of suffix length %d overruns input", i, suffixLen)
		}
		value := make([]byte, prefixLen+suffixLen)
		copy(value, previous[:prefixLen])
		copy(value[prefixLen:], src[off:off+suffixLen])
		off += suffixLen
		dst[i] = value
		previous = value
	}
	return off, nil
}
