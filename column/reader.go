package column

import (
	"encoding/binary"

	"github.com/dnlrv/parqstream/compress"
	"github.com/dnlrv/parqstream/encoding/bytestreamsplit"
	"github.com/dnlrv/parqstream/encoding/delta"
	"github.com/dnlrv/parqstream/encoding/dict"
	"github.com/dnlrv/parqstream/encoding/plain"
	"github.com/dnlrv/parqstream/encoding/rle"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
)

// DecodePage decodes a PageInfo into a typed Page, given the leaf's
// max_def/max_rep (the column schema the page belongs to).
func DecodePage(info PageInfo, maxDef, maxRep int) (Page, error) {
	header := info.Header
	meta := info.ColumnMeta
	body := info.Bytes[info.HeaderSize:]

	var repLevels, defLevels []int32
	var valuesBytes []byte
	var numValues int
	var encoding format.Encoding
	var numNulls = -1 // -1 means "derive from defLevels" (V1)

	switch header.Type {
	case format.DataPage:
		dph := header.DataPageHeader
		if dph == nil {
			return nil, parqerr.New(parqerr.MalformedFile, "DATA_PAGE missing data_page_header")
		}
		numValues = int(dph.NumValues)
		encoding = dph.Encoding

		full, err := compress.Decompress(meta.Codec, body, int(header.UncompressedPageSize))
		if err != nil {
			return nil, err
		}
		pos := 0
		if maxRep > 0 {
			levels, n, err := readLengthPrefixedLevels(full[pos:], numValues, maxRep)
			if err != nil {
				return nil, err
			}
			repLevels = levels
			pos += n
		}
		if maxDef > 0 {
			levels, n, err := readLengthPrefixedLevels(full[pos:], numValues, maxDef)
			if err != nil {
				return nil, err
			}
			defLevels = levels
			pos += n
		}
		valuesBytes = full[pos:]

	case format.DataPageV2:
		dph2 := header.DataPageHeaderV2
		if dph2 == nil {
			return nil, parqerr.New(parqerr.MalformedFile, "DATA_PAGE_V2 missing data_page_header_v2")
		}
		numValues = int(dph2.NumValues)
		numNulls = int(dph2.NumNulls)
		encoding = dph2.Encoding

		repLen := int(dph2.RepetitionLevelsByteLength)
		defLen := int(dph2.DefinitionLevelsByteLength)
		if repLen+defLen > len(body) {
			return nil, parqerr.New(parqerr.MalformedFile, "DATA_PAGE_V2 level lengths exceed page body")
		}
		repBytes := body[:repLen]
		defBytes := body[repLen : repLen+defLen]
		valuesRaw := body[repLen+defLen:]

		if dph2.IsCompressed && len(valuesRaw) > 0 {
			uncompSize := int(header.UncompressedPageSize) - repLen - defLen
			decoded, err := compress.Decompress(meta.Codec, valuesRaw, uncompSize)
			if err != nil {
				return nil, err
			}
			valuesBytes = decoded
		} else {
			valuesBytes = valuesRaw
		}

		if maxRep > 0 {
			repLevels = make([]int32, numValues)
			if err := rle.NewHybridDecoder(repBytes, rle.BitWidthForMaxLevel(maxRep)).ReadInto(repLevels); err != nil {
				return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding repetition levels")
			}
		}
		if maxDef > 0 {
			defLevels = make([]int32, numValues)
			if err := rle.NewHybridDecoder(defBytes, rle.BitWidthForMaxLevel(maxDef)).ReadInto(defLevels); err != nil {
				return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding definition levels")
			}
		}

	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "page type %s is not a data page", header.Type)
	}

	positions, numNonNull := nonNullPositions(defLevels, maxDef, numValues, numNulls)

	meta_ := Meta{
		DefinitionLevels: defLevels,
		RepetitionLevels: repLevels,
		MaxDefLevel:      maxDef,
		MaxRepLevel:      maxRep,
		NumValues:        numValues,
	}

	return decodeValues(meta.Type, encoding, valuesBytes, info.TypeLength, info.Dictionary, positions, numNonNull, numValues, meta_)
}

// readLengthPrefixedLevels reads a DATA_PAGE-layout (V1) level section: a
// little-endian u32 byte length, then that many bytes of RLE-hybrid stream.
// Returns the decoded levels and the number of input bytes consumed
// (including the 4-byte prefix).
func readLengthPrefixedLevels(src []byte, numValues, maxLevel int) ([]int32, int, error) {
	if len(src) < 4 {
		return nil, 0, parqerr.New(parqerr.MalformedFile, "missing level stream length prefix")
	}
	length := int(binary.LittleEndian.Uint32(src))
	if length < 0 || 4+length > len(src) {
		return nil, 0, parqerr.New(parqerr.MalformedFile, "level stream length %d exceeds page body", length)
	}
	levels := make([]int32, numValues)
	bw := rle.BitWidthForMaxLevel(maxLevel)
	if err := rle.NewHybridDecoder(src[4:4+length], bw).ReadInto(levels); err != nil {
		return nil, 0, parqerr.Wrap(parqerr.MalformedFile, err, "decoding level stream")
	}
	return levels, 4 + length, nil
}

// nonNullPositions returns the indices within [0,numValues) whose
// definition level equals maxDef (i.e. carry a value on disk), and their
// count. When maxDef == 0 every position is non-null and positions is nil
// (meaning "identity"). For V1 and V2 pages alike the count is derived by
// scanning defLevels; numNullsHint (the V2 header's null count) is not used.
func nonNullPositions(defLevels []int32, maxDef, numValues, numNullsHint int) ([]int, int) {
	if maxDef == 0 {
		return nil, numValues
	}
	positions := make([]int, 0, numValues)
	for i, d := range defLevels {
		if int(d) == maxDef {
			positions = append(positions, i)
		}
	}
	_ = numNullsHint
	return positions, len(positions)
}

func decodeValues(physical format.Type, encoding format.Encoding, src []byte, typeLength int32, dictionary Dictionary, positions []int, numNonNull, numValues int, meta Meta) (Page, error) {
	switch physical {
	case format.Boolean:
		values, err := decodeBooleanValues(encoding, src, numNonNull)
		if err != nil {
			return nil, err
		}
		return &BooleanPage{Values: scatterBool(positions, values, numValues), M: meta}, nil

	case format.Int32:
		values, err := decodeInt32Values(encoding, src, numNonNull, dictionary)
		if err != nil {
			return nil, err
		}
		return &IntPage{Values: scatterInt32(positions, values, numValues), M: meta}, nil

	case format.Int64:
		values, err := decodeInt64Values(encoding, src, numNonNull, dictionary)
		if err != nil {
			return nil, err
		}
		return &LongPage{Values: scatterInt64(positions, values, numValues), M: meta}, nil

	case format.Float:
		values, err := decodeFloatValues(encoding, src, numNonNull, dictionary)
		if err != nil {
			return nil, err
		}
		return &FloatPage{Values: scatterFloat32(positions, values, numValues), M: meta}, nil

	case format.Double:
		values, err := decodeDoubleValues(encoding, src, numNonNull, dictionary)
		if err != nil {
			return nil, err
		}
		return &DoublePage{Values: scatterFloat64(positions, values, numValues), M: meta}, nil

	case format.ByteArray, format.FixedLenByteArray, format.Int96:
		width := int(typeLength)
		if physical == format.Int96 {
			width = 12
		}
		values, err := decodeByteArrayValues(physical, encoding, src, numNonNull, width, dictionary)
		if err != nil {
			return nil, err
		}
		return &ByteArrayPage{Values: scatterBytes(positions, values, numValues), PhysicalType: physical, M: meta}, nil

	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "physical type %s", physical)
	}
}

func decodeBooleanValues(encoding format.Encoding, src []byte, n int) ([]bool, error) {
	out := make([]bool, n)
	switch encoding {
	case format.Plain:
		if _, err := plain.DecodeBoolean(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding PLAIN boolean values")
		}
	case format.RLE:
		if _, err := rle.DecodeBoolean(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding RLE boolean values")
		}
	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "encoding %s for BOOLEAN", encoding)
	}
	return out, nil
}

func decodeInt32Values(encoding format.Encoding, src []byte, n int, dictionary Dictionary) ([]int32, error) {
	switch encoding {
	case format.Plain:
		out := make([]int32, n)
		if _, err := plain.DecodeInt32(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding PLAIN int32 values")
		}
		return out, nil
	case format.PlainDictionary, format.RLEDictionary:
		return decodeDictionaryInt32(src, n, dictionary)
	case format.DeltaBinaryPacked:
		dec, err := delta.NewBinaryPackedDecoder(src)
		if err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DELTA_BINARY_PACKED header")
		}
		out := make([]int32, n)
		if _, err := dec.DecodeInt32(out); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DELTA_BINARY_PACKED int32 values")
		}
		return out, nil
	case format.ByteStreamSplit:
		out := make([]int32, n)
		if err := bytestreamsplit.DecodeInt32(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding BYTE_STREAM_SPLIT int32 values")
		}
		return out, nil
	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "encoding %s for INT32", encoding)
	}
}

func decodeInt64Values(encoding format.Encoding, src []byte, n int, dictionary Dictionary) ([]int64, error) {
	switch encoding {
	case format.Plain:
		out := make([]int64, n)
		if _, err := plain.DecodeInt64(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding PLAIN int64 values")
		}
		return out, nil
	case format.PlainDictionary, format.RLEDictionary:
		return decodeDictionaryInt64(src, n, dictionary)
	case format.DeltaBinaryPacked:
		dec, err := delta.NewBinaryPackedDecoder(src)
		if err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DELTA_BINARY_PACKED header")
		}
		out := make([]int64, n)
		if _, err := dec.DecodeInt64(out); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DELTA_BINARY_PACKED int64 values")
		}
		return out, nil
	case format.ByteStreamSplit:
		out := make([]int64, n)
		if err := bytestreamsplit.DecodeInt64(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding BYTE_STREAM_SPLIT int64 values")
		}
		return out, nil
	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "encoding %s for INT64", encoding)
	}
}

func decodeFloatValues(encoding format.Encoding, src []byte, n int, dictionary Dictionary) ([]float32, error) {
	switch encoding {
	case format.Plain:
		out := make([]float32, n)
		if _, err := plain.DecodeFloat(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding PLAIN float values")
		}
		return out, nil
	case format.PlainDictionary, format.RLEDictionary:
		idx, err := decodeDictionaryIndices(src, n)
		if err != nil {
			return nil, err
		}
		fd, ok := dictionary.(*FloatDictionary)
		if !ok {
			return nil, parqerr.New(parqerr.MalformedFile, "dictionary type mismatch for FLOAT column")
		}
		out := make([]float32, n)
		for i, v := range idx {
			if int(v) < 0 || int(v) >= len(fd.Values) {
				return nil, parqerr.New(parqerr.MalformedFile, "dictionary index out of range")
			}
			out[i] = fd.Values[v]
		}
		return out, nil
	case format.ByteStreamSplit:
		out := make([]float32, n)
		if err := bytestreamsplit.DecodeFloat(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding BYTE_STREAM_SPLIT float values")
		}
		return out, nil
	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "encoding %s for FLOAT", encoding)
	}
}

func decodeDoubleValues(encoding format.Encoding, src []byte, n int, dictionary Dictionary) ([]float64, error) {
	switch encoding {
	case format.Plain:
		out := make([]float64, n)
		if _, err := plain.DecodeDouble(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding PLAIN double values")
		}
		return out, nil
	case format.PlainDictionary, format.RLEDictionary:
		idx, err := decodeDictionaryIndices(src, n)
		if err != nil {
			return nil, err
		}
		dd, ok := dictionary.(*DoubleDictionary)
		if !ok {
			return nil, parqerr.New(parqerr.MalformedFile, "dictionary type mismatch for DOUBLE column")
		}
		out := make([]float64, n)
		for i, v := range idx {
			if int(v) < 0 || int(v) >= len(dd.Values) {
				return nil, parqerr.New(parqerr.MalformedFile, "dictionary index out of range")
			}
			out[i] = dd.Values[v]
		}
		return out, nil
	case format.ByteStreamSplit:
		out := make([]float64, n)
		if err := bytestreamsplit.DecodeDouble(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding BYTE_STREAM_SPLIT double values")
		}
		return out, nil
	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "encoding %s for DOUBLE", encoding)
	}
}

func decodeByteArrayValues(physical format.Type, encoding format.Encoding, src []byte, n, width int, dictionary Dictionary) ([][]byte, error) {
	switch encoding {
	case format.Plain:
		out := make([][]byte, n)
		var err error
		if physical == format.ByteArray {
			_, err = plain.DecodeByteArray(out, src)
		} else {
			_, err = plain.DecodeFixedLenByteArray(out, src, width)
		}
		if err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding PLAIN byte array values")
		}
		return out, nil

	case format.PlainDictionary, format.RLEDictionary:
		idx, err := decodeDictionaryIndices(src, n)
		if err != nil {
			return nil, err
		}
		bd, ok := dictionary.(*ByteArrayDictionary)
		if !ok {
			return nil, parqerr.New(parqerr.MalformedFile, "dictionary type mismatch for byte-array column")
		}
		out := make([][]byte, n)
		for i, v := range idx {
			if int(v) < 0 || int(v) >= len(bd.Values) {
				return nil, parqerr.New(parqerr.MalformedFile, "dictionary index out of range")
			}
			out[i] = bd.Values[v]
		}
		return out, nil

	case format.DeltaLengthByteArray:
		out := make([][]byte, n)
		if _, err := delta.DecodeLengthByteArray(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DELTA_LENGTH_BYTE_ARRAY values")
		}
		return out, nil

	case format.DeltaByteArray:
		out := make([][]byte, n)
		if _, err := delta.DecodeByteArray(out, src); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DELTA_BYTE_ARRAY values")
		}
		return out, nil

	case format.ByteStreamSplit:
		if physical != format.FixedLenByteArray {
			return nil, parqerr.New(parqerr.UnsupportedFeature, "BYTE_STREAM_SPLIT for %s", physical)
		}
		out := make([][]byte, n)
		if err := bytestreamsplit.DecodeFixedLenByteArray(out, src, width); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding BYTE_STREAM_SPLIT fixed-width values")
		}
		return out, nil

	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "encoding %s for %s", encoding, physical)
	}
}

func decodeDictionaryIndices(src []byte, n int) ([]int32, error) {
	idx := make([]int32, n)
	if _, err := dict.DecodeIndices(idx, src); err != nil {
		return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding dictionary indices")
	}
	return idx, nil
}

func decodeDictionaryInt32(src []byte, n int, dictionary Dictionary) ([]int32, error) {
	idx, err := decodeDictionaryIndices(src, n)
	if err != nil {
		return nil, err
	}
	id, ok := dictionary.(*IntDictionary)
	if !ok {
		return nil, parqerr.New(parqerr.MalformedFile, "dictionary type mismatch for INT32 column")
	}
	out := make([]int32, n)
	for i, v := range idx {
		if int(v) < 0 || int(v) >= len(id.Values) {
			return nil, parqerr.New(parqerr.MalformedFile, "dictionary index out of range")
		}
		out[i] = id.Values[v]
	}
	return out, nil
}

func decodeDictionaryInt64(src []byte, n int, dictionary Dictionary) ([]int64, error) {
	idx, err := decodeDictionaryIndices(src, n)
	if err != nil {
		return nil, err
	}
	ld, ok := dictionary.(*LongDictionary)
	if !ok {
		return nil, parqerr.New(parqerr.MalformedFile, "dictionary type mismatch for INT64 column")
	}
	out := make([]int64, n)
	for i, v := range idx {
		if int(v) < 0 || int(v) >= len(ld.Values) {
			return nil, parqerr.New(parqerr.MalformedFile, "dictionary index out of range")
		}
		out[i] = ld.Values[v]
	}
	return out, nil
}

func scatterInt32(positions []int, values []int32, numValues int) []int32 {
	if positions == nil {
		return values
	}
	out := make([]int32, numValues)
	for i, p := range positions {
		out[p] = values[i]
	}
	return out
}

func scatterInt64(positions []int, values []int64, numValues int) []int64 {
	if positions == nil {
		return values
	}
	out := make([]int64, numValues)
	for i, p := range positions {
		out[p] = values[i]
	}
	return out
}

func scatterFloat32(positions []int, values []float32, numValues int) []float32 {
	if positions == nil {
		return values
	}
	out := make([]float32, numValues)
	for i, p := range positions {
		out[p] = values[i]
	}
	return out
}

func scatterFloat64(positions []int, values []float64, numValues int) []float64 {
	if positions == nil {
		return values
	}
	out := make([]float64, numValues)
	for i, p := range positions {
		out[p] = values[i]
	}
	return out
}

func scatterBool(positions []int, values []bool, numValues int) []bool {
	if positions == nil {
		return values
	}
	out := make([]bool, numValues)
	for i, p := range positions {
		out[p] = values[i]
	}
	return out
}

func scatterBytes(positions []int, values [][]byte, numValues int) [][]byte {
	if positions == nil {
		return values
	}
	out := make([][]byte, numValues)
	for i, p := range positions {
		out[p] = values[i]
	}
	return out
}
