package format

import (
	"fmt"

	"github.com/dnlrv/parqstream/internal/thrift"
)

// ReadFileMetaData decodes a Thrift compact-protocol FileMetaData struct
// (the Parquet footer body) from data.
func ReadFileMetaData(data []byte) (*FileMetaData, error) {
	r := thrift.NewReader(data)
	meta := &FileMetaData{}
	r.StructBegin()
	defer r.StructEnd()

	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, fmt.Errorf("thrift: reading FileMetaData field header: %w", err)
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			meta.Version = v
		case 2:
			meta.Schema, err = readSchemaElementList(r)
			if err != nil {
				return nil, fmt.Errorf("thrift: reading schema: %w", err)
			}
		case 3:
			meta.NumRows, err = r.ReadI64()
			if err != nil {
				return nil, err
			}
		case 4:
			meta.RowGroups, err = readRowGroupList(r)
			if err != nil {
				return nil, fmt.Errorf("thrift: reading row groups: %w", err)
			}
		case 5:
			meta.KeyValueMetadata, err = readKeyValueList(r)
			if err != nil {
				return nil, err
			}
		case 6:
			s, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			meta.CreatedBy = &s
		default:
			if err := r.SkipField(fh.Type); err != nil {
				return nil, err
			}
		}
	}
	return meta, nil
}

// ReadPageHeader decodes a Thrift compact-protocol PageHeader struct from
// the front of data, returning the header and the number of bytes consumed.
func ReadPageHeader(data []byte) (*PageHeader, int, error) {
	r := thrift.NewReader(data)
	h := &PageHeader{}
	r.StructBegin()
	defer r.StructEnd()

	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, 0, fmt.Errorf("thrift: reading PageHeader field header: %w", err)
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return nil, 0, err
			}
			h.Type = PageType(v)
		case 2:
			h.UncompressedPageSize, err = r.ReadI32()
			if err != nil {
				return nil, 0, err
			}
		case 3:
			h.CompressedPageSize, err = r.ReadI32()
			if err != nil {
				return nil, 0, err
			}
		case 4: // crc, pass-through, not verified
			if _, err := r.ReadI32(); err != nil {
				return nil, 0, err
			}
		case 5:
			h.DataPageHeader, err = readDataPageHeader(r)
		case 6: // index_page_header: empty struct, Non-goal
			if err := r.SkipField(12); err != nil {
				return nil, 0, err
			}
		case 7:
			h.DictionaryPageHeader, err = readDictionaryPageHeader(r)
		case 8:
			h.DataPageHeaderV2, err = readDataPageHeaderV2(r)
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return nil, 0, err
		}
	}
	return h, r.Pos(), nil
}

func readDataPageHeader(r *thrift.Reader) (*DataPageHeader, error) {
	h := &DataPageHeader{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.NumValues = v
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.Encoding = Encoding(v)
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.DefinitionLevelEncoding = Encoding(v)
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			h.RepetitionLevelEncoding = Encoding(v)
		case 5:
			h.Statistics, err = readStatistics(r)
			if err != nil {
				return nil, err
			}
		default:
			if err := r.SkipField(fh.Type); err != nil {
				return nil, err
			}
		}
	}
	return h, nil
}

func readDataPageHeaderV2(r *thrift.Reader) (*DataPageHeaderV2, error) {
	h := &DataPageHeaderV2{IsCompressed: true}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			h.NumValues, err = r.ReadI32()
		case 2:
			h.NumNulls, err = r.ReadI32()
		case 3:
			h.NumRows, err = r.ReadI32()
		case 4:
			var v int32
			v, err = r.ReadI32()
			h.Encoding = Encoding(v)
		case 5:
			h.DefinitionLevelsByteLength, err = r.ReadI32()
		case 6:
			h.RepetitionLevelsByteLength, err = r.ReadI32()
		case 7:
			h.IsCompressed, err = fh.Type == thrift.TypeTrue, error(nil)
		case 8:
			h.Statistics, err = readStatistics(r)
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func readDictionaryPageHeader(r *thrift.Reader) (*DictionaryPageHeader, error) {
	h := &DictionaryPageHeader{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			h.NumValues, err = r.ReadI32()
		case 2:
			var v int32
			v, err = r.ReadI32()
			h.Encoding = Encoding(v)
		case 3:
			b := fh.Type == thrift.TypeTrue
			h.IsSorted = &b
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func readStatistics(r *thrift.Reader) (*Statistics, error) {
	s := &Statistics{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			s.Max, err = r.ReadBinary()
		case 2:
			s.Min, err = r.ReadBinary()
		case 3:
			var v int64
			v, err = r.ReadI64()
			s.NullCount = &v
		case 4:
			var v int64
			v, err = r.ReadI64()
			s.DistinctCount = &v
		case 5:
			s.MaxValue, err = r.ReadBinary()
		case 6:
			s.MinValue, err = r.ReadBinary()
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func readSchemaElementList(r *thrift.Reader) ([]SchemaElement, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]SchemaElement, lh.Size)
	for i := range out {
		se, err := readSchemaElement(r)
		if err != nil {
			return nil, err
		}
		out[i] = se
	}
	return out, nil
}

func readSchemaElement(r *thrift.Reader) (SchemaElement, error) {
	se := SchemaElement{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return se, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			t := Type(v)
			se.Type = &t
		case 2:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			se.TypeLength = &v
		case 3:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			rt := FieldRepetitionType(v)
			se.RepetitionType = &rt
		case 4:
			se.Name, err = r.ReadString()
		case 5:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			se.NumChildren = &v
		case 6:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			ct := ConvertedType(v)
			se.ConvertedType = &ct
		case 7:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			se.Scale = &v
		case 8:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			se.Precision = &v
		case 9:
			v, err := r.ReadI32()
			if err != nil {
				return se, err
			}
			se.FieldID = &v
		case 10:
			se.LogicalType, err = readLogicalType(r)
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return se, err
		}
	}
	return se, nil
}

// readLogicalType parses the LogicalType union: exactly one field header
// identifies the variant, followed by its (possibly empty) nested struct.
func readLogicalType(r *thrift.Reader) (*LogicalType, error) {
	lt := &LogicalType{}
	r.StructBegin()
	defer r.StructEnd()

	fh, err := r.ReadFieldHeader()
	if err != nil {
		return nil, err
	}
	if fh.Stop {
		return lt, nil
	}

	switch fh.ID {
	case 1:
		lt.Kind = LogicalString
		err = skipEmptyStruct(r)
	case 4:
		lt.Kind = LogicalEnum
		err = skipEmptyStruct(r)
	case 5:
		lt.Kind = LogicalDecimal
		err = readDecimalType(r, lt)
	case 6:
		lt.Kind = LogicalDate
		err = skipEmptyStruct(r)
	case 7:
		lt.Kind = LogicalTime
		err = readTimeType(r, lt)
	case 8:
		lt.Kind = LogicalTimestamp
		err = readTimeType(r, lt)
	case 10:
		lt.Kind = LogicalInteger
		err = readIntType(r, lt)
	case 12:
		lt.Kind = LogicalJSON
		err = skipEmptyStruct(r)
	case 13:
		lt.Kind = LogicalBSON
		err = skipEmptyStruct(r)
	case 14:
		lt.Kind = LogicalUUID
		err = skipEmptyStruct(r)
	default:
		lt.Kind = LogicalUnknown
		err = r.SkipField(fh.Type)
	}
	if err != nil {
		return nil, err
	}

	// consume the union's trailing stop byte
	if end, err := r.ReadFieldHeader(); err != nil {
		return nil, err
	} else if !end.Stop {
		return nil, fmt.Errorf("thrift: LogicalType union carried more than one field")
	}
	return lt, nil
}

func skipEmptyStruct(r *thrift.Reader) error {
	r.StructBegin()
	defer r.StructEnd()
	fh, err := r.ReadFieldHeader()
	if err != nil {
		return err
	}
	for !fh.Stop {
		if err := r.SkipField(fh.Type); err != nil {
			return err
		}
		if fh, err = r.ReadFieldHeader(); err != nil {
			return err
		}
	}
	return nil
}

func readDecimalType(r *thrift.Reader, lt *LogicalType) error {
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			lt.DecimalScale, err = r.ReadI32()
		case 2:
			lt.DecimalPrecision, err = r.ReadI32()
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return err
		}
	}
}

func readTimeType(r *thrift.Reader, lt *LogicalType) error {
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			lt.IsAdjustedToUTC = fh.Type == thrift.TypeTrue
		case 2:
			unit, err := readTimeUnit(r)
			if err != nil {
				return err
			}
			lt.Unit = unit
		default:
			err = r.SkipField(fh.Type)
			if err != nil {
				return err
			}
		}
	}
}

func readTimeUnit(r *thrift.Reader) (TimeUnit, error) {
	r.StructBegin()
	defer r.StructEnd()
	fh, err := r.ReadFieldHeader()
	if err != nil {
		return Millis, err
	}
	unit := Millis
	switch fh.ID {
	case 1:
		unit = Millis
	case 2:
		unit = Micros
	case 3:
		unit = Nanos
	}
	if !fh.Stop {
		if err := skipEmptyStructBody(r); err != nil {
			return unit, err
		}
	}
	if end, err := r.ReadFieldHeader(); err != nil {
		return unit, err
	} else if !end.Stop {
		return unit, fmt.Errorf("thrift: TimeUnit union carried more than one field")
	}
	return unit, nil
}

func skipEmptyStructBody(r *thrift.Reader) error {
	r.StructBegin()
	defer r.StructEnd()
	fh, err := r.ReadFieldHeader()
	for !fh.Stop && err == nil {
		err = r.SkipField(fh.Type)
		if err == nil {
			fh, err = r.ReadFieldHeader()
		}
	}
	return err
}

func readIntType(r *thrift.Reader, lt *LogicalType) error {
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return err
		}
		if fh.Stop {
			return nil
		}
		switch fh.ID {
		case 1:
			b, err := r.ReadByteValue()
			if err != nil {
				return err
			}
			lt.BitWidth = int8(b)
		case 2:
			lt.IsSigned = fh.Type == thrift.TypeTrue
		default:
			if err := r.SkipField(fh.Type); err != nil {
				return err
			}
		}
	}
}

func readRowGroupList(r *thrift.Reader) ([]RowGroup, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]RowGroup, lh.Size)
	for i := range out {
		rg, err := readRowGroup(r)
		if err != nil {
			return nil, err
		}
		out[i] = rg
	}
	return out, nil
}

func readRowGroup(r *thrift.Reader) (RowGroup, error) {
	rg := RowGroup{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return rg, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			rg.Columns, err = readColumnChunkList(r)
		case 2:
			rg.TotalByteSize, err = r.ReadI64()
		case 3:
			rg.NumRows, err = r.ReadI64()
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return rg, err
		}
	}
	return rg, nil
}

func readColumnChunkList(r *thrift.Reader) ([]ColumnChunk, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]ColumnChunk, lh.Size)
	for i := range out {
		cc, err := readColumnChunk(r)
		if err != nil {
			return nil, err
		}
		out[i] = cc
	}
	return out, nil
}

func readColumnChunk(r *thrift.Reader) (ColumnChunk, error) {
	cc := ColumnChunk{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return cc, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			s, err := r.ReadString()
			if err != nil {
				return cc, err
			}
			cc.FilePath = &s
		case 2:
			cc.FileOffset, err = r.ReadI64()
		case 3:
			cc.MetaData, err = readColumnMetaData(r)
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return cc, err
		}
	}
	return cc, nil
}

func readColumnMetaData(r *thrift.Reader) (*ColumnMetaData, error) {
	cm := &ColumnMetaData{}
	r.StructBegin()
	defer r.StructEnd()
	for {
		fh, err := r.ReadFieldHeader()
		if err != nil {
			return nil, err
		}
		if fh.Stop {
			break
		}
		switch fh.ID {
		case 1:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			cm.Type = Type(v)
		case 2:
			cm.Encodings, err = readEncodingList(r)
		case 3:
			cm.PathInSchema, err = readStringList(r)
		case 4:
			v, err := r.ReadI32()
			if err != nil {
				return nil, err
			}
			cm.Codec = CompressionCodec(v)
		case 5:
			cm.NumValues, err = r.ReadI64()
		case 6:
			cm.TotalUncompressedSize, err = r.ReadI64()
		case 7:
			cm.TotalCompressedSize, err = r.ReadI64()
		case 8:
			cm.KeyValueMetadata, err = readKeyValueList(r)
		case 9:
			cm.DataPageOffset, err = r.ReadI64()
		case 10:
			v, err := r.ReadI64()
			if err != nil {
				return nil, err
			}
			cm.IndexPageOffset = &v
		case 11:
			v, err := r.ReadI64()
			if err != nil {
				return nil, err
			}
			cm.DictionaryPageOffset = &v
		case 12:
			cm.Statistics, err = readStatistics(r)
		case 13:
			cm.EncodingStats, err = readPageEncodingStatsList(r)
		default:
			err = r.SkipField(fh.Type)
		}
		if err != nil {
			return nil, err
		}
	}
	return cm, nil
}

func readPageEncodingStatsList(r *thrift.Reader) ([]PageEncodingStats, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]PageEncodingStats, lh.Size)
	for i := range out {
		r.StructBegin()
		for {
			fh, err := r.ReadFieldHeader()
			if err != nil {
				return nil, err
			}
			if fh.Stop {
				break
			}
			switch fh.ID {
			case 1:
				v, err := r.ReadI32()
				if err != nil {
					return nil, err
				}
				out[i].PageType = PageType(v)
			case 2:
				v, err := r.ReadI32()
				if err != nil {
					return nil, err
				}
				out[i].Encoding = Encoding(v)
			case 3:
				out[i].Count, err = r.ReadI32()
				if err != nil {
					return nil, err
				}
			default:
				if err := r.SkipField(fh.Type); err != nil {
					return nil, err
				}
			}
		}
		r.StructEnd()
	}
	return out, nil
}

func readEncodingList(r *thrift.Reader) ([]Encoding, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]Encoding, lh.Size)
	for i := range out {
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = Encoding(v)
	}
	return out, nil
}

func readStringList(r *thrift.Reader) ([]string, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]string, lh.Size)
	for i := range out {
		out[i], err = r.ReadString()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readKeyValueList(r *thrift.Reader) ([]KeyValue, error) {
	lh, err := r.ReadListHeader()
	if err != nil {
		return nil, err
	}
	out := make([]KeyValue, lh.Size)
	for i := range out {
		r.StructBegin()
		for {
			fh, err := r.ReadFieldHeader()
			if err != nil {
				return nil, err
			}
			if fh.Stop {
				break
			}
			switch fh.ID {
			case 1:
				out[i].Key, err = r.ReadString()
			case 2:
				s, e := r.ReadString()
				err = e
				out[i].Value = &s
			default:
				err = r.SkipField(fh.Type)
			}
			if err != nil {
				return nil, err
			}
		}
		r.StructEnd()
	}
	return out, nil
}
