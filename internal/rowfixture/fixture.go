package rowfixture

// Column describes one primitive leaf for BuildFileMetaData, which
// hand-builds the Thrift body of a Parquet footer: a message
// schema element followed by n primitive leaves, and one row group holding
// one column chunk per leaf. It mirrors format.FileMetaData's field layout
// closely enough for format.ReadFileMetaData to round-trip it, without
// depending on the format package (this stays a leaf package any test can
// import).
type Column struct {
	Name                  string
	PhysicalType          int32 // format.Type
	Repetition            int32 // format.FieldRepetitionType
	Encoding              int32 // format.Encoding
	Codec                 int32 // format.CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	DataPageOffset        int64
}

// BuildFileMetaData returns the Thrift-encoded body of a FileMetaData struct
// (field 1 version, field 2 schema, field 3 num_rows, field 4 row_groups)
// for a flat (no nesting) message made of cols.
func BuildFileMetaData(numRows int64, cols []Column) []byte {
	w := NewWriter()
	w.StructBegin()

	w.WriteI32(1, 1) // version

	w.WriteListHeader(2, typeStruct, len(cols)+1)
	writeSchemaElement(w, "root", -1, -1, int32(len(cols)))
	for _, c := range cols {
		writeSchemaElement(w, c.Name, c.PhysicalType, c.Repetition, -1)
	}

	w.WriteI64(3, numRows)

	w.WriteListHeader(4, typeStruct, 1)
	writeRowGroup(w, numRows, cols)

	w.StructEnd()
	return w.Bytes()
}

// writeSchemaElement writes one SchemaElement. physicalType < 0 marks a
// group node (num_children set, type/repetition omitted for the root).
func writeSchemaElement(w *Writer, name string, physicalType, repetition, numChildren int32) {
	w.StructBegin()
	if physicalType >= 0 {
		w.WriteI32(1, physicalType)
	}
	if repetition >= 0 {
		w.WriteI32(3, repetition)
	}
	w.WriteString(4, name)
	if numChildren >= 0 {
		w.WriteI32(5, numChildren)
	}
	w.StructEnd()
}

func writeRowGroup(w *Writer, numRows int64, cols []Column) {
	w.StructBegin()
	w.WriteListHeader(1, typeStruct, len(cols))
	var totalSize int64
	for _, c := range cols {
		writeColumnChunk(w, c)
		totalSize += c.TotalCompressedSize
	}
	w.WriteI64(2, totalSize)
	w.WriteI64(3, numRows)
	w.StructEnd()
}

func writeColumnChunk(w *Writer, c Column) {
	w.StructBegin()
	w.WriteI64(2, c.DataPageOffset)
	w.WriteStructField(3) // MetaData
	writeColumnMetaDataBody(w, c)
	w.StructEnd() // closes MetaData
	w.StructEnd() // closes ColumnChunk
}

func writeColumnMetaDataBody(w *Writer, c Column) {
	w.WriteI32(1, c.PhysicalType)
	w.WriteListHeader(2, typeI32, 1)
	w.buf = append(w.buf, zigzagVarint(int64(c.Encoding))...)
	w.WriteListHeader(3, typeBinary, 1)
	w.buf = append(w.buf, uvarint(uint64(len(c.Name)))...)
	w.buf = append(w.buf, []byte(c.Name)...)
	w.WriteI32(4, c.Codec)
	w.WriteI64(5, c.NumValues)
	w.WriteI64(6, c.TotalUncompressedSize)
	w.WriteI64(7, c.TotalCompressedSize)
	w.WriteI64(9, c.DataPageOffset)
}

// BuildDataPageHeaderV1 builds a PageHeader Thrift body (format.DataPage)
// wrapping a DataPageHeader with the given value/encoding counts.
func BuildDataPageHeaderV1(uncompressedSize, compressedSize int32, numValues int32, encoding int32) []byte {
	w := NewWriter()
	w.StructBegin()
	w.WriteI32(1, 0) // PageType: DATA_PAGE
	w.WriteI32(2, uncompressedSize)
	w.WriteI32(3, compressedSize)
	w.WriteStructField(5) // data_page_header
	w.WriteI32(1, numValues)
	w.WriteI32(2, encoding)
	w.WriteI32(3, encoding) // definition_level_encoding (RLE in practice)
	w.WriteI32(4, encoding) // repetition_level_encoding
	w.StructEnd()
	w.StructEnd()
	return w.Bytes()
}
