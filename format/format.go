// Package format holds the plain data structures produced by decoding a
// Parquet file's Thrift compact-protocol footer and page headers. These
// types mirror parquet.thrift field-for-field. format.go holds only the
// types; decode.go fills them in from the wire bytes using internal/thrift.
package format

// Type is the on-disk physical type of a column (parquet.thrift Type).
type Type int32

const (
	Boolean Type = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (t Type) String() string {
	switch t {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN_TYPE"
	}
}

// FieldRepetitionType is parquet.thrift's FieldRepetitionType.
type FieldRepetitionType int32

const (
	Required FieldRepetitionType = iota
	Optional
	Repeated
)

func (r FieldRepetitionType) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN_REPETITION"
	}
}

// ConvertedType is the deprecated logical-type annotation carried alongside
// LogicalType for backward compatibility.
type ConvertedType int32

const (
	ConvertedNone   ConvertedType = -1
	UTF8            ConvertedType = 0
	Map             ConvertedType = 1
	MapKeyValue     ConvertedType = 2
	List            ConvertedType = 3
	Enum            ConvertedType = 4
	Decimal         ConvertedType = 5
	Date            ConvertedType = 6
	TimeMillis      ConvertedType = 7
	TimeMicros      ConvertedType = 8
	TimestampMillis ConvertedType = 9
	TimestampMicros ConvertedType = 10
	Uint8           ConvertedType = 11
	Uint16          ConvertedType = 12
	Uint32          ConvertedType = 13
	Uint64          ConvertedType = 14
	Int8ConvType    ConvertedType = 15
	Int16ConvType   ConvertedType = 16
	Int32ConvType   ConvertedType = 17
	Int64ConvType   ConvertedType = 18
	JSON            ConvertedType = 19
	BSON            ConvertedType = 20
	Interval        ConvertedType = 21
)

// Encoding is parquet.thrift's Encoding enum.
type Encoding int32

const (
	Plain                Encoding = 0
	PlainDictionary      Encoding = 2
	RLE                  Encoding = 3
	BitPackedDeprecated  Encoding = 4
	DeltaBinaryPacked    Encoding = 5
	DeltaLengthByteArray Encoding = 6
	DeltaByteArray       Encoding = 7
	RLEDictionary        Encoding = 8
	ByteStreamSplit      Encoding = 9
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "PLAIN"
	case PlainDictionary:
		return "PLAIN_DICTIONARY"
	case RLE:
		return "RLE"
	case BitPackedDeprecated:
		return "BIT_PACKED"
	case DeltaBinaryPacked:
		return "DELTA_BINARY_PACKED"
	case DeltaLengthByteArray:
		return "DELTA_LENGTH_BYTE_ARRAY"
	case DeltaByteArray:
		return "DELTA_BYTE_ARRAY"
	case RLEDictionary:
		return "RLE_DICTIONARY"
	case ByteStreamSplit:
		return "BYTE_STREAM_SPLIT"
	default:
		return "UNKNOWN_ENCODING"
	}
}

// CompressionCodec is parquet.thrift's CompressionCodec enum.
type CompressionCodec int32

const (
	Uncompressed CompressionCodec = 0
	Snappy       CompressionCodec = 1
	Gzip         CompressionCodec = 2
	LZO          CompressionCodec = 3
	Brotli       CompressionCodec = 4
	LZ4          CompressionCodec = 5
	Zstd         CompressionCodec = 6
	Lz4Raw       CompressionCodec = 7
)

func (c CompressionCodec) String() string {
	switch c {
	case Uncompressed:
		return "UNCOMPRESSED"
	case Snappy:
		return "SNAPPY"
	case Gzip:
		return "GZIP"
	case LZO:
		return "LZO"
	case Brotli:
		return "BROTLI"
	case LZ4:
		return "LZ4"
	case Zstd:
		return "ZSTD"
	case Lz4Raw:
		return "LZ4_RAW"
	default:
		return "UNKNOWN_CODEC"
	}
}

// PageType is parquet.thrift's PageType enum.
type PageType int32

const (
	DataPage       PageType = 0
	IndexPage      PageType = 1
	DictionaryPage PageType = 2
	DataPageV2     PageType = 3
)

func (p PageType) String() string {
	switch p {
	case DataPage:
		return "DATA_PAGE"
	case IndexPage:
		return "INDEX_PAGE"
	case DictionaryPage:
		return "DICTIONARY_PAGE"
	case DataPageV2:
		return "DATA_PAGE_V2"
	default:
		return "UNKNOWN_PAGE_TYPE"
	}
}

// TimeUnit distinguishes the precision of TIME/TIMESTAMP logical types.
type TimeUnit int32

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

// LogicalType is a closed sum over Parquet's LogicalType union, represented
// as a tagged struct rather than a Thrift union type since only a handful
// of variants carry parameters.
type LogicalType struct {
	Kind LogicalTypeKind

	// DECIMAL
	DecimalScale, DecimalPrecision int32

	// TIME / TIMESTAMP
	IsAdjustedToUTC bool
	Unit            TimeUnit

	// INTEGER
	BitWidth int8
	IsSigned bool
}

type LogicalTypeKind int8

const (
	LogicalUnknown LogicalTypeKind = iota
	LogicalString
	LogicalEnum
	LogicalDecimal
	LogicalDate
	LogicalTime
	LogicalTimestamp
	LogicalInteger
	LogicalJSON
	LogicalBSON
	LogicalUUID
)

// SchemaElement is one node of the flattened schema tree produced by the
// footer, mirroring parquet.thrift's SchemaElement.
type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *ConvertedType
	Scale          *int32
	Precision      *int32
	FieldID        *int32
	LogicalType    *LogicalType
}

// Statistics is parquet.thrift's Statistics struct, carried through for
// pass-through visibility only: the core never uses it to skip pages.
type Statistics struct {
	Min, Max           []byte
	NullCount          *int64
	DistinctCount      *int64
	MinValue, MaxValue []byte
}

// PageEncodingStats is parquet.thrift's PageEncodingStats struct.
type PageEncodingStats struct {
	PageType PageType
	Encoding Encoding
	Count    int32
}

// ColumnMetaData is parquet.thrift's ColumnMetaData struct.
type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	KeyValueMetadata      []KeyValue
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
	Statistics            *Statistics
	EncodingStats         []PageEncodingStats
}

// ColumnChunk is parquet.thrift's ColumnChunk struct.
type ColumnChunk struct {
	FilePath   *string
	FileOffset int64
	MetaData   *ColumnMetaData
}

// RowGroup is parquet.thrift's RowGroup struct.
type RowGroup struct {
	Columns       []ColumnChunk
	TotalByteSize int64
	NumRows       int64
}

// KeyValue is parquet.thrift's KeyValue struct.
type KeyValue struct {
	Key   string
	Value *string
}

// FileMetaData is parquet.thrift's FileMetaData struct, the decoded footer.
type FileMetaData struct {
	Version          int32
	Schema           []SchemaElement
	NumRows          int64
	RowGroups        []RowGroup
	KeyValueMetadata []KeyValue
	CreatedBy        *string
}

// DataPageHeader is parquet.thrift's DataPageHeader struct (DATA_PAGE).
type DataPageHeader struct {
	NumValues               int32
	Encoding                 Encoding
	DefinitionLevelEncoding  Encoding
	RepetitionLevelEncoding  Encoding
	Statistics               *Statistics
}

// DataPageHeaderV2 is parquet.thrift's DataPageHeaderV2 struct (DATA_PAGE_V2).
type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
	IsCompressed               bool // defaults to true when absent on the wire
	Statistics                 *Statistics
}

// DictionaryPageHeader is parquet.thrift's DictionaryPageHeader struct.
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  *bool
}

// PageHeader is parquet.thrift's PageHeader struct.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}
