package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/rowfixture"
)

func TestReadFileMetaData(t *testing.T) {
	cols := []rowfixture.Column{
		{
			Name:                  "id",
			PhysicalType:          int32(format.Int32),
			Repetition:            int32(format.Required),
			Encoding:              int32(format.Plain),
			Codec:                 int32(format.Uncompressed),
			NumValues:             3,
			TotalUncompressedSize: 12,
			TotalCompressedSize:   12,
			DataPageOffset:        4,
		},
		{
			Name:                  "name",
			PhysicalType:          int32(format.ByteArray),
			Repetition:            int32(format.Optional),
			Encoding:              int32(format.Plain),
			Codec:                 int32(format.Snappy),
			NumValues:             3,
			TotalUncompressedSize: 40,
			TotalCompressedSize:   30,
			DataPageOffset:        16,
		},
	}
	raw := rowfixture.BuildFileMetaData(3, cols)

	meta, err := format.ReadFileMetaData(raw)
	require.NoError(t, err)
	require.EqualValues(t, 1, meta.Version)
	require.EqualValues(t, 3, meta.NumRows)
	require.Len(t, meta.Schema, 3) // root + 2 leaves
	require.Equal(t, "root", meta.Schema[0].Name)
	require.EqualValues(t, 2, *meta.Schema[0].NumChildren)
	require.Equal(t, "id", meta.Schema[1].Name)
	require.Equal(t, format.Int32, *meta.Schema[1].Type)
	require.Equal(t, format.Required, *meta.Schema[1].RepetitionType)
	require.Equal(t, "name", meta.Schema[2].Name)
	require.Equal(t, format.ByteArray, *meta.Schema[2].Type)
	require.Equal(t, format.Optional, *meta.Schema[2].RepetitionType)

	require.Len(t, meta.RowGroups, 1)
	rg := meta.RowGroups[0]
	require.EqualValues(t, 3, rg.NumRows)
	require.Len(t, rg.Columns, 2)

	idChunk := rg.Columns[0].MetaData
	require.Equal(t, format.Int32, idChunk.Type)
	require.Equal(t, []string{"id"}, idChunk.PathInSchema)
	require.Equal(t, format.Uncompressed, idChunk.Codec)
	require.EqualValues(t, 3, idChunk.NumValues)
	require.EqualValues(t, 4, idChunk.DataPageOffset)
	require.Equal(t, []format.Encoding{format.Plain}, idChunk.Encodings)

	nameChunk := rg.Columns[1].MetaData
	require.Equal(t, format.ByteArray, nameChunk.Type)
	require.Equal(t, format.Snappy, nameChunk.Codec)
	require.EqualValues(t, 30, nameChunk.TotalCompressedSize)
}

func TestReadPageHeaderDataPageV1(t *testing.T) {
	raw := rowfixture.BuildDataPageHeaderV1(120, 100, 10, int32(format.Plain))

	hdr, n, err := format.ReadPageHeader(raw)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.Equal(t, format.DataPage, hdr.Type)
	require.EqualValues(t, 120, hdr.UncompressedPageSize)
	require.EqualValues(t, 100, hdr.CompressedPageSize)
	require.NotNil(t, hdr.DataPageHeader)
	require.EqualValues(t, 10, hdr.DataPageHeader.NumValues)
	require.Equal(t, format.Plain, hdr.DataPageHeader.Encoding)
}
