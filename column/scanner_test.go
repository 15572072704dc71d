package column

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/encoding/plain"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
	"github.com/dnlrv/parqstream/internal/rowfixture"
)

// buildFlatInt32Chunk assembles a one-page, PLAIN-encoded, uncompressed
// INT32 column chunk at the front of a byte buffer padded so the chunk
// starts at a non-zero offset, matching how a real file lays out chunks
// after the "PAR1" magic.
func buildFlatInt32Chunk(values []int32) ([]byte, *format.ColumnMetaData) {
	const offset = 16
	body := plain.EncodeInt32(nil, values)
	header := rowfixture.BuildDataPageHeaderV1(int32(len(body)), int32(len(body)), int32(len(values)), 0)

	buf := make([]byte, offset)
	pageStart := len(buf)
	buf = append(buf, header...)
	buf = append(buf, body...)

	meta := &format.ColumnMetaData{
		Type:                  format.Int32,
		PathInSchema:          []string{"id"},
		Codec:                 format.Uncompressed,
		NumValues:             int64(len(values)),
		TotalUncompressedSize: int64(len(header) + len(body)),
		TotalCompressedSize:   int64(len(header) + len(body)),
		DataPageOffset:        int64(pageStart),
	}
	return buf, meta
}

func TestScanColumnChunkSinglePage(t *testing.T) {
	fileBytes, meta := buildFlatInt32Chunk([]int32{1, 2, 3, 4})

	pages, dict, err := ScanColumnChunk(fileBytes, meta, 0)
	require.NoError(t, err)
	require.Nil(t, dict)
	require.Len(t, pages, 1)
	require.Equal(t, meta, pages[0].ColumnMeta)

	page, err := DecodePage(pages[0], 0, 0)
	require.NoError(t, err)
	intPage, ok := page.(*IntPage)
	require.True(t, ok)
	require.Equal(t, []int32{1, 2, 3, 4}, intPage.Values)
}

func TestScanColumnChunkRejectsOutOfRangeOffset(t *testing.T) {
	_, meta := buildFlatInt32Chunk([]int32{1})
	meta.DataPageOffset = 1 << 30

	_, _, err := ScanColumnChunk(make([]byte, 32), meta, 0)
	require.Error(t, err)
	require.True(t, parqerr.Is(err, parqerr.MalformedFile))
}

func TestScanColumnChunkRejectsOversizedChunk(t *testing.T) {
	fileBytes, meta := buildFlatInt32Chunk([]int32{1, 2})
	meta.TotalCompressedSize = 1 << 32

	_, _, err := ScanColumnChunk(fileBytes, meta, 0)
	require.Error(t, err)
	require.True(t, parqerr.Is(err, parqerr.SizeLimitExceeded))
}
