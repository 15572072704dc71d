package column

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/encoding/plain"
	"github.com/dnlrv/parqstream/encoding/rle"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/workerpool"
)

// buildNestedByteArrayPage builds a DATA_PAGE (V1) PageInfo directly (no
// Thrift round-trip; DecodePage only needs the already-parsed header) for an
// optional BYTE_ARRAY leaf under one level of repetition.
func buildNestedByteArrayPage(nonNullValues [][]byte, defLevels, repLevels []int32, maxDef, maxRep int) PageInfo {
	repStream := rle.EncodeAuto(rle.BitWidthForMaxLevel(maxRep), repLevels)
	defStream := rle.EncodeAuto(rle.BitWidthForMaxLevel(maxDef), defLevels)
	valuesBody := plain.EncodeByteArray(nil, nonNullValues)

	var full []byte
	full = appendLenPrefixed(full, repStream)
	full = appendLenPrefixed(full, defStream)
	full = append(full, valuesBody...)

	header := &format.PageHeader{
		Type:                 format.DataPage,
		UncompressedPageSize: int32(len(full)),
		CompressedPageSize:   int32(len(full)),
		DataPageHeader: &format.DataPageHeader{
			NumValues: int32(len(defLevels)),
			Encoding:  format.Plain,
		},
	}
	meta := &format.ColumnMetaData{
		Type:  format.ByteArray,
		Codec: format.Uncompressed,
	}
	return PageInfo{Bytes: full, HeaderSize: 0, Header: header, ColumnMeta: meta}
}

func appendLenPrefixed(dst, body []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(body)))
	dst = append(dst, lenBuf[:]...)
	return append(dst, body...)
}

func TestIteratorFlatBatchSpansPages(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	infos := buildPageInfos(t, [][]int32{{1, 2}, {3, 4, 5}})
	cursor := NewCursor(infos, 0, 0, pool, nil)
	it := NewIterator(cursor, &IntPage{}, 0, 0, 4)

	batch, err := it.NextBatch()
	require.NoError(t, err)
	require.Equal(t, 4, batch.Records())
	fb := batch.(*FlatBatch)
	require.Equal(t, []int32{1, 2, 3, 4}, fb.Page.(*IntPage).Values)

	batch, err = it.NextBatch()
	require.NoError(t, err)
	require.Equal(t, 1, batch.Records())
	require.Equal(t, []int32{5}, batch.(*FlatBatch).Page.(*IntPage).Values)

	batch, err = it.NextBatch()
	require.NoError(t, err)
	require.Equal(t, 0, batch.Records())
}

func TestIteratorNestedBatchGroupsByRecordBoundary(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Close()

	// record 0: ["x", "y"]; record 1: null list
	info := buildNestedByteArrayPage(
		[][]byte{[]byte("x"), []byte("y")},
		[]int32{3, 3, 0},
		[]int32{0, 1, 0},
		3, 1,
	)
	cursor := NewCursor([]PageInfo{info}, 3, 1, pool, nil)
	it := NewIterator(cursor, &ByteArrayPage{PhysicalType: format.ByteArray}, 3, 1, 10)

	batch, err := it.NextBatch()
	require.NoError(t, err)
	nb := batch.(*NestedBatch)
	require.Equal(t, 2, nb.RecordCount)
	require.Equal(t, []int32{0, 2, 3}, nb.RecordOffsets)

	batch, err = it.NextBatch()
	require.NoError(t, err)
	require.Equal(t, 0, batch.Records())
}

func TestIteratorNestedBatchRespectsMaxRecords(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Close()

	info := buildNestedByteArrayPage(
		[][]byte{[]byte("a"), []byte("b"), []byte("c")},
		[]int32{3, 3, 3},
		[]int32{0, 0, 0},
		3, 1,
	)
	cursor := NewCursor([]PageInfo{info}, 3, 1, pool, nil)
	it := NewIterator(cursor, &ByteArrayPage{PhysicalType: format.ByteArray}, 3, 1, 2)

	batch, err := it.NextBatch()
	require.NoError(t, err)
	nb := batch.(*NestedBatch)
	require.Equal(t, 2, nb.RecordCount)

	batch, err = it.NextBatch()
	require.NoError(t, err)
	nb2 := batch.(*NestedBatch)
	require.Equal(t, 1, nb2.RecordCount)
}
