package parqstream

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/encoding/plain"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
	"github.com/dnlrv/parqstream/internal/rowfixture"
)

// writeFlatParquetFile assembles a minimal single-row-group Parquet file
// with REQUIRED INT32 columns, one page per column, no compression, and
// writes it to dir/name. Returns the full path.
func writeFlatParquetFile(t *testing.T, dir, name string, colNames []string, colValues [][]int32) string {
	t.Helper()
	require.Equal(t, len(colNames), len(colValues))

	buf := []byte(magic)
	var cols []rowfixture.Column
	for i, values := range colValues {
		body := plain.EncodeInt32(nil, values)
		header := rowfixture.BuildDataPageHeaderV1(int32(len(body)), int32(len(body)), int32(len(values)), 0)
		offset := int64(len(buf))
		buf = append(buf, header...)
		buf = append(buf, body...)
		cols = append(cols, rowfixture.Column{
			Name:                  colNames[i],
			PhysicalType:          int32(format.Int32),
			Repetition:            int32(format.Required),
			Encoding:              0,
			Codec:                 int32(format.Uncompressed),
			NumValues:             int64(len(values)),
			TotalUncompressedSize: int64(len(header) + len(body)),
			TotalCompressedSize:   int64(len(header) + len(body)),
			DataPageOffset:        offset,
		})
	}

	numRows := int64(0)
	if len(colValues) > 0 {
		numRows = int64(len(colValues[0]))
	}
	footer := rowfixture.BuildFileMetaData(numRows, cols)
	buf = append(buf, footer...)
	lenBuf := make([]byte, 4)
	lenBuf[0] = byte(len(footer))
	lenBuf[1] = byte(len(footer) >> 8)
	lenBuf[2] = byte(len(footer) >> 16)
	lenBuf[3] = byte(len(footer) >> 24)
	buf = append(buf, lenBuf...)
	buf = append(buf, []byte(magic)...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

// writeFlatStringColumnFile assembles a single-row-group file with one
// REQUIRED BYTE_ARRAY column named "name", PLAIN-encoded, uncompressed.
func writeFlatStringColumnFile(t *testing.T, dir, name string, values []string) string {
	t.Helper()
	byteValues := make([][]byte, len(values))
	for i, v := range values {
		byteValues[i] = []byte(v)
	}

	buf := []byte(magic)
	body := plain.EncodeByteArray(nil, byteValues)
	header := rowfixture.BuildDataPageHeaderV1(int32(len(body)), int32(len(body)), int32(len(values)), 0)
	offset := int64(len(buf))
	buf = append(buf, header...)
	buf = append(buf, body...)

	cols := []rowfixture.Column{{
		Name:                  "name",
		PhysicalType:          int32(format.ByteArray),
		Repetition:            int32(format.Required),
		Encoding:              0,
		Codec:                 int32(format.Uncompressed),
		NumValues:             int64(len(values)),
		TotalUncompressedSize: int64(len(header) + len(body)),
		TotalCompressedSize:   int64(len(header) + len(body)),
		DataPageOffset:        offset,
	}}

	footer := rowfixture.BuildFileMetaData(int64(len(values)), cols)
	buf = append(buf, footer...)
	lenBuf := make([]byte, 4)
	lenBuf[0] = byte(len(footer))
	lenBuf[1] = byte(len(footer) >> 8)
	lenBuf[2] = byte(len(footer) >> 16)
	lenBuf[3] = byte(len(footer) >> 24)
	buf = append(buf, lenBuf...)
	buf = append(buf, []byte(magic)...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestFileManagerLoadsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFlatParquetFile(t, dir, "a.parquet", []string{"id"}, [][]int32{{1, 2, 3}})

	fm, err := NewFileManager([]string{path}, nil)
	require.NoError(t, err)
	defer fm.Close()

	require.Equal(t, 1, fm.NumFiles())
	require.NotNil(t, fm.Schema())

	pages, err := fm.GetPages(0, "id")
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestFileManagerRejectsUnprojectedColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFlatParquetFile(t, dir, "a.parquet", []string{"id"}, [][]int32{{1}})

	fm, err := NewFileManager([]string{path}, nil)
	require.NoError(t, err)
	defer fm.Close()

	_, err = fm.GetPages(0, "nope")
	require.Error(t, err)
	require.True(t, parqerr.Is(err, parqerr.ConsumerMisuse))
}

func TestFileManagerPrefetchesNextFile(t *testing.T) {
	dir := t.TempDir()
	p0 := writeFlatParquetFile(t, dir, "a.parquet", []string{"id"}, [][]int32{{1}})
	p1 := writeFlatParquetFile(t, dir, "b.parquet", []string{"id"}, [][]int32{{2}})

	fm, err := NewFileManager([]string{p0, p1}, nil)
	require.NoError(t, err)
	defer fm.Close()

	require.Eventually(t, func() bool { return fm.IsFileReady(1) }, time.Second, time.Millisecond)
}

func TestFileManagerRejectsTooSmallFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.parquet")
	require.NoError(t, os.WriteFile(path, []byte("PAR1"), 0o644))

	_, err := NewFileManager([]string{path}, nil)
	require.Error(t, err)
	require.True(t, parqerr.Is(err, parqerr.MalformedFile))
}

func TestFileManagerRejectsSchemaIncompatibleFile(t *testing.T) {
	dir := t.TempDir()
	p0 := writeFlatParquetFile(t, dir, "a.parquet", []string{"id"}, [][]int32{{1}})
	p1 := writeFlatParquetFile(t, dir, "b.parquet", []string{"other"}, [][]int32{{2}})

	fm, err := NewFileManager([]string{p0, p1}, nil)
	require.NoError(t, err)
	defer fm.Close()

	_, err = fm.GetPages(1, "id")
	require.Error(t, err)
	require.True(t, parqerr.Is(err, parqerr.SchemaIncompatible))
}
