package parqstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenNextReadsAllRows(t *testing.T) {
	dir := t.TempDir()
	path := writeFlatParquetFile(t, dir, "a.parquet", []string{"id", "score"}, [][]int32{{10, 20, 30}, {1, 2, 3}})

	r, err := Open([]string{path}, nil)
	require.NoError(t, err)
	defer r.Close()

	var ids []int32
	for r.Next() {
		id, ok := r.GetInt("id")
		require.True(t, ok)
		ids = append(ids, id)
	}
	require.NoError(t, r.Err())
	require.Equal(t, []int32{10, 20, 30}, ids)
}

func TestOpenStreamsAcrossMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	p0 := writeFlatParquetFile(t, dir, "a.parquet", []string{"id"}, [][]int32{{1, 2}})
	p1 := writeFlatParquetFile(t, dir, "b.parquet", []string{"id"}, [][]int32{{3, 4, 5}})

	r, err := Open([]string{p0, p1}, nil)
	require.NoError(t, err)
	defer r.Close()

	var ids []int32
	for r.Next() {
		id, ok := r.GetInt("id")
		require.True(t, ok)
		ids = append(ids, id)
	}
	require.NoError(t, r.Err())
	require.Equal(t, []int32{1, 2, 3, 4, 5}, ids)
}

func TestOpenProjectsOnlyRequestedColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFlatParquetFile(t, dir, "a.parquet", []string{"id", "score"}, [][]int32{{1}, {100}})

	r, err := Open([]string{path}, []string{"id"})
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Next())
	_, ok := r.GetInt("id")
	require.True(t, ok)

	_, ok = r.GetInt("score")
	require.False(t, ok)
	require.Error(t, r.Err())
}

func TestOpenRejectsSchemaIncompatibleFileSet(t *testing.T) {
	dir := t.TempDir()
	p0 := writeFlatParquetFile(t, dir, "a.parquet", []string{"id"}, [][]int32{{1}})
	p1 := writeFlatParquetFile(t, dir, "b.parquet", []string{"different"}, [][]int32{{2}})

	r, err := Open([]string{p0, p1}, nil)
	require.NoError(t, err)
	defer r.Close()

	for r.Next() {
	}
	require.Error(t, r.Err())
}

func TestGetStringReadsByteArrayColumnAsString(t *testing.T) {
	dir := t.TempDir()
	path := writeFlatStringColumnFile(t, dir, "names.parquet", []string{"alice", "bob", "carol"})

	r, err := Open([]string{path}, nil)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for r.Next() {
		name, ok := r.GetString("name")
		require.True(t, ok)
		names = append(names, name)
	}
	require.NoError(t, r.Err())
	require.Equal(t, []string{"alice", "bob", "carol"}, names)
}
