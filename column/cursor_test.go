package column

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/internal/workerpool"
)

func buildPageInfos(t *testing.T, groups [][]int32) []PageInfo {
	t.Helper()
	var infos []PageInfo
	for _, values := range groups {
		fileBytes, meta := buildFlatInt32Chunk(values)
		pages, _, err := ScanColumnChunk(fileBytes, meta, 0)
		require.NoError(t, err)
		require.Len(t, pages, 1)
		infos = append(infos, pages[0])
	}
	return infos
}

func TestCursorNextPageInOrder(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	infos := buildPageInfos(t, [][]int32{{1, 2}, {3, 4, 5}})
	cursor := NewCursor(infos, 0, 0, pool, nil)

	require.True(t, cursor.HasNext())
	page, ok, err := cursor.NextPage()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int32{1, 2}, page.(*IntPage).Values)

	page, ok, err = cursor.NextPage()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int32{3, 4, 5}, page.(*IntPage).Values)

	_, ok, err = cursor.NextPage()
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, cursor.HasNext())
}

func TestCursorRollsOverToNextFile(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	first := buildPageInfos(t, [][]int32{{1}})
	second := buildPageInfos(t, [][]int32{{2, 3}})

	calls := 0
	nextFile := func() ([]PageInfo, bool, error) {
		calls++
		return second, false, nil
	}

	cursor := NewCursor(first, 0, 0, pool, nextFile)

	page, ok, err := cursor.NextPage()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int32{1}, page.(*IntPage).Values)

	page, ok, err = cursor.NextPage()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int32{2, 3}, page.(*IntPage).Values)
	require.Equal(t, 1, calls)

	_, ok, err = cursor.NextPage()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCursorPropagatesNextFileError(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Close()

	first := buildPageInfos(t, [][]int32{{1}})

	nextFile := func() ([]PageInfo, bool, error) {
		return nil, false, errors.New("cursor test: next file failed")
	}
	cursor := NewCursor(first, 0, 0, pool, nextFile)

	_, ok, err := cursor.NextPage()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = cursor.NextPage()
	require.Error(t, err)
}
