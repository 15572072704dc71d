package column

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dnlrv/parqstream/internal/workerpool"
)

func TestAssemblyBufferProducesBatchesInOrder(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	infos := buildPageInfos(t, [][]int32{{1, 2}, {3, 4, 5}})
	cursor := NewCursor(infos, 0, 0, pool, nil)
	it := NewIterator(cursor, &IntPage{}, 0, 0, 4)

	buf := NewAssemblyBuffer(it)
	defer buf.Close()

	batch, err := buf.AwaitNextBatch()
	require.NoError(t, err)
	require.Equal(t, 4, batch.Records())
	fb := batch.(*FlatBatch)
	require.Equal(t, []int32{1, 2, 3, 4}, fb.Page.(*IntPage).Values)
	buf.Release(batch)

	batch, err = buf.AwaitNextBatch()
	require.NoError(t, err)
	require.Equal(t, 1, batch.Records())
	require.Equal(t, []int32{5}, batch.(*FlatBatch).Page.(*IntPage).Values)
	buf.Release(batch)

	batch, err = buf.AwaitNextBatch()
	require.NoError(t, err)
	require.Equal(t, 0, batch.Records())
}

func TestAssemblyBufferCloseStopsProducer(t *testing.T) {
	pool := workerpool.New(2)
	defer pool.Close()

	groups := make([][]int32, 0, 50)
	for i := 0; i < 50; i++ {
		groups = append(groups, []int32{int32(i)})
	}
	infos := buildPageInfos(t, groups)
	cursor := NewCursor(infos, 0, 0, pool, nil)
	it := NewIterator(cursor, &IntPage{}, 0, 0, 1)

	buf := NewAssemblyBuffer(it)
	_, err := buf.AwaitNextBatch()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		buf.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return promptly; producer goroutine may be leaked")
	}
}
