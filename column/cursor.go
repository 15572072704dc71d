package column

import (
	"github.com/dnlrv/parqstream/internal/parqerr"
	"github.com/dnlrv/parqstream/internal/workerpool"
)

const (
	initialTargetDepth = 4
	maxTargetDepth     = 8
)

type pageFuture struct {
	done chan struct{}
	page Page
	err  error
}

func newPageFuture(pool *workerpool.Pool, decode func() (Page, error)) *pageFuture {
	f := &pageFuture{done: make(chan struct{})}
	pool.Submit(func() {
		f.page, f.err = decode()
		close(f.done)
	})
	return f
}

func (f *pageFuture) ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *pageFuture) wait() (Page, error) {
	<-f.done
	return f.page, f.err
}

// NextFileFunc loads the PageInfos of the next file for this column, in
// row-group order, reporting whether any further files remain beyond it.
// It is supplied by the file manager; Cursor has no knowledge of files
// beyond calling this hook.
type NextFileFunc func() (pages []PageInfo, hasMore bool, err error)

// Cursor is the per-column queue of decoded Pages described in the design:
// an adaptive async prefetch queue with optional cross-file roll-over.
type Cursor struct {
	pool *workerpool.Pool

	pageInfos []PageInfo
	nextIndex int
	maxDef    int
	maxRep    int

	queue       []*pageFuture
	targetDepth int

	loadNextFile NextFileFunc
	moreFiles    bool
}

// NewCursor builds a Cursor over the given column's PageInfos. loadNextFile
// may be nil for a single-file read.
func NewCursor(pageInfos []PageInfo, maxDef, maxRep int, pool *workerpool.Pool, loadNextFile NextFileFunc) *Cursor {
	c := &Cursor{
		pool:         pool,
		pageInfos:    pageInfos,
		maxDef:       maxDef,
		maxRep:       maxRep,
		targetDepth:  initialTargetDepth,
		loadNextFile: loadNextFile,
		moreFiles:    loadNextFile != nil,
	}
	c.refill()
	return c
}

func (c *Cursor) refill() {
	for len(c.queue) < c.targetDepth && c.nextIndex < len(c.pageInfos) {
		info := c.pageInfos[c.nextIndex]
		c.nextIndex++
		maxDef, maxRep := c.maxDef, c.maxRep
		c.queue = append(c.queue, newPageFuture(c.pool, func() (Page, error) {
			return DecodePage(info, maxDef, maxRep)
		}))
	}
}

// HasNext reports whether a call to NextPage could still produce a page.
func (c *Cursor) HasNext() bool {
	return c.nextIndex < len(c.pageInfos) || len(c.queue) > 0 || c.moreFiles
}

// NextPage returns the next decoded page in file order, blocking only if
// the head of the prefetch queue has not finished decoding. It returns
// ok == false once the cursor (and any further files) is exhausted.
func (c *Cursor) NextPage() (page Page, ok bool, err error) {
	if len(c.queue) == 0 {
		if err := c.rollOver(); err != nil {
			return nil, false, err
		}
	}
	if len(c.queue) == 0 {
		return nil, false, nil
	}

	head := c.queue[0]
	if !head.ready() && c.targetDepth < maxTargetDepth {
		c.targetDepth++
	}
	page, err = head.wait()
	c.queue = c.queue[1:]
	if err != nil {
		return nil, true, err
	}
	c.refill()
	return page, true, nil
}

// rollOver appends the next file's PageInfos when the in-file backlog has
// run out, per the cross-file depth-1 prefetch rule: at most one file
// beyond the one currently being read is ever loaded.
func (c *Cursor) rollOver() error {
	if c.nextIndex < len(c.pageInfos) || !c.moreFiles || c.loadNextFile == nil {
		return nil
	}
	pages, hasMore, err := c.loadNextFile()
	if err != nil {
		return parqerr.Wrap(parqerr.Io, err, "loading next file for column cursor")
	}
	c.pageInfos = append(c.pageInfos, pages...)
	c.moreFiles = hasMore
	c.refill()
	return nil
}
