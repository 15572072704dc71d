// Package parqstream is a streaming, row-oriented reader for Apache
// Parquet files: open one or more files sharing a schema, iterate rows in
// file order, and read column values through typed accessors without ever
// materializing a whole row group in memory.
package parqstream

import (
	"github.com/dnlrv/parqstream/column"
	"github.com/dnlrv/parqstream/internal/workerpool"
	"github.com/dnlrv/parqstream/schema"
)

// defaultBatchCapacity is the column iterator's max_records: how many rows
// worth of values each ColumnBatch holds before the record assembler needs
// the next one.
const defaultBatchCapacity = 1024

// Reader streams rows out of one or more Parquet files with the same (or
// compatible) schema. Not safe for concurrent use: it is the sole consumer
// of its decoded batches, per the design's single-row-reader-thread rule.
type Reader struct {
	fm          *FileManager
	pool        *workerpool.Pool
	ownedPool   bool
	leaves      []schema.ColumnSchema
	paths       []schema.FieldPath
	cursors     []*column.Cursor
	iterators   []*column.Iterator
	buffers     []*column.AssemblyBuffer // non-nil for flat (max_rep == 0) columns
	batches     []column.Batch
	pos         int // position within the current batch group
	groupSize   int // records actually held by the current batch group
	fileCursors []*perColumnFileState

	row Record
	err error
}

// perColumnFileState tracks, for one leaf column, which file its Cursor is
// currently reading from, so its NextFileFunc hook knows which file to load
// next when the column's pages run out.
type perColumnFileState struct {
	columnName string
	nextFile   int
}

// Open opens paths[0] eagerly and prepares to stream every projected
// column. projected is a list of dotted leaf column name paths; nil
// projects the whole schema.
func Open(paths []string, projected []string) (*Reader, error) {
	pool := workerpool.New(0)
	fm, err := NewFileManager(paths, projected, WithPool(pool))
	if err != nil {
		pool.Close()
		return nil, err
	}

	leaves := schema.Leaves(fm.Schema())
	if len(projected) > 0 {
		leaves = filterLeaves(leaves, projected)
	}
	fieldPaths := schema.BuildFieldPaths(fm.Schema())
	fieldPaths = filterFieldPaths(fieldPaths, leaves)

	r := &Reader{fm: fm, pool: pool, ownedPool: true, leaves: leaves, paths: fieldPaths}

	r.cursors = make([]*column.Cursor, len(leaves))
	r.iterators = make([]*column.Iterator, len(leaves))
	r.buffers = make([]*column.AssemblyBuffer, len(leaves))
	r.fileCursors = make([]*perColumnFileState, len(leaves))
	r.batches = make([]column.Batch, len(leaves))

	for i, leaf := range leaves {
		name := joinPath(leaf.NamePath)
		pages, err := fm.GetPages(0, name)
		if err != nil {
			r.Close()
			return nil, err
		}
		state := &perColumnFileState{columnName: name, nextFile: 1}
		r.fileCursors[i] = state
		cursor := column.NewCursor(pages, leaf.MaxDef, leaf.MaxRep, pool, r.nextFileFuncFor(state))
		r.cursors[i] = cursor
		it := column.NewIterator(cursor, column.Blueprint(leaf.Physical), leaf.MaxDef, leaf.MaxRep, defaultBatchCapacity)
		r.iterators[i] = it
		if leaf.MaxRep == 0 {
			r.buffers[i] = column.NewAssemblyBuffer(it)
		}
	}

	return r, nil
}

func (r *Reader) nextFileFuncFor(state *perColumnFileState) column.NextFileFunc {
	return func() ([]column.PageInfo, bool, error) {
		if state.nextFile >= r.fm.NumFiles() {
			return nil, false, nil
		}
		pages, err := r.fm.GetPages(state.nextFile, state.columnName)
		if err != nil {
			return nil, false, err
		}
		state.nextFile++
		return pages, state.nextFile < r.fm.NumFiles(), nil
	}
}

func filterLeaves(leaves []schema.ColumnSchema, projected []string) []schema.ColumnSchema {
	wanted := make(map[string]bool, len(projected))
	for _, p := range projected {
		wanted[p] = true
	}
	out := make([]schema.ColumnSchema, 0, len(projected))
	for _, l := range leaves {
		if wanted[joinPath(l.NamePath)] {
			out = append(out, l)
		}
	}
	return out
}

func filterFieldPaths(paths []schema.FieldPath, leaves []schema.ColumnSchema) []schema.FieldPath {
	wanted := make(map[int]bool, len(leaves))
	for _, l := range leaves {
		wanted[l.ColumnIndex] = true
	}
	out := make([]schema.FieldPath, 0, len(leaves))
	for _, p := range paths {
		if wanted[p.ColumnIndex] {
			out = append(out, p)
		}
	}
	return out
}

// Next advances to the next row, refilling column batches as needed. It
// returns false at end of stream or on error; callers must check Err.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	if r.pos >= r.groupSize {
		if !r.refill() {
			return false
		}
	}
	r.row = AssembleRecord(r.paths, r.batches, r.pos)
	r.pos++
	return true
}

func (r *Reader) refill() bool {
	minRecords := -1
	for i, it := range r.iterators {
		var batch column.Batch
		var err error
		if buf := r.buffers[i]; buf != nil {
			if prev := r.batches[i]; prev != nil {
				buf.Release(prev)
			}
			batch, err = buf.AwaitNextBatch()
		} else {
			batch, err = it.NextBatch()
		}
		if err != nil {
			r.err = err
			return false
		}
		r.batches[i] = batch
		if minRecords == -1 || batch.Records() < minRecords {
			minRecords = batch.Records()
		}
	}
	if minRecords <= 0 {
		return false
	}
	r.groupSize = minRecords
	r.pos = 0
	return true
}

// Record returns the row most recently produced by Next.
func (r *Reader) Record() Record { return r.row }

// Err returns the first error encountered during iteration, if any.
func (r *Reader) Err() error { return r.err }

// Close releases the reader's file mappings and worker pool.
func (r *Reader) Close() error {
	var err error
	for _, buf := range r.buffers {
		if buf != nil {
			buf.Close()
		}
	}
	if r.fm != nil {
		err = r.fm.Close()
		r.fm = nil
	}
	if r.ownedPool && r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
	return err
}

// Schema returns the schema tree of the first input file.
func (r *Reader) Schema() *schema.Node { return r.fm.Schema() }
