package parqstream

import (
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"

	"github.com/dnlrv/parqstream/column"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
	"github.com/dnlrv/parqstream/internal/workerpool"
	"github.com/dnlrv/parqstream/schema"
)

const (
	magic            = "PAR1"
	magicLength      = 4
	footerLengthSize = 4
)

// fileState is everything derived from one opened, mapped, parsed file:
// its footer metadata, schema tree, and the per-projected-column PageInfo
// lists gathered by scanning every row group's column chunks.
type fileState struct {
	mapping mmap.MMap
	meta    *format.FileMetaData
	schema  *schema.Node
	columns map[string][]column.PageInfo // projected column name -> pages, row-group order
}

func (fs *fileState) close() error {
	if fs.mapping == nil {
		return nil
	}
	return fs.mapping.Unmap()
}

// fileFuture resolves to a fileState exactly once, computed asynchronously
// on the shared worker pool.
type fileFuture struct {
	done  chan struct{}
	state *fileState
	err   error
}

func newFileFuture() *fileFuture { return &fileFuture{done: make(chan struct{})} }

func (f *fileFuture) resolve(state *fileState, err error) {
	f.state, f.err = state, err
	close(f.done)
}

func (f *fileFuture) wait() (*fileState, error) {
	<-f.done
	return f.state, f.err
}

// FileManager owns file handles and metadata for the set of input files and
// drives at-most-one-file-ahead prefetch, per the design's file manager
// contract: consumers ask for file N's pages, which lazily triggers N+1.
type FileManager struct {
	pool      *workerpool.Pool
	ownedPool bool
	paths     []string
	projected []string // column name path joined with "."

	mu      sync.Mutex
	futures map[int]*fileFuture

	baseSchema *schema.Node
}

// Option configures a FileManager.
type Option func(*FileManager)

// WithPool supplies a shared worker pool instead of creating a private one.
func WithPool(pool *workerpool.Pool) Option {
	return func(fm *FileManager) { fm.pool = pool }
}

// NewFileManager opens paths[0] eagerly (per the design's initialization
// step), reading its footer and scanning its projected columns; later files
// are scanned lazily via prefetch. projected is the list of dotted column
// name paths to read; a nil/empty list projects every leaf column.
func NewFileManager(paths []string, projected []string, opts ...Option) (*FileManager, error) {
	if len(paths) == 0 {
		return nil, parqerr.New(parqerr.ConsumerMisuse, "no input files given")
	}
	fm := &FileManager{paths: paths, projected: projected, futures: make(map[int]*fileFuture)}
	for _, opt := range opts {
		opt(fm)
	}
	if fm.pool == nil {
		fm.pool = workerpool.New(0)
		fm.ownedPool = true
	}

	state, err := fm.load(0)
	if err != nil {
		return nil, err
	}
	fm.baseSchema = state.schema
	f := newFileFuture()
	f.resolve(state, nil)
	fm.futures[0] = f
	fm.triggerPrefetch(0)
	return fm, nil
}

// Schema returns the schema tree derived from the first file.
func (fm *FileManager) Schema() *schema.Node { return fm.baseSchema }

// NumFiles reports how many input files this manager spans.
func (fm *FileManager) NumFiles() int { return len(fm.paths) }

// Close unmaps every file this manager has loaded so far and, if it owns
// its worker pool, shuts that down too.
func (fm *FileManager) Close() error {
	fm.mu.Lock()
	defer fm.mu.Unlock()
	var first error
	for _, f := range fm.futures {
		state, err := f.wait()
		if err != nil {
			continue
		}
		if err := state.close(); err != nil && first == nil {
			first = err
		}
	}
	if fm.ownedPool {
		fm.pool.Close()
	}
	return first
}

// GetPages blocks until file n's scan completes, then returns the PageInfos
// for the named projected column (dotted path), triggering n+1's scan if it
// hasn't started yet.
func (fm *FileManager) GetPages(n int, columnName string) ([]column.PageInfo, error) {
	state, err := fm.getState(n)
	if err != nil {
		return nil, err
	}
	fm.triggerPrefetch(n)
	pages, ok := state.columns[columnName]
	if !ok {
		return nil, parqerr.New(parqerr.ConsumerMisuse, "column %q not projected", columnName)
	}
	return pages, nil
}

// IsFileReady reports, without blocking, whether file n's scan has
// completed.
func (fm *FileManager) IsFileReady(n int) bool {
	fm.mu.Lock()
	f, ok := fm.futures[n]
	fm.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (fm *FileManager) getState(n int) (*fileState, error) {
	fm.mu.Lock()
	f, ok := fm.futures[n]
	if !ok {
		f = newFileFuture()
		fm.futures[n] = f
		fm.mu.Unlock()
		state, err := fm.load(n)
		f.resolve(state, err)
		return state, err
	}
	fm.mu.Unlock()
	return f.wait()
}

// triggerPrefetch ensures file n+1's future has been started, idempotently:
// the lookup of the map entry and the insertion of a new one both happen
// under fm.mu, so two callers never start the same file's scan twice.
func (fm *FileManager) triggerPrefetch(n int) {
	next := n + 1
	if next >= len(fm.paths) {
		return
	}
	fm.mu.Lock()
	if _, ok := fm.futures[next]; ok {
		fm.mu.Unlock()
		return
	}
	f := newFileFuture()
	fm.futures[next] = f
	fm.mu.Unlock()

	fm.pool.Submit(func() {
		state, err := fm.load(next)
		f.resolve(state, err)
	})
}

func (fm *FileManager) load(n int) (*fileState, error) {
	path := fm.paths[n]
	file, err := os.Open(path)
	if err != nil {
		return nil, parqerr.Wrap(parqerr.Io, err, "opening %s", path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, parqerr.Wrap(parqerr.Io, err, "statting %s", path)
	}
	size := info.Size()
	if size < int64(magicLength*2+footerLengthSize) {
		return nil, parqerr.New(parqerr.MalformedFile, "%s: too small to be a Parquet file", path)
	}

	mapping, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, parqerr.Wrap(parqerr.Io, err, "mapping %s", path)
	}
	// The OS file descriptor is not needed once the mapping exists; close
	// happens via the deferred file.Close above. The mapping itself stays
	// valid for the lifetime of fileState.

	if string(mapping[:magicLength]) != magic || string(mapping[len(mapping)-magicLength:]) != magic {
		mapping.Unmap()
		return nil, parqerr.New(parqerr.MalformedFile, "%s: missing PAR1 magic", path)
	}

	footerLenOff := len(mapping) - magicLength - footerLengthSize
	footerLength := int(le32(mapping[footerLenOff : footerLenOff+footerLengthSize]))
	footerStart := footerLenOff - footerLength
	if footerStart < 0 {
		mapping.Unmap()
		return nil, parqerr.New(parqerr.MalformedFile, "%s: footer_length %d exceeds file size", path, footerLength)
	}

	meta, err := format.ReadFileMetaData(mapping[footerStart:footerLenOff])
	if err != nil {
		mapping.Unmap()
		return nil, parqerr.Wrap(parqerr.MalformedFile, err, "%s: decoding footer", path)
	}

	root, err := schema.Build(meta.Schema)
	if err != nil {
		mapping.Unmap()
		return nil, err
	}

	if n > 0 {
		if err := checkSchemaCompatible(fm.baseSchema, root, fm.projected); err != nil {
			mapping.Unmap()
			return nil, err
		}
	}

	columns, err := scanProjectedColumns(mapping, meta, root, fm.projected)
	if err != nil {
		mapping.Unmap()
		return nil, err
	}

	return &fileState{mapping: mapping, meta: meta, schema: root, columns: columns}, nil
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// scanProjectedColumns walks every row group in declaration order, scanning
// each projected column's chunk (resolved by name, since column order may
// differ between files) and concatenating PageInfos across row groups.
func scanProjectedColumns(mapping []byte, meta *format.FileMetaData, root *schema.Node, projected []string) (map[string][]column.PageInfo, error) {
	leaves := schema.Leaves(root)
	wanted := projectedSet(projected, leaves)

	out := make(map[string][]column.PageInfo, len(wanted))
	for _, rg := range meta.RowGroups {
		for _, chunk := range rg.Columns {
			if chunk.MetaData == nil {
				continue
			}
			name := joinPath(chunk.MetaData.PathInSchema)
			if _, ok := wanted[name]; !ok {
				continue
			}
			leaf, ok := wanted[name]
			if !ok {
				continue
			}
			pages, _, err := column.ScanColumnChunk(mapping, chunk.MetaData, leaf.TypeLength)
			if err != nil {
				return nil, err
			}
			out[name] = append(out[name], pages...)
		}
	}
	return out, nil
}

func projectedSet(projected []string, leaves []schema.ColumnSchema) map[string]schema.ColumnSchema {
	set := make(map[string]schema.ColumnSchema, len(leaves))
	if len(projected) == 0 {
		for _, l := range leaves {
			set[joinPath(l.NamePath)] = l
		}
		return set
	}
	wanted := make(map[string]bool, len(projected))
	for _, p := range projected {
		wanted[p] = true
	}
	for _, l := range leaves {
		name := joinPath(l.NamePath)
		if wanted[name] {
			set[name] = l
		}
	}
	return set
}

func joinPath(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// checkSchemaCompatible enforces that every projected column in base also
// exists, with the same physical type, in other.
func checkSchemaCompatible(base, other *schema.Node, projected []string) error {
	baseLeaves := schema.Leaves(base)
	otherLeaves := schema.Leaves(other)
	wanted := projectedSet(projected, baseLeaves)
	otherByName := make(map[string]schema.ColumnSchema, len(otherLeaves))
	for _, l := range otherLeaves {
		otherByName[joinPath(l.NamePath)] = l
	}
	for name, want := range wanted {
		got, ok := otherByName[name]
		if !ok {
			return parqerr.New(parqerr.SchemaIncompatible, "column %q missing from a later file", name)
		}
		if got.Physical != want.Physical {
			return parqerr.New(parqerr.SchemaIncompatible, "column %q physical type mismatch: %s vs %s", name, want.Physical, got.Physical)
		}
	}
	return nil
}
