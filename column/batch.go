package column

// Batch is a bounded group of consecutive rows for one column: either a
// FlatBatch (max_rep == 0) or a NestedBatch.
type Batch interface {
	Records() int
}

// FlatBatch holds up to RecordCount primitive values (one per row) plus an
// optional null bit-set; the underlying array type mirrors the column's
// physical type the same way Page does.
type FlatBatch struct {
	Page        Page // Values holds exactly RecordCount entries
	Nulls       []bool
	RecordCount int
}

func (b *FlatBatch) Records() int { return b.RecordCount }

// NestedBatch holds a run of column values spanning possibly many records,
// delimited by RecordOffsets.
type NestedBatch struct {
	Page          Page
	RecordOffsets []int32 // length RecordCount+1; entry i is the start of record i
	MaxDefLevel   int
	RecordCount   int
}

func (b *NestedBatch) Records() int { return b.RecordCount }
