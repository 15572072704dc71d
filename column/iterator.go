package column

import "github.com/dnlrv/parqstream/internal/parqerr"

// Iterator converts a Cursor's Page stream into fixed-size Batches, taking
// the flat or nested path depending on the column's max_rep.
type Iterator struct {
	cursor      *Cursor
	blueprint   Page
	maxDef      int
	maxRep      int
	maxRecords  int
	currentPage Page
	pagePos     int
	exhausted   bool
	reuse       Page
}

// NewIterator builds an Iterator for one column. blueprint is any Page value
// of the column's physical type (its own Values/Meta are ignored), used to
// know which concrete type to allocate per batch.
func NewIterator(cursor *Cursor, blueprint Page, maxDef, maxRep, maxRecords int) *Iterator {
	return &Iterator{cursor: cursor, blueprint: blueprint, maxDef: maxDef, maxRep: maxRep, maxRecords: maxRecords}
}

// NextBatch pulls pages until maxRecords rows are assembled, the cursor is
// exhausted, or (on the nested path) a record boundary forces a shorter
// batch. An empty, non-nil batch with Records()==0 signals end-of-stream.
func (it *Iterator) NextBatch() (Batch, error) {
	if it.maxRep == 0 {
		return it.nextFlatBatch()
	}
	return it.nextNestedBatch()
}

func (it *Iterator) fillPage() (bool, error) {
	if it.currentPage != nil && it.pagePos < pageLen(it.currentPage) {
		return true, nil
	}
	if it.exhausted {
		return false, nil
	}
	page, ok, err := it.cursor.NextPage()
	if err != nil {
		return false, err
	}
	if !ok {
		it.exhausted = true
		return false, nil
	}
	it.currentPage = page
	it.pagePos = 0
	return true, nil
}

// Recycle returns a previously-emitted flat batch's backing arrays for
// reuse by the next nextFlatBatch call, the reusable-buffer-pool half of
// the assembly buffer pipeline. Safe to call with nil.
func (it *Iterator) Recycle(page Page) {
	it.reuse = page
}

func (it *Iterator) nextFlatBatch() (Batch, error) {
	b := newBuilderReuse(it.reuse, it.blueprint, it.maxRecords, it.maxDef, 0)
	it.reuse = nil
	var nulls []bool
	if it.maxDef > 0 {
		nulls = make([]bool, 0, it.maxRecords)
	}
	records := 0

	for records < it.maxRecords {
		ok, err := it.fillPage()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page := it.currentPage
		remaining := pageLen(page) - it.pagePos
		toCopy := it.maxRecords - records
		if toCopy > remaining {
			toCopy = remaining
		}
		defLevels := page.Meta().DefinitionLevels
		if nulls != nil {
			for i := 0; i < toCopy; i++ {
				nulls = append(nulls, defLevels != nil && int(defLevels[it.pagePos+i]) < it.maxDef)
			}
		}
		if err := b.appendRange(page, it.pagePos, toCopy); err != nil {
			return nil, err
		}
		it.pagePos += toCopy
		records += toCopy
	}

	return &FlatBatch{Page: b.finish(), Nulls: nulls, RecordCount: records}, nil
}

func (it *Iterator) nextNestedBatch() (Batch, error) {
	b := newBuilder(it.blueprint, it.maxRecords, it.maxDef, it.maxRep)
	offsets := make([]int32, 0, it.maxRecords+1)
	pos := 0
	records := 0
	openRecord := false

	for records < it.maxRecords {
		ok, err := it.fillPage()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		page := it.currentPage
		repLevels := page.Meta().RepetitionLevels
		if repLevels == nil {
			return nil, parqerr.New(parqerr.MalformedFile, "nested column page missing repetition levels")
		}

		for it.pagePos < pageLen(page) {
			if repLevels[it.pagePos] == 0 {
				if openRecord {
					records++
					openRecord = false
				}
				if records >= it.maxRecords {
					goto done
				}
				offsets = append(offsets, int32(pos))
				openRecord = true
			}
			if err := b.appendOne(page, it.pagePos); err != nil {
				return nil, err
			}
			pos++
			it.pagePos++
		}
	}
done:
	if openRecord {
		records++
	}
	offsets = append(offsets, int32(pos))
	return &NestedBatch{Page: b.finish(), RecordOffsets: offsets, MaxDefLevel: it.maxDef, RecordCount: records}, nil
}

func pageLen(p Page) int { return p.Meta().NumValues }
