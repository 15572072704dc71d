package parqstream

import (
	"github.com/dnlrv/parqstream/column"
	"github.com/dnlrv/parqstream/schema"
)

// Record is one assembled row: field name to value, where value is a
// primitive, nil (absent/null), a nested Record (struct), a *[]interface{}
// (list), or a *[]MapEntry (map).
type Record map[string]interface{}

// MapEntry is one key/value pair of an assembled map field.
type MapEntry struct {
	Key   interface{}
	Value interface{}
}

// columnSource adapts a column.Batch to the (def, rep, value) triples the
// Dremel walk needs, independent of whether the batch is flat or nested.
type columnSource struct {
	page          column.Page
	defLevels     []int32
	repLevels     []int32
	recordOffsets []int32 // nil for flat batches: record r is value index r
}

func newColumnSource(batch column.Batch) columnSource {
	switch b := batch.(type) {
	case *column.FlatBatch:
		return columnSource{page: b.Page, defLevels: b.Page.Meta().DefinitionLevels}
	case *column.NestedBatch:
		meta := b.Page.Meta()
		return columnSource{page: b.Page, defLevels: meta.DefinitionLevels, repLevels: meta.RepetitionLevels, recordOffsets: b.RecordOffsets}
	default:
		return columnSource{}
	}
}

func (s columnSource) valueRange(record int) (start, end int) {
	if s.recordOffsets != nil {
		return int(s.recordOffsets[record]), int(s.recordOffsets[record+1])
	}
	return record, record + 1
}

func (s columnSource) defAt(i, maxDef int) int {
	if s.defLevels == nil {
		return maxDef
	}
	return int(s.defLevels[i])
}

func (s columnSource) repAt(i int) int {
	if s.repLevels == nil {
		return 0
	}
	return int(s.repLevels[i])
}

// AssembleRecord reconstructs one nested record from a set of per-column
// batches, all drawn from the same underlying record range, following each
// column's FieldPath independently (sibling columns of a shared repeated
// parent have parallel structure and so never need cross-column
// coordination to merge correctly).
func AssembleRecord(paths []schema.FieldPath, batches []column.Batch, record int) Record {
	root := make(Record)
	for i, path := range paths {
		if i >= len(batches) || batches[i] == nil {
			continue
		}
		assembleColumn(root, path, newColumnSource(batches[i]), record)
	}
	return root
}

func assembleColumn(root Record, path schema.FieldPath, src columnSource, record int) {
	start, end := src.valueRange(record)
	indices := make([]int, path.MaxRep+1)
	for i := start; i < end; i++ {
		def := src.defAt(i, path.MaxDef)
		rep := src.repAt(i)

		for k := rep + 1; k < len(indices); k++ {
			indices[k] = 0
		}
		if rep > 0 {
			indices[rep]++
		}

		var value interface{}
		if def == path.MaxDef {
			value = column.ValueAt(src.page, i)
		}
		insertValue(root, path.Steps, indices, def, value)
	}
}

// insertValue walks steps, threading through three container shapes: a
// struct (map[string]interface{}, the common case), a list element
// (*interface{}, addressable so growth-by-append on the parent slice is
// visible), and a map entry (*MapEntry, selected by the following step's
// FieldIndex: 0 for key, 1 for value).
const (
	modeStruct = iota
	modeElem
	modeEntry
)

// slotRef is an addressable reference into whichever container shape is
// active — a struct's named field, a list element, or a map entry's key or
// value — so StepList/StepMap can fetch-or-create their container
// regardless of what kind of slot they were reached through.
type slotRef struct {
	get func() interface{}
	set func(interface{})
}

func containerSlot(mode int, curMap map[string]interface{}, step schema.Step, curElem *interface{}, curEntry *MapEntry) slotRef {
	switch mode {
	case modeElem:
		return slotRef{get: func() interface{} { return *curElem }, set: func(v interface{}) { *curElem = v }}
	case modeEntry:
		s := entrySlot(curEntry, step.FieldIndex)
		return slotRef{get: func() interface{} { return *s }, set: func(v interface{}) { *s = v }}
	default:
		return slotRef{get: func() interface{} { return curMap[step.Name] }, set: func(v interface{}) { curMap[step.Name] = v }}
	}
}

func insertValue(root Record, steps []schema.Step, indices []int, def int, value interface{}) {
	curMap := map[string]interface{}(root)
	var curElem *interface{}
	var curEntry *MapEntry
	mode := modeStruct

	var listPtr *[]interface{}
	var mapPtr *[]MapEntry
	pendingList := false
	repDepth := 0

	for _, step := range steps {
		if step.DefinitionLevel > def {
			return
		}
		switch step.Kind {
		case schema.StepStruct:
			switch mode {
			case modeStruct:
				child, ok := curMap[step.Name].(map[string]interface{})
				if !ok {
					child = map[string]interface{}{}
					curMap[step.Name] = child
				}
				curMap = child
			case modeElem:
				m, ok := (*curElem).(map[string]interface{})
				if !ok {
					m = map[string]interface{}{}
					*curElem = m
				}
				curMap = m
				mode = modeStruct
			case modeEntry:
				slot := entrySlot(curEntry, step.FieldIndex)
				m, ok := (*slot).(map[string]interface{})
				if !ok {
					m = map[string]interface{}{}
					*slot = m
				}
				curMap = m
				mode = modeStruct
			}

		case schema.StepList:
			slot := containerSlot(mode, curMap, step, curElem, curEntry)
			existing, ok := slot.get().(*[]interface{})
			if !ok {
				fresh := []interface{}{}
				existing = &fresh
				slot.set(existing)
			}
			listPtr = existing
			pendingList = true

		case schema.StepMap:
			slot := containerSlot(mode, curMap, step, curElem, curEntry)
			existing, ok := slot.get().(*[]MapEntry)
			if !ok {
				fresh := []MapEntry{}
				existing = &fresh
				slot.set(existing)
			}
			mapPtr = existing
			pendingList = false

		case schema.StepRepeated:
			repDepth++
			idx := indices[repDepth]
			if pendingList {
				for len(*listPtr) <= idx {
					*listPtr = append(*listPtr, nil)
				}
				curElem = &(*listPtr)[idx]
				mode = modeElem
			} else {
				for len(*mapPtr) <= idx {
					*mapPtr = append(*mapPtr, MapEntry{})
				}
				curEntry = &(*mapPtr)[idx]
				mode = modeEntry
			}

		case schema.StepLeaf:
			switch mode {
			case modeStruct:
				curMap[step.Name] = value
			case modeElem:
				*curElem = value
			case modeEntry:
				*entrySlot(curEntry, step.FieldIndex) = value
			}
		}
	}
}

func entrySlot(entry *MapEntry, fieldIndex int) *interface{} {
	if fieldIndex == 0 {
		return &entry.Key
	}
	return &entry.Value
}
