package column

import "github.com/dnlrv/parqstream/internal/parqerr"

// builder accumulates one column's values (and, on the nested path, their
// rep/def levels) across however many source pages a batch spans, then
// hands back a typed Page sized to what was actually written. Exactly one
// of the typed slices below is used, chosen from the blueprint page's
// concrete type — the tagged-variant discipline carried into batch assembly.
type builder struct {
	ints    []int32
	longs   []int64
	floats  []float32
	doubles []float64
	bools   []bool
	bytes   [][]byte

	defLevels []int32
	repLevels []int32
	maxDef    int
	maxRep    int
	n         int
}

func newBuilder(blueprint Page, capacity, maxDef, maxRep int) *builder {
	return newBuilderReuse(nil, blueprint, capacity, maxDef, maxRep)
}

// newBuilderReuse is newBuilder but, when reuse is non-nil, starts from its
// backing arrays (truncated to zero length) instead of allocating fresh
// ones — the recycling half of the assembly buffer's reusable-buffer pool.
func newBuilderReuse(reuse Page, blueprint Page, capacity, maxDef, maxRep int) *builder {
	b := &builder{maxDef: maxDef, maxRep: maxRep}
	if reuse != nil {
		switch p := reuse.(type) {
		case *IntPage:
			b.ints = p.Values[:0]
		case *LongPage:
			b.longs = p.Values[:0]
		case *FloatPage:
			b.floats = p.Values[:0]
		case *DoublePage:
			b.doubles = p.Values[:0]
		case *BooleanPage:
			b.bools = p.Values[:0]
		case *ByteArrayPage:
			b.bytes = p.Values[:0]
		}
		if maxDef > 0 {
			b.defLevels = reuse.Meta().DefinitionLevels[:0]
		}
		if maxRep > 0 {
			b.repLevels = reuse.Meta().RepetitionLevels[:0]
		}
		return b
	}
	switch blueprint.(type) {
	case *IntPage:
		b.ints = make([]int32, 0, capacity)
	case *LongPage:
		b.longs = make([]int64, 0, capacity)
	case *FloatPage:
		b.floats = make([]float32, 0, capacity)
	case *DoublePage:
		b.doubles = make([]float64, 0, capacity)
	case *BooleanPage:
		b.bools = make([]bool, 0, capacity)
	case *ByteArrayPage:
		b.bytes = make([][]byte, 0, capacity)
	}
	if maxDef > 0 {
		b.defLevels = make([]int32, 0, capacity)
	}
	if maxRep > 0 {
		b.repLevels = make([]int32, 0, capacity)
	}
	return b
}

// appendRange copies n consecutive values from src starting at srcOff.
func (b *builder) appendRange(src Page, srcOff, n int) error {
	meta := src.Meta()
	switch p := src.(type) {
	case *IntPage:
		b.ints = append(b.ints, p.Values[srcOff:srcOff+n]...)
	case *LongPage:
		b.longs = append(b.longs, p.Values[srcOff:srcOff+n]...)
	case *FloatPage:
		b.floats = append(b.floats, p.Values[srcOff:srcOff+n]...)
	case *DoublePage:
		b.doubles = append(b.doubles, p.Values[srcOff:srcOff+n]...)
	case *BooleanPage:
		b.bools = append(b.bools, p.Values[srcOff:srcOff+n]...)
	case *ByteArrayPage:
		b.bytes = append(b.bytes, p.Values[srcOff:srcOff+n]...)
	default:
		return parqerr.New(parqerr.ConsumerMisuse, "unsupported page type %T", src)
	}
	if b.defLevels != nil {
		if meta.DefinitionLevels == nil {
			return parqerr.New(parqerr.MalformedFile, "column has max_def > 0 but page carries no definition levels")
		}
		b.defLevels = append(b.defLevels, meta.DefinitionLevels[srcOff:srcOff+n]...)
	}
	if b.repLevels != nil {
		if meta.RepetitionLevels == nil {
			return parqerr.New(parqerr.MalformedFile, "column has max_rep > 0 but page carries no repetition levels")
		}
		b.repLevels = append(b.repLevels, meta.RepetitionLevels[srcOff:srcOff+n]...)
	}
	b.n += n
	return nil
}

// appendOne copies a single value at index idx, used by the nested path
// which walks one value at a time to find record boundaries.
func (b *builder) appendOne(src Page, idx int) error {
	return b.appendRange(src, idx, 1)
}

func (b *builder) finish() Page {
	meta := Meta{
		DefinitionLevels: b.defLevels,
		RepetitionLevels: b.repLevels,
		MaxDefLevel:      b.maxDef,
		MaxRepLevel:      b.maxRep,
		NumValues:        b.n,
	}
	switch {
	case b.ints != nil:
		return &IntPage{Values: b.ints, M: meta}
	case b.longs != nil:
		return &LongPage{Values: b.longs, M: meta}
	case b.floats != nil:
		return &FloatPage{Values: b.floats, M: meta}
	case b.doubles != nil:
		return &DoublePage{Values: b.doubles, M: meta}
	case b.bools != nil:
		return &BooleanPage{Values: b.bools, M: meta}
	default:
		return &ByteArrayPage{Values: b.bytes, M: meta}
	}
}
