package parqstream

import (
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
	"github.com/dnlrv/parqstream/schema"
)

// List is one assembled list field's elements.
type List = []interface{}

// Map is one assembled map field's entries.
type Map = []MapEntry

// fail records a ConsumerMisuse error on the reader without ever panicking,
// per the design's "reading a column outside the projection, or with the
// wrong accessor ... is ConsumerMisuse, never a panic" rule. Only the first
// error is kept; the calling accessor returns its own zero value.
func (r *Reader) fail(format_ string, args ...interface{}) {
	if r.err == nil {
		r.err = parqerr.New(parqerr.ConsumerMisuse, format_, args...)
	}
}

func (r *Reader) leafFor(name string) (schema.ColumnSchema, bool) {
	for _, l := range r.leaves {
		if l.LeafName == name || joinPath(l.NamePath) == name {
			return l, true
		}
	}
	return schema.ColumnSchema{}, false
}

func (r *Reader) field(name string) (interface{}, bool) {
	if _, ok := r.leafFor(name); !ok {
		if _, isGroup := r.row[name]; !isGroup {
			r.fail("column %q not projected", name)
			return nil, false
		}
	}
	v, ok := r.row[name]
	return v, ok && v != nil
}

// GetInt reads an INT32-physical column. bool is false when the value is
// null or absent; a wrong-typed column sets Err() instead of panicking.
func (r *Reader) GetInt(name string) (int32, bool) {
	v, ok := r.field(name)
	if !ok {
		return 0, false
	}
	i, ok := v.(int32)
	if !ok {
		r.fail("column %q is not INT32", name)
		return 0, false
	}
	return i, true
}

func (r *Reader) GetLong(name string) (int64, bool) {
	v, ok := r.field(name)
	if !ok {
		return 0, false
	}
	i, ok := v.(int64)
	if !ok {
		r.fail("column %q is not INT64", name)
		return 0, false
	}
	return i, true
}

func (r *Reader) GetFloat(name string) (float32, bool) {
	v, ok := r.field(name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float32)
	if !ok {
		r.fail("column %q is not FLOAT", name)
		return 0, false
	}
	return f, true
}

func (r *Reader) GetDouble(name string) (float64, bool) {
	v, ok := r.field(name)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		r.fail("column %q is not DOUBLE", name)
		return 0, false
	}
	return f, true
}

func (r *Reader) GetBoolean(name string) (bool, bool) {
	v, ok := r.field(name)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail("column %q is not BOOLEAN", name)
		return false, false
	}
	return b, true
}

func (r *Reader) GetBinary(name string) ([]byte, bool) {
	v, ok := r.field(name)
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	if !ok {
		r.fail("column %q is not a byte-array physical type", name)
		return nil, false
	}
	return b, true
}

func (r *Reader) GetString(name string) (string, bool) {
	b, ok := r.GetBinary(name)
	if !ok {
		return "", false
	}
	return string(b), true
}

func (r *Reader) logicalFor(name string) (logicalView, bool) {
	leaf, ok := r.leafFor(name)
	if !ok {
		r.fail("column %q not projected", name)
		return logicalView{}, false
	}
	return logicalView{logical: leaf.Logical, physical: leaf.Physical}, true
}

func (r *Reader) GetDate(name string) (time.Time, bool) {
	view, ok := r.logicalFor(name)
	if !ok {
		return time.Time{}, false
	}
	raw, ok := r.GetInt(name)
	if !ok {
		return time.Time{}, false
	}
	return view.date(raw), true
}

func (r *Reader) GetTime(name string) (time.Duration, bool) {
	v, ok := r.field(name)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int32:
		return time.Duration(t) * time.Millisecond, true
	case int64:
		leaf, _ := r.leafFor(name)
		unit := format.Millis
		if leaf.Logical != nil {
			unit = leaf.Logical.Unit
		}
		switch unit {
		case format.Micros:
			return time.Duration(t) * time.Microsecond, true
		case format.Nanos:
			return time.Duration(t), true
		default:
			return time.Duration(t) * time.Millisecond, true
		}
	default:
		r.fail("column %q is not a TIME column", name)
		return 0, false
	}
}

func (r *Reader) GetTimestamp(name string) (time.Time, bool) {
	view, ok := r.logicalFor(name)
	if !ok {
		return time.Time{}, false
	}
	raw, ok := r.field(name)
	if !ok {
		return time.Time{}, false
	}
	ts, err := view.timestamp(raw)
	if err != nil {
		r.err = err
		return time.Time{}, false
	}
	return ts, true
}

func (r *Reader) GetDecimal(name string) (*big.Rat, bool) {
	view, ok := r.logicalFor(name)
	if !ok {
		return nil, false
	}
	raw, ok := r.field(name)
	if !ok {
		return nil, false
	}
	dec, err := view.decimal(raw)
	if err != nil {
		r.err = err
		return nil, false
	}
	return dec, true
}

func (r *Reader) GetUUID(name string) (uuid.UUID, bool) {
	view, ok := r.logicalFor(name)
	if !ok {
		return uuid.UUID{}, false
	}
	raw, ok := r.GetBinary(name)
	if !ok {
		return uuid.UUID{}, false
	}
	id, err := view.uuidValue(raw)
	if err != nil {
		r.err = err
		return uuid.UUID{}, false
	}
	return id, true
}

func (r *Reader) GetStruct(name string) (Record, bool) {
	v, ok := r.field(name)
	if !ok {
		return nil, false
	}
	rec, ok := v.(Record)
	if !ok {
		if m, isMap := v.(map[string]interface{}); isMap {
			return Record(m), true
		}
		r.fail("column %q is not a struct", name)
		return nil, false
	}
	return rec, true
}

func (r *Reader) GetList(name string) (List, bool) {
	v, ok := r.field(name)
	if !ok {
		return nil, false
	}
	ptr, ok := v.(*[]interface{})
	if !ok {
		r.fail("column %q is not a list", name)
		return nil, false
	}
	return *ptr, true
}

func (r *Reader) GetMap(name string) (Map, bool) {
	v, ok := r.field(name)
	if !ok {
		return nil, false
	}
	ptr, ok := v.(*[]MapEntry)
	if !ok {
		r.fail("column %q is not a map", name)
		return nil, false
	}
	return *ptr, true
}

// GetIntList, GetLongList, GetDoubleList skip the generic List boxing for
// the common case of a list of primitives.
func (r *Reader) GetIntList(name string) ([]int32, bool) {
	lst, ok := r.GetList(name)
	if !ok {
		return nil, false
	}
	out := make([]int32, 0, len(lst))
	for _, v := range lst {
		i, ok := v.(int32)
		if !ok {
			r.fail("column %q is not a list of INT32", name)
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

func (r *Reader) GetLongList(name string) ([]int64, bool) {
	lst, ok := r.GetList(name)
	if !ok {
		return nil, false
	}
	out := make([]int64, 0, len(lst))
	for _, v := range lst {
		i, ok := v.(int64)
		if !ok {
			r.fail("column %q is not a list of INT64", name)
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

func (r *Reader) GetDoubleList(name string) ([]float64, bool) {
	lst, ok := r.GetList(name)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(lst))
	for _, v := range lst {
		f, ok := v.(float64)
		if !ok {
			r.fail("column %q is not a list of DOUBLE", name)
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
