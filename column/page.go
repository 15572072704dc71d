// Package column holds the tagged Page/Dictionary variants, the page
// scanner/reader/cursor, the column iterator, and the producer/consumer
// assembly buffer — the decode pipeline between a memory-mapped column
// chunk and a ColumnBatch ready for Dremel assembly.
package column

import "github.com/dnlrv/parqstream/format"

// Meta carries the fields every Page variant shares: rep/def level arrays
// (nil when the column has no optional/repeated ancestors) and the leaf's
// max definition level, needed to tell a present value from a null.
type Meta struct {
	DefinitionLevels []int32
	RepetitionLevels []int32
	MaxDefLevel      int
	MaxRepLevel      int
	NumValues        int
}

// Page is a decoded data page: a tagged variant per physical type, per the
// design's instruction to avoid a generic polymorphic value engine.
type Page interface {
	Physical() format.Type
	Meta() Meta
}

type IntPage struct {
	Values []int32
	M      Meta
}

func (p *IntPage) Physical() format.Type { return format.Int32 }
func (p *IntPage) Meta() Meta            { return p.M }

type LongPage struct {
	Values []int64
	M      Meta
}

func (p *LongPage) Physical() format.Type { return format.Int64 }
func (p *LongPage) Meta() Meta            { return p.M }

type FloatPage struct {
	Values []float32
	M      Meta
}

func (p *FloatPage) Physical() format.Type { return format.Float }
func (p *FloatPage) Meta() Meta            { return p.M }

type DoublePage struct {
	Values []float64
	M      Meta
}

func (p *DoublePage) Physical() format.Type { return format.Double }
func (p *DoublePage) Meta() Meta            { return p.M }

type BooleanPage struct {
	Values []bool
	M      Meta
}

func (p *BooleanPage) Physical() format.Type { return format.Boolean }
func (p *BooleanPage) Meta() Meta            { return p.M }

// ByteArrayPage backs BYTE_ARRAY, FIXED_LEN_BYTE_ARRAY, and INT96 columns:
// all three are, physically, arrays of byte strings: The fixed-width two
// just happen to share a constant length.
type ByteArrayPage struct {
	Values      [][]byte
	PhysicalType format.Type
	M           Meta
}

func (p *ByteArrayPage) Physical() format.Type { return p.PhysicalType }
func (p *ByteArrayPage) Meta() Meta            { return p.M }

// ValueAt returns the i'th value of page as an untyped interface{}, boxing
// the concrete variant's element. Used by the record assembler, which deals
// in schema-shaped trees rather than typed arrays.
func ValueAt(page Page, i int) interface{} {
	switch p := page.(type) {
	case *IntPage:
		return p.Values[i]
	case *LongPage:
		return p.Values[i]
	case *FloatPage:
		return p.Values[i]
	case *DoublePage:
		return p.Values[i]
	case *BooleanPage:
		return p.Values[i]
	case *ByteArrayPage:
		return p.Values[i]
	default:
		return nil
	}
}

// Blueprint returns an empty Page of the concrete variant matching physical,
// used by iterators and builders to select which typed arrays to allocate
// without switching on format.Type everywhere.
func Blueprint(physical format.Type) Page {
	switch physical {
	case format.Int32:
		return &IntPage{}
	case format.Int64:
		return &LongPage{}
	case format.Float:
		return &FloatPage{}
	case format.Double:
		return &DoublePage{}
	case format.Boolean:
		return &BooleanPage{}
	default:
		return &ByteArrayPage{PhysicalType: physical}
	}
}
