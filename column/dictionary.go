package column

import (
	"github.com/dnlrv/parqstream/encoding/plain"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
)

// Dictionary is a column chunk's shared value table, built once from a
// DICTIONARY_PAGE and referenced read-only by every data page that follows.
type Dictionary interface {
	Physical() format.Type
	Len() int
}

type IntDictionary struct{ Values []int32 }

func (d *IntDictionary) Physical() format.Type { return format.Int32 }
func (d *IntDictionary) Len() int              { return len(d.Values) }

type LongDictionary struct{ Values []int64 }

func (d *LongDictionary) Physical() format.Type { return format.Int64 }
func (d *LongDictionary) Len() int              { return len(d.Values) }

type FloatDictionary struct{ Values []float32 }

func (d *FloatDictionary) Physical() format.Type { return format.Float }
func (d *FloatDictionary) Len() int              { return len(d.Values) }

type DoubleDictionary struct{ Values []float64 }

func (d *DoubleDictionary) Physical() format.Type { return format.Double }
func (d *DoubleDictionary) Len() int              { return len(d.Values) }

type ByteArrayDictionary struct {
	Values       [][]byte
	PhysicalType format.Type
}

func (d *ByteArrayDictionary) Physical() format.Type { return d.PhysicalType }
func (d *ByteArrayDictionary) Len() int              { return len(d.Values) }

// NewDictionary decodes a decompressed DICTIONARY_PAGE body (always
// PLAIN-encoded) of numValues entries of the given physical type.
func NewDictionary(physical format.Type, typeLength int32, numValues int, body []byte) (Dictionary, error) {
	switch physical {
	case format.Boolean:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "dictionary encoding is not valid for BOOLEAN columns")

	case format.Int32:
		values := make([]int32, numValues)
		if _, err := plain.DecodeInt32(values, body); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding INT32 dictionary")
		}
		return &IntDictionary{Values: values}, nil

	case format.Int64:
		values := make([]int64, numValues)
		if _, err := plain.DecodeInt64(values, body); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding INT64 dictionary")
		}
		return &LongDictionary{Values: values}, nil

	case format.Float:
		values := make([]float32, numValues)
		if _, err := plain.DecodeFloat(values, body); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding FLOAT dictionary")
		}
		return &FloatDictionary{Values: values}, nil

	case format.Double:
		values := make([]float64, numValues)
		if _, err := plain.DecodeDouble(values, body); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding DOUBLE dictionary")
		}
		return &DoubleDictionary{Values: values}, nil

	case format.ByteArray:
		values := make([][]byte, numValues)
		if _, err := plain.DecodeByteArray(values, body); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding BYTE_ARRAY dictionary")
		}
		return &ByteArrayDictionary{Values: values, PhysicalType: format.ByteArray}, nil

	case format.FixedLenByteArray:
		values := make([][]byte, numValues)
		if _, err := plain.DecodeFixedLenByteArray(values, body, int(typeLength)); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding FIXED_LEN_BYTE_ARRAY dictionary")
		}
		return &ByteArrayDictionary{Values: values, PhysicalType: format.FixedLenByteArray}, nil

	case format.Int96:
		values := make([][]byte, numValues)
		if _, err := plain.DecodeFixedLenByteArray(values, body, 12); err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decoding INT96 dictionary")
		}
		return &ByteArrayDictionary{Values: values, PhysicalType: format.Int96}, nil

	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "dictionary for physical type %s", physical)
	}
}

