// Package thrift implements just enough of the Thrift compact protocol to
// decode Parquet's file footer and page headers: struct/field headers,
// zig-zag varints, and the handful of primitive field types those two
// structures use. It has no knowledge of Parquet semantics above the wire
// format; format/decode.go is what turns these primitives into
// format.FileMetaData and format.PageHeader.
package thrift

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Compact-protocol field types (see the Thrift compact protocol spec).
const (
	TypeStop   = 0x00
	TypeTrue   = 0x01
	TypeFalse  = 0x02
	TypeByte   = 0x03
	TypeI16    = 0x04
	TypeI32    = 0x05
	TypeI64    = 0x06
	TypeDouble = 0x07
	TypeBinary = 0x08
	TypeList   = 0x09
	TypeSet    = 0x0a
	TypeMap    = 0x0b
	TypeStruct = 0x0c
)

// Reader decodes Thrift compact-protocol structs out of an in-memory byte
// slice (Parquet footers and page headers are always small and already
// resident in the memory-mapped file, so there is no streaming reader here).
type Reader struct {
	data  []byte
	pos   int
	stack []int16 // saved lastFieldID per nested struct
	last  int16
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current byte offset into the original data slice.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the unconsumed suffix of the original data slice.
func (r *Reader) Remaining() []byte { return r.data[r.pos:] }

func (r *Reader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("thrift: unexpected end of input")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) readBytes(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("thrift: unexpected end of input reading %d bytes", n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *Reader) readUvarint() (uint64, error) {
	var value uint64
	for shift := uint(0); shift < 64; shift += 7 {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, nil
		}
	}
	return 0, fmt.Errorf("thrift: varint too long")
}

func zigzag32(u uint64) int32 { return int32(uint32(u>>1)) ^ -int32(u&1) }
func zigzag64(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// ReadI16 reads a zig-zag varint into an int16.
func (r *Reader) ReadI16() (int16, error) {
	u, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	return int16(zigzag32(u)), nil
}

// ReadI32 reads a zig-zag varint into an int32.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	return zigzag32(u), nil
}

// ReadI64 reads a zig-zag varint into an int64.
func (r *Reader) ReadI64() (int64, error) {
	u, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	return zigzag64(u), nil
}

// ReadByteValue reads a single raw byte (Thrift's "byte" type, not zig-zag).
func (r *Reader) ReadByteValue() (byte, error) { return r.readByte() }

// ReadBool reads a boolean; for struct fields the value is usually carried
// in the field header type instead (see ReadFieldHeader), but Thrift lists
// of booleans still encode one byte per element.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadDouble reads a little-endian IEEE-754 double.
func (r *Reader) ReadDouble() (float64, error) {
	b, err := r.readBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadBinary reads a length-prefixed (unsigned varint) byte string,
// zero-copy into the underlying data slice.
func (r *Reader) ReadBinary() ([]byte, error) {
	n, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	return r.readBytes(int(n))
}

// ReadString reads a length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBinary()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StructBegin pushes the enclosing struct's field-id delta tracking.
func (r *Reader) StructBegin() {
	r.stack = append(r.stack, r.last)
	r.last = 0
}

// StructEnd pops back to the enclosing struct's field-id tracking.
func (r *Reader) StructEnd() {
	n := len(r.stack)
	r.last = r.stack[n-1]
	r.stack = r.stack[:n-1]
}

// FieldHeader is the decoded (type, id) pair of one struct field, or Stop
// when the struct has no more fields.
type FieldHeader struct {
	Type byte
	ID   int16
	Stop bool
}

// ReadFieldHeader decodes the next field header, per the compact protocol's
// short-form (4-bit id delta) and long-form (zig-zag varint absolute id)
// encodings.
func (r *Reader) ReadFieldHeader() (FieldHeader, error) {
	b, err := r.readByte()
	if err != nil {
		return FieldHeader{}, err
	}
	if b == TypeStop {
		return FieldHeader{Stop: true}, nil
	}
	delta := int16(b >> 4)
	fieldType := b & 0x0f
	var id int16
	if delta == 0 {
		id, err = r.ReadI16()
		if err != nil {
			return FieldHeader{}, err
		}
	} else {
		id = r.last + delta
	}
	r.last = id
	return FieldHeader{Type: fieldType, ID: id}, nil
}

// ListHeader is the decoded (element type, size) of a compact-protocol list
// or set.
type ListHeader struct {
	ElemType byte
	Size     int
}

// ReadListHeader decodes a list/set header: either a single byte combining a
// size < 15 with the element type, or a byte with size-nibble 0xf followed
// by a separate unsigned varint size.
func (r *Reader) ReadListHeader() (ListHeader, error) {
	b, err := r.readByte()
	if err != nil {
		return ListHeader{}, err
	}
	size := int(b >> 4)
	elemType := b & 0x0f
	if size == 0x0f {
		n, err := r.readUvarint()
		if err != nil {
			return ListHeader{}, err
		}
		size = int(n)
	}
	return ListHeader{ElemType: elemType, Size: size}, nil
}

// SkipField consumes and discards the value of a field whose type the
// caller does not recognize, so unknown/future fields never break decoding.
func (r *Reader) SkipField(fieldType byte) error {
	switch fieldType {
	case TypeTrue, TypeFalse:
		return nil
	case TypeByte:
		_, err := r.readByte()
		return err
	case TypeI16, TypeI32, TypeI64:
		_, err := r.readUvarint()
		return err
	case TypeDouble:
		_, err := r.readBytes(8)
		return err
	case TypeBinary:
		_, err := r.ReadBinary()
		return err
	case TypeStruct:
		r.StructBegin()
		for {
			fh, err := r.ReadFieldHeader()
			if err != nil {
				return err
			}
			if fh.Stop {
				break
			}
			if err := r.SkipField(fh.Type); err != nil {
				return err
			}
		}
		r.StructEnd()
		return nil
	case TypeList, TypeSet:
		lh, err := r.ReadListHeader()
		if err != nil {
			return err
		}
		for i := 0; i < lh.Size; i++ {
			if err := r.SkipField(lh.ElemType); err != nil {
				return err
			}
		}
		return nil
	case TypeMap:
		if lh, err := r.readMapHeader(); err != nil {
			return err
		} else {
			for i := 0; i < lh.size; i++ {
				if err := r.SkipField(lh.keyType); err != nil {
					return err
				}
				if err := r.SkipField(lh.valueType); err != nil {
					return err
				}
			}
			return nil
		}
	default:
		return fmt.Errorf("thrift: cannot skip unknown field type %#x", fieldType)
	}
}

type mapHeader struct {
	size               int
	keyType, valueType byte
}

func (r *Reader) readMapHeader() (mapHeader, error) {
	size, err := r.readUvarint()
	if err != nil {
		return mapHeader{}, err
	}
	if size == 0 {
		return mapHeader{}, nil
	}
	b, err := r.readByte()
	if err != nil {
		return mapHeader{}, err
	}
	return mapHeader{size: int(size), keyType: b >> 4, valueType: b & 0x0f}, nil
}
