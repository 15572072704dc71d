package parqstream

import (
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/dnlrv/parqstream/deprecated"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
)

// logicalView wraps a raw physical value with the column's logical type,
// giving the row reader's Get* accessors a typed destination instead of
// the physical int32/int64/[]byte the page decoder produced.
type logicalView struct {
	logical  *format.LogicalType
	physical format.Type
}

func (v logicalView) date(raw int32) time.Time {
	return time.Unix(int64(raw)*24*60*60, 0).UTC()
}

func (v logicalView) timestamp(raw interface{}) (time.Time, error) {
	switch t := raw.(type) {
	case []byte:
		if v.physical != format.Int96 {
			return time.Time{}, parqerr.New(parqerr.ConsumerMisuse, "timestamp accessor on non-timestamp column")
		}
		return deprecated.FromBytes(t).ToTime(), nil
	case int64:
		unit := format.Millis
		if v.logical != nil {
			unit = v.logical.Unit
		}
		switch unit {
		case format.Millis:
			return time.UnixMilli(t).UTC(), nil
		case format.Micros:
			return time.UnixMicro(t).UTC(), nil
		default:
			return time.Unix(0, t).UTC(), nil
		}
	default:
		return time.Time{}, parqerr.New(parqerr.ConsumerMisuse, "timestamp accessor on incompatible physical value %T", raw)
	}
}

// decimal converts an unscaled integer (int32, int64, or a big-endian
// two's-complement byte array for FIXED_LEN_BYTE_ARRAY/BYTE_ARRAY-backed
// decimals) plus the logical type's scale into a big.Rat.
func (v logicalView) decimal(raw interface{}) (*big.Rat, error) {
	if v.logical == nil || v.logical.Kind != format.LogicalDecimal {
		return nil, parqerr.New(parqerr.ConsumerMisuse, "decimal accessor on non-decimal column")
	}
	var unscaled *big.Int
	switch t := raw.(type) {
	case int32:
		unscaled = big.NewInt(int64(t))
	case int64:
		unscaled = big.NewInt(t)
	case []byte:
		unscaled = bigIntFromTwosComplement(t)
	default:
		return nil, parqerr.New(parqerr.ConsumerMisuse, "decimal accessor on incompatible physical value %T", raw)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(v.logical.DecimalScale)), nil)
	return new(big.Rat).SetFrac(unscaled, scale), nil
}

func bigIntFromTwosComplement(b []byte) *big.Int {
	z := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		z.Sub(z, full)
	}
	return z
}

func (v logicalView) uuidValue(raw []byte) (uuid.UUID, error) {
	id, err := uuid.FromBytes(raw)
	if err != nil {
		return uuid.UUID{}, parqerr.Wrap(parqerr.MalformedFile, err, "decoding UUID column")
	}
	return id, nil
}
