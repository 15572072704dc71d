// Package deprecated holds conversions for Parquet's legacy INT96 timestamp
// representation, kept alive only as a logical-type view over INT96 columns.
package deprecated

import (
	"encoding/binary"
	"math/big"
	"time"
)

// Int96 is the deprecated INT96 physical type: the low 8 bytes are
// nanoseconds within the Julian day held in the high 4 bytes.
type Int96 [3]uint32

// FromBytes reads a 12-byte little-endian INT96 value as decoded from a
// FIXED_LEN_BYTE_ARRAY-shaped ByteArrayPage.
func FromBytes(b []byte) Int96 {
	return Int96{
		binary.LittleEndian.Uint32(b[0:4]),
		binary.LittleEndian.Uint32(b[4:8]),
		binary.LittleEndian.Uint32(b[8:12]),
	}
}

// Negative returns true if i is a negative value under signed comparison.
func (i Int96) Negative() bool {
	return (i[2] >> 31) != 0
}

// Int converts i to a big.Int representation.
func (i Int96) Int() *big.Int {
	z := new(big.Int)
	z.Or(z, big.NewInt(int64(int32(i[2]))))
	z.Lsh(z, 32)
	z.Or(z, big.NewInt(int64(i[1])))
	z.Lsh(z, 32)
	z.Or(z, big.NewInt(int64(i[0])))
	return z
}

func (i Int96) String() string {
	return i.Int().String()
}

const (
	julianDayUnixEpoch = 2440588
	nanosPerDay        = int64(24 * time.Hour)
)

// ToTime interprets i as a legacy INT96 timestamp: nanoOfDay in the low 8
// bytes, Julian day number in the high 4 bytes.
func (i Int96) ToTime() time.Time {
	nanoOfDay := int64(i[0]) | int64(i[1])<<32
	julianDay := int64(int32(i[2]))
	unixDays := julianDay - julianDayUnixEpoch
	return time.Unix(0, unixDays*nanosPerDay+nanoOfDay).UTC()
}
