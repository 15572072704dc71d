// Package rle implements Parquet's RLE/bit-packing hybrid encoding, used for
// definition/repetition level streams and for dictionary indices.
package rle

import (
	"fmt"

	"github.com/dnlrv/parqstream/internal/bitutil"
)

// ErrTruncated is returned when a run's header or body runs past the end of
// the input.
var ErrTruncated = fmt.Errorf("rle: unexpected end of level stream")

// HybridDecoder decodes a stream of alternating RLE and bit-packed runs at a
// fixed bit width, per the Parquet RLE/bit-pack hybrid wire format.
//
// A zero-value bit width decoder returns zero for every requested value
// without consuming any input, matching the convention used for columns
// whose max definition (or repetition) level is 0.
type HybridDecoder struct {
	data     []byte
	pos      int
	bitWidth uint

	rleRemain   int
	rleValue    int32
	packRemain  int // values remaining in the current bit-packed group run
	packReader  bitutil.BitReader
	haveRun     bool
	runIsPacked bool
}

// NewHybridDecoder returns a decoder reading from data at the given bit
// width (0 <= bitWidth <= 32).
func NewHybridDecoder(data []byte, bitWidth int) *HybridDecoder {
	d := &HybridDecoder{}
	d.Reset(data, bitWidth)
	return d
}

// Reset rebinds the decoder to a new byte slice and bit width.
func (d *HybridDecoder) Reset(data []byte, bitWidth int) {
	*d = HybridDecoder{data: data, bitWidth: uint(bitWidth)}
}

// ReadInto fills out with len(out) decoded values, spanning runs as needed.
func (d *HybridDecoder) ReadInto(out []int32) error {
	if d.bitWidth == 0 {
		for i := range out {
			out[i] = 0
		}
		return nil
	}
	switch {
	case d.bitWidth == 1:
		return d.readIntoBitWidth1(out)
	case d.bitWidth <= 8:
		return d.readIntoSmall(out)
	default:
		return d.readIntoScalar(out)
	}
}

// nextRun advances to the next run header if the current run is exhausted.
// It returns false (with err == nil) when the input is fully drained.
func (d *HybridDecoder) nextRun() (bool, error) {
	for {
		if d.haveRun {
			if d.runIsPacked {
				if d.packRemain > 0 {
					return true, nil
				}
			} else if d.rleRemain > 0 {
				return true, nil
			}
			d.haveRun = false
		}
		if d.pos >= len(d.data) {
			return false, nil
		}

		header, n, err := bitutil.Uvarint(d.data[d.pos:])
		if err != nil {
			return false, ErrTruncated
		}
		d.pos += n

		if header&1 == 0 {
			count := int(header >> 1)
			width := bitutil.ByteCount(d.bitWidth)
			if count == 0 {
				continue
			}
			if d.pos+width > len(d.data) {
				return false, ErrTruncated
			}
			var buf [4]byte
			copy(buf[:], d.data[d.pos:d.pos+width])
			d.pos += width
			v := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
			if d.bitWidth < 32 {
				v &= (uint32(1) << d.bitWidth) - 1
			}
			d.rleValue = int32(v)
			d.rleRemain = count
			d.runIsPacked = false
			d.haveRun = true
		} else {
			groups := int(header >> 1)
			count := groups * 8
			if count == 0 {
				continue
			}
			nbytes := bitutil.ByteCount(d.bitWidth * uint(count))
			if d.pos+nbytes > len(d.data) {
				return false, ErrTruncated
			}
			d.packReader.Reset(d.data[d.pos : d.pos+nbytes])
			d.pos += nbytes
			d.packRemain = count
			d.runIsPacked = true
			d.haveRun = true
		}
		return true, nil
	}
}

func (d *HybridDecoder) readIntoScalar(out []int32) error {
	for i := 0; i < len(out); {
		ok, err := d.nextRun()
		if err != nil {
			return err
		}
		if !ok {
			return ErrTruncated
		}
		if d.runIsPacked {
			n := d.packRemain
			if rem := len(out) - i; n > rem {
				n = rem
			}
			for j := 0; j < n; j++ {
				v, err := d.packReader.ReadBits(d.bitWidth)
				if err != nil {
					return ErrTruncated
				}
				out[i+j] = int32(v)
			}
			d.packRemain -= n
			i += n
		} else {
			n := d.rleRemain
			if rem := len(out) - i; n > rem {
				n = rem
			}
			v := d.rleValue
			for j := 0; j < n; j++ {
				out[i+j] = v
			}
			d.rleRemain -= n
			i += n
		}
	}
	return nil
}

// readIntoBitWidth1 expands bit-packed runs 8 values at a time from a single
// source byte, the optimized path mandated for boolean-width levels.
func (d *HybridDecoder) readIntoBitWidth1(out []int32) error {
	i := 0
	for i < len(out) {
		ok, err := d.nextRun()
		if err != nil {
			return err
		}
		if !ok {
			return ErrTruncated
		}
		if !d.runIsPacked {
			n := d.rleRemain
			if rem := len(out) - i; n > rem {
				n = rem
			}
			v := d.rleValue
			for j := 0; j < n; j++ {
				out[i+j] = v
			}
			d.rleRemain -= n
			i += n
			continue
		}

		for d.packRemain >= 8 && (len(out)-i) >= 8 {
			b, err := d.packReader.ReadBits(8)
			if err != nil {
				return ErrTruncated
			}
			for bit := 0; bit < 8; bit++ {
				out[i+bit] = int32((b >> uint(bit)) & 1)
			}
			i += 8
			d.packRemain -= 8
		}
		for d.packRemain > 0 && i < len(out) {
			v, err := d.packReader.ReadBits(1)
			if err != nil {
				return ErrTruncated
			}
			out[i] = int32(v)
			i++
			d.packRemain--
		}
	}
	return nil
}

// readIntoSmall handles 2 <= bitWidth <= 8 by loading an 8-byte word from
// the bit-packed run and extracting 8 values with shift+mask, falling back
// to the scalar bit reader at the tail of a run or buffer.
func (d *HybridDecoder) readIntoSmall(out []int32) error {
	i := 0
	for i < len(out) {
		ok, err := d.nextRun()
		if err != nil {
			return err
		}
		if !ok {
			return ErrTruncated
		}
		if !d.runIsPacked {
			n := d.rleRemain
			if rem := len(out) - i; n > rem {
				n = rem
			}
			v := d.rleValue
			for j := 0; j < n; j++ {
				out[i+j] = v
			}
			d.rleRemain -= n
			i += n
			continue
		}

		mask := int32(1)<<d.bitWidth - 1
		for d.packRemain >= 8 && (len(out)-i) >= 8 {
			word, err := d.packReader.ReadBits(8 * d.bitWidth)
			if err != nil {
				return ErrTruncated
			}
			for k := 0; k < 8; k++ {
				out[i+k] = int32(word>>(uint(k)*d.bitWidth)) & mask
			}
			i += 8
			d.packRemain -= 8
		}
		for d.packRemain > 0 && i < len(out) {
			v, err := d.packReader.ReadBits(d.bitWidth)
			if err != nil {
				return ErrTruncated
			}
			out[i] = int32(v)
			i++
			d.packRemain--
		}
	}
	return nil
}

// BitWidthForMaxLevel returns ceil(log2(maxLevel+1)), the bit width the
// Parquet format mandates for a level stream whose values range [0,maxLevel].
func BitWidthForMaxLevel(maxLevel int) int {
	width := 0
	for (1 << width) <= maxLevel {
		width++
	}
	return width
}
