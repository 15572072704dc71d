// Package compress adapts the codec libraries the reader depends on to a
// single Decompress entry point: the reader never needs to stream output, so
// unlike the teacher's io.Reader/io.Writer Codec abstraction this package
// exposes one-shot decompression straight into a caller-sized buffer.
package compress

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
)

// Decompress inflates src, which holds a compressed page's bytes, according
// to codec, into a buffer of uncompressedSize bytes. The returned slice is
// shorter than uncompressedSize when a stream ends early, and for Snappy its
// length is the decoded length recorded in the stream itself. The returned
// slice is src itself when codec is Uncompressed.
func Decompress(codec format.CompressionCodec, src []byte, uncompressedSize int) ([]byte, error) {
	switch codec {
	case format.Uncompressed:
		return src, nil

	case format.Snappy:
		dst := make([]byte, uncompressedSize)
		out, err := snappy.Decode(dst, src)
		if err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "snappy decode")
		}
		return out, nil

	case format.Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(src))
		if err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "gzip header")
		}
		defer zr.Close()
		return readExactly(zr, uncompressedSize)

	case format.Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(src), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, parqerr.Wrap(parqerr.MalformedFile, err, "zstd header")
		}
		defer zr.Close()
		return readExactly(zr, uncompressedSize)

	case format.Lz4Raw:
		zr := lz4.NewReader(bytes.NewReader(src))
		return readExactly(zr, uncompressedSize)

	case format.Brotli:
		zr := brotli.NewReader(bytes.NewReader(src))
		return readExactly(zr, uncompressedSize)

	default:
		return nil, parqerr.New(parqerr.UnsupportedFeature, "compression codec %s", codec)
	}
}

func readExactly(r io.Reader, n int) ([]byte, error) {
	dst := make([]byte, n)
	read, err := io.ReadFull(r, dst)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, parqerr.Wrap(parqerr.MalformedFile, err, "decompress")
	}
	return dst[:read], nil
}
