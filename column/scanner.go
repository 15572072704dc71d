package column

import (
	"github.com/dnlrv/parqstream/compress"
	"github.com/dnlrv/parqstream/format"
	"github.com/dnlrv/parqstream/internal/parqerr"
)

// maxColumnChunkBytes is the reader's explicit size ceiling for a single
// column chunk's compressed bytes, resolving spec.md's open question about
// an array-length-style limit: 2 GiB, matching the JVM array-length bound
// the reference implementation keys off.
const maxColumnChunkBytes = 1<<31 - 1

// PageInfo is a lightweight, cheaply cloneable handle to an un-decoded page:
// its byte slice (header + compressed body, sliced out of the file's memory
// mapping) plus the shared dictionary of its chunk.
type PageInfo struct {
	Bytes      []byte
	HeaderSize int
	Header     *format.PageHeader
	ColumnMeta *format.ColumnMetaData
	TypeLength int32
	Dictionary Dictionary
}

// ScanColumnChunk walks one column chunk starting at its dictionary or data
// page offset within fileBytes (the whole file's memory mapping), producing
// an ordered list of data-page PageInfos and the chunk's Dictionary, if any.
func ScanColumnChunk(fileBytes []byte, meta *format.ColumnMetaData, typeLength int32) ([]PageInfo, Dictionary, error) {
	start := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset > 0 {
		start = *meta.DictionaryPageOffset
	}
	if start <= 0 || int(start) >= len(fileBytes) {
		return nil, nil, parqerr.New(parqerr.MalformedFile, "column chunk start offset %d out of range", start)
	}
	if meta.TotalCompressedSize > maxColumnChunkBytes {
		return nil, nil, parqerr.New(parqerr.SizeLimitExceeded, "column chunk %v: %d bytes exceeds %d byte limit", meta.PathInSchema, meta.TotalCompressedSize, int64(maxColumnChunkBytes))
	}

	end := int(start) + int(meta.TotalCompressedSize)
	if end > len(fileBytes) {
		end = len(fileBytes)
	}

	pos := int(start)
	var pages []PageInfo
	var dict Dictionary
	valuesSeen := int64(0)

	for valuesSeen < meta.NumValues && pos < end {
		header, headerSize, err := format.ReadPageHeader(fileBytes[pos:])
		if err != nil {
			return nil, nil, parqerr.Wrap(parqerr.MalformedFile, err, "reading page header at offset %d", pos)
		}
		total := headerSize + int(header.CompressedPageSize)
		if pos+total > len(fileBytes) {
			return nil, nil, parqerr.New(parqerr.MalformedFile, "page at offset %d overruns file", pos)
		}

		switch header.Type {
		case format.DictionaryPage:
			if header.DictionaryPageHeader == nil {
				return nil, nil, parqerr.New(parqerr.MalformedFile, "DICTIONARY_PAGE missing dictionary_page_header at offset %d", pos)
			}
			body := fileBytes[pos+headerSize : pos+total]
			plainBody, err := compress.Decompress(meta.Codec, body, int(header.UncompressedPageSize))
			if err != nil {
				return nil, nil, err
			}
			dict, err = NewDictionary(meta.Type, typeLength, int(header.DictionaryPageHeader.NumValues), plainBody)
			if err != nil {
				return nil, nil, err
			}

		case format.DataPage, format.DataPageV2:
			if dict == nil {
				if usesDictionary(header) {
					return nil, nil, parqerr.New(parqerr.MalformedFile, "data page at offset %d uses dictionary encoding but no dictionary page preceded it", pos)
				}
			}
			pages = append(pages, PageInfo{
				Bytes:      fileBytes[pos : pos+total],
				HeaderSize: headerSize,
				Header:     header,
				ColumnMeta: meta,
				TypeLength: typeLength,
				Dictionary: dict,
			})
			valuesSeen += int64(numValuesOf(header))

		case format.IndexPage:
			// Non-goal: page indexes are never consulted, only skipped.
		}

		pos += total
	}

	return pages, dict, nil
}

func usesDictionary(h *format.PageHeader) bool {
	var enc format.Encoding
	switch h.Type {
	case format.DataPage:
		enc = h.DataPageHeader.Encoding
	case format.DataPageV2:
		enc = h.DataPageHeaderV2.Encoding
	default:
		return false
	}
	return enc == format.PlainDictionary || enc == format.RLEDictionary
}

func numValuesOf(h *format.PageHeader) int32 {
	switch h.Type {
	case format.DataPage:
		return h.DataPageHeader.NumValues
	case format.DataPageV2:
		return h.DataPageHeaderV2.NumValues
	default:
		return 0
	}
}
