// Package parqerr defines the error taxonomy shared across the reader: a
// closed set of kinds a caller can switch on with errors.Is/As, each wrapping
// an underlying cause via github.com/pkg/errors so stack traces survive the
// trip up through the column/page/file layers.
package parqerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which of the reader's error categories a Error belongs to.
type Kind int

const (
	// MalformedFile means the bytes on disk violate the Parquet format
	// itself: a bad footer magic, a truncated thrift struct, an
	// out-of-range offset.
	MalformedFile Kind = iota
	// UnsupportedFeature means the bytes are well-formed Parquet but use
	// something this reader does not implement (an encoding, a codec, a
	// logical type variant).
	UnsupportedFeature
	// SchemaIncompatible means a multi-file read was given files whose
	// schemas do not line up column-for-column.
	SchemaIncompatible
	// SizeLimitExceeded means a page, row group, or buffer would exceed
	// the reader's built-in size ceiling.
	SizeLimitExceeded
	// Io means the underlying os/mmap operation failed.
	Io
	// ConsumerMisuse means the caller violated the public API's contract
	// (wrong accessor for a column's type, reading past EOF, reusing a
	// closed reader).
	ConsumerMisuse
)

func (k Kind) String() string {
	switch k {
	case MalformedFile:
		return "malformed file"
	case UnsupportedFeature:
		return "unsupported feature"
	case SchemaIncompatible:
		return "schema incompatible"
	case SizeLimitExceeded:
		return "size limit exceeded"
	case Io:
		return "io"
	case ConsumerMisuse:
		return "consumer misuse"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with an underlying cause. Wrap via pkg/errors so the
// point of origin survives errors.Unwrap chains.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("parquet: %s: %v", e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind from a message, recording a stack
// trace at the call site.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}

// Wrap annotates an existing error with a Kind, preserving its cause chain.
func Wrap(kind Kind, cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, cause: errors.Wrapf(cause, format, args...)}
}

// Is reports whether err (or something it wraps) is a parqerr Error of kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
