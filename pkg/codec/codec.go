// Package codec defines the pluggable encoder/decoder contract for
// observation formats, the registry that resolves codecs by name or by
// compatibility probing, and the transcode operation built on both.
package codec

import (
	"io"

	"oceanqc/pkg/ocproc"
)

// Options is a flat string-keyed option map handed to a codec invocation.
type Options map[string]string

// Result is one decoded record, or the decode error that stands in for it
// when the caller opted into per-record failure.
type Result struct {
	Record *ocproc.Record
	Err    error
}

// Codec encodes and decodes one observation format. Implementations are
// stateless per invocation and safe to share.
type Codec interface {
	// Description is a one-line human-readable summary for codec listings.
	Description() string

	// CheckCompatibility reports whether the codec believes it can handle
	// the given file target, typically by extension.
	CheckCompatibility(path string) bool

	// Decode reads every record from r. Malformed records surface as
	// Result.Err entries; an unreadable source fails the whole call.
	Decode(r io.Reader, opts Options) ([]Result, error)

	// Encode writes the records to w.
	Encode(w io.Writer, recs []*ocproc.Record, opts Options) error
}
