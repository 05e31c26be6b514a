package codec

import "fmt"

// DecodeError is a malformed input encountered by a codec. Index is the
// zero-based position of the record in the source, or -1 when unknown.
type DecodeError struct {
	Source string
	Index  int
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Source != "" && e.Index >= 0:
		return fmt.Sprintf("codec: decode %s record %d: %v", e.Source, e.Index, e.Err)
	case e.Source != "":
		return fmt.Sprintf("codec: decode %s: %v", e.Source, e.Err)
	case e.Index >= 0:
		return fmt.Sprintf("codec: decode record %d: %v", e.Index, e.Err)
	default:
		return fmt.Sprintf("codec: decode: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ResolutionError reports that no codec could be resolved for a target. It
// distinguishes a requested name that is not registered from a probe that
// matched nothing.
type ResolutionError struct {
	Path string
	Name string
}

func (e *ResolutionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("codec: no codec registered under name %q", e.Name)
	}
	return fmt.Sprintf("codec: no codec compatible with %q", e.Path)
}

// ByName reports whether the failure was an explicit-name miss rather than
// a probe miss.
func (e *ResolutionError) ByName() bool { return e.Name != "" }
