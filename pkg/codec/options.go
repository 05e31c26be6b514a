package codec

import (
	"fmt"
	"strings"
)

// ParseOptions parses a flat "k=v k2=v2" option string: fields split on
// whitespace, each field split on a single "=". Any malformed pair fails
// the whole parse.
func ParseOptions(s string) (Options, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Options{}, nil
	}
	opts := make(Options, len(fields))
	for _, f := range fields {
		if strings.Count(f, "=") != 1 {
			return nil, fmt.Errorf("codec: malformed option %q, want key=value", f)
		}
		k, v, _ := strings.Cut(f, "=")
		if k == "" {
			return nil, fmt.Errorf("codec: malformed option %q, empty key", f)
		}
		opts[k] = v
	}
	return opts, nil
}

// Get returns the named option or def when absent.
func (o Options) Get(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}
