// Package codecs holds the built-in observation codecs and their
// registration entry point.
package codecs

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"oceanqc/pkg/codec"
	"oceanqc/pkg/ocproc"
)

// JSONCodec reads and writes a JSON array of observation records in the
// generic wire shape. Numbers decode through json.Number so integer and
// float scalars survive a round trip unchanged.
type JSONCodec struct{}

var _ codec.Codec = JSONCodec{}

func (JSONCodec) Description() string {
	return "JSON array of observation records"
}

func (JSONCodec) CheckCompatibility(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func (JSONCodec) Decode(r io.Reader, _ codec.Options) ([]codec.Result, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, fmt.Errorf("not a JSON record array: %w", err)
	}
	results := make([]codec.Result, 0, len(docs))
	for _, doc := range docs {
		rec, err := ocproc.RecordFromMap(doc)
		if err != nil {
			results = append(results, codec.Result{Err: err})
			continue
		}
		results = append(results, codec.Result{Record: rec})
	}
	return results, nil
}

func (JSONCodec) Encode(w io.Writer, recs []*ocproc.Record, opts codec.Options) error {
	indent := opts.Get("indent", "")
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, rec := range recs {
		if i > 0 {
			if _, err := io.WriteString(w, ","); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		var buf []byte
		var err error
		if indent != "" {
			buf, err = json.MarshalIndent(rec.ToMap(), "", indent)
		} else {
			buf, err = json.Marshal(rec.ToMap())
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n]\n")
	return err
}
