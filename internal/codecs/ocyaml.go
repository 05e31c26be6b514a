package codecs

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"oceanqc/pkg/codec"
	"oceanqc/pkg/ocproc"
)

// YAMLCodec reads and writes a multi-document YAML stream, one observation
// record per document, in the generic wire shape.
type YAMLCodec struct{}

var _ codec.Codec = YAMLCodec{}

func (YAMLCodec) Description() string {
	return "multi-document YAML, one observation record per document"
}

func (YAMLCodec) CheckCompatibility(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func (YAMLCodec) Decode(r io.Reader, _ codec.Options) ([]codec.Result, error) {
	dec := yaml.NewDecoder(r)
	var results []codec.Result
	for i := 0; ; i++ {
		var doc map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return results, nil
		}
		if err != nil {
			// A malformed document poisons the rest of the stream.
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		rec, err := ocproc.RecordFromMap(doc)
		if err != nil {
			results = append(results, codec.Result{Err: err})
			continue
		}
		results = append(results, codec.Result{Record: rec})
	}
}

func (YAMLCodec) Encode(w io.Writer, recs []*ocproc.Record, _ codec.Options) error {
	enc := yaml.NewEncoder(w)
	for i, rec := range recs {
		if err := enc.Encode(rec.ToMap()); err != nil {
			enc.Close()
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return enc.Close()
}
