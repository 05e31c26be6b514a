package codec

import (
	"fmt"
	"os"

	"oceanqc/pkg/ocproc"
)

// LoadFile decodes the file with the given codec, yielding one Result per
// record so the caller decides per record whether to skip or abort.
func LoadFile(c Codec, path string, opts Options) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("codec: open %s: %w", path, err)
	}
	defer f.Close()
	results, err := c.Decode(f, opts)
	if err != nil {
		return nil, &DecodeError{Source: path, Index: -1, Err: err}
	}
	for i := range results {
		if results[i].Err != nil {
			results[i].Err = &DecodeError{Source: path, Index: i, Err: results[i].Err}
		}
	}
	return results, nil
}

// LoadAll decodes the file eagerly and fails at the first malformed record.
func LoadAll(c Codec, path string, opts Options) ([]*ocproc.Record, error) {
	results, err := LoadFile(c, path, opts)
	if err != nil {
		return nil, err
	}
	recs := make([]*ocproc.Record, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			return nil, res.Err
		}
		recs = append(recs, res.Record)
	}
	return recs, nil
}

// DumpFile encodes the records to the file, creating or truncating it.
func DumpFile(c Codec, path string, recs []*ocproc.Record, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("codec: create %s: %w", path, err)
	}
	if err := c.Encode(f, recs, opts); err != nil {
		f.Close()
		return fmt.Errorf("codec: encode %s: %w", path, err)
	}
	return f.Close()
}

// Transcode decodes the whole source and re-encodes it to the destination.
// Source and destination codecs are resolved independently; the source is
// loaded eagerly so a malformed record aborts before anything is written.
func Transcode(reg *Registry, src, dst, srcName, dstName string, srcOpts, dstOpts Options) error {
	in, err := reg.LoadCodec(src, srcName)
	if err != nil {
		return err
	}
	out, err := reg.LoadCodec(dst, dstName)
	if err != nil {
		return err
	}
	recs, err := LoadAll(in, src, srcOpts)
	if err != nil {
		return err
	}
	return DumpFile(out, dst, recs, dstOpts)
}
