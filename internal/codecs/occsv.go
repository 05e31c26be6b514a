package codecs

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"oceanqc/pkg/codec"
	"oceanqc/pkg/ocproc"
)

// csvRow is one flat observation row: a single measured parameter at one
// station position. Quality is a pointer so an empty cell (no flag) stays
// distinct from an explicit flag 0 (QC not done).
type csvRow struct {
	Station   string  `csv:"station"`
	Time      string  `csv:"time"`
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	Parameter string  `csv:"parameter"`
	Value     float64 `csv:"value"`
	Units     string  `csv:"units"`
	Quality   *int    `csv:"quality,omitempty"`
}

type rowKey struct {
	station  string
	time     string
	lat, lon float64
}

// CSVCodec reads and writes flat station reports, one parameter per row.
// Consecutive rows sharing station, time, and position fold into a single
// record. The format cannot represent subrecords or nested metadata;
// encoding a hierarchical record fails.
type CSVCodec struct{}

var _ codec.Codec = CSVCodec{}

func (CSVCodec) Description() string {
	return "flat CSV station reports, one parameter per row"
}

func (CSVCodec) CheckCompatibility(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func (CSVCodec) Decode(r io.Reader, _ codec.Options) ([]codec.Result, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("not a station-report CSV: %w", err)
	}
	var results []codec.Result
	var cur *ocproc.Record
	var curKey rowKey
	for _, row := range rows {
		key := rowKey{station: row.Station, time: row.Time, lat: row.Latitude, lon: row.Longitude}
		if cur == nil || key != curKey {
			cur = newStationRecord(row)
			curKey = key
			results = append(results, codec.Result{Record: cur})
		}
		e := cur.Parameters().SetValue(row.Parameter, ocproc.Float(row.Value))
		if row.Units != "" {
			e.Metadata().SetValue(ocproc.UnitsKey, ocproc.String(row.Units))
		}
		if row.Quality != nil {
			e.Metadata().SetValue(ocproc.QualityKey, ocproc.Int(int64(*row.Quality)))
		}
	}
	return results, nil
}

func newStationRecord(row csvRow) *ocproc.Record {
	rec := ocproc.NewRecord()
	if row.Station != "" {
		rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String(row.Station))
	}
	rec.Coordinates().SetValue("Latitude", ocproc.Float(row.Latitude))
	rec.Coordinates().SetValue("Longitude", ocproc.Float(row.Longitude))
	if row.Time != "" {
		rec.Coordinates().SetValue("Time", ocproc.String(row.Time))
	}
	return rec
}

func (CSVCodec) Encode(w io.Writer, recs []*ocproc.Record, _ codec.Options) error {
	var rows []csvRow
	for i, rec := range recs {
		if !rec.Subrecords().Empty() {
			return fmt.Errorf("record %d: CSV cannot represent subrecords", i)
		}
		base := csvRow{
			Station: stringOf(rec.Metadata().BestValue(ocproc.StationIDKey, ocproc.Null())),
			Time:    stringOf(rec.Coordinates().BestValue("Time", ocproc.Null())),
		}
		base.Latitude, _ = rec.Coordinates().BestValue("Latitude", ocproc.Null()).AsFloat()
		base.Longitude, _ = rec.Coordinates().BestValue("Longitude", ocproc.Null()).AsFloat()
		for _, name := range rec.Parameters().Keys() {
			e, _ := rec.Parameters().Get(name)
			v, ok := e.BestValue().AsFloat()
			if !ok {
				return fmt.Errorf("record %d: parameter %s is not numeric", i, name)
			}
			row := base
			row.Parameter = name
			row.Value = v
			row.Units = stringOf(e.Metadata().BestValue(ocproc.UnitsKey, ocproc.Null()))
			if q, ok := e.Metadata().BestValue(ocproc.QualityKey, ocproc.Null()).AsInt(); ok {
				qv := int(q)
				row.Quality = &qv
			}
			rows = append(rows, row)
		}
	}
	return gocsv.Marshal(&rows, w)
}

func stringOf(v ocproc.Value) string {
	s, _ := v.AsString()
	return s
}
