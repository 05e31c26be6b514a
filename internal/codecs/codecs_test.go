package codecs

import (
	"bytes"
	"strings"
	"testing"

	"oceanqc/pkg/codec"
	"oceanqc/pkg/ocproc"
)

func profileRecord() *ocproc.Record {
	r := ocproc.NewRecord()
	r.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
	r.Metadata().SetValue("CastNumber", ocproc.Int(3))
	r.Coordinates().SetValue("Latitude", ocproc.Float(49.5))
	r.Coordinates().SetValue("Longitude", ocproc.Float(-123.2))
	temp := r.Parameters().SetValue("Temperature", ocproc.Float(4.1))
	temp.Metadata().SetValue(ocproc.UnitsKey, ocproc.String("degC"))
	temp.Metadata().SetValue(ocproc.QualityKey, ocproc.Int(1))
	level := ocproc.NewRecord()
	level.Coordinates().SetValue("Depth", ocproc.Float(10))
	level.Parameters().SetValue("Temperature", ocproc.Float(3.9))
	r.Subrecords().Append("PROFILE", level)
	return r
}

func decodeAll(t *testing.T, c codec.Codec, data []byte) []*ocproc.Record {
	t.Helper()
	results, err := c.Decode(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	recs := make([]*ocproc.Record, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("record error: %v", res.Err)
		}
		recs = append(recs, res.Record)
	}
	return recs
}

func TestJSONRoundTrip(t *testing.T) {
	orig := []*ocproc.Record{profileRecord(), profileRecord()}
	var buf bytes.Buffer
	if err := (JSONCodec{}).Encode(&buf, orig, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back := decodeAll(t, JSONCodec{}, buf.Bytes())
	if len(back) != len(orig) {
		t.Fatalf("decoded %d records, want %d", len(back), len(orig))
	}
	for i := range orig {
		if !orig[i].Equal(back[i]) {
			t.Fatalf("record %d did not survive the round trip", i)
		}
	}
	// Integer scalars must come back as integers, not floats.
	cast, _ := back[0].Metadata().Get("CastNumber")
	if cast.Value().Kind() != ocproc.KindInt {
		t.Fatalf("CastNumber kind = %v, want int", cast.Value().Kind())
	}
}

func TestJSONDecodePerRecordErrors(t *testing.T) {
	data := []byte(`[{"_parameters":{"Temperature":4.1}},{"_metadata":"not a mapping"}]`)
	results, err := (JSONCodec{}).Decode(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(results) != 2 || results[0].Err != nil || results[1].Err == nil {
		t.Fatalf("results = %+v", results)
	}
}

func TestJSONDecodeRejectsNonArray(t *testing.T) {
	if _, err := (JSONCodec{}).Decode(strings.NewReader(`{"a":1}`), nil); err == nil {
		t.Fatal("non-array input should fail")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	orig := []*ocproc.Record{profileRecord(), profileRecord()}
	var buf bytes.Buffer
	if err := (YAMLCodec{}).Encode(&buf, orig, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back := decodeAll(t, YAMLCodec{}, buf.Bytes())
	if len(back) != 2 {
		t.Fatalf("decoded %d records, want 2", len(back))
	}
	for i := range orig {
		if !orig[i].Equal(back[i]) {
			t.Fatalf("record %d did not survive the round trip", i)
		}
	}
}

func TestCSVGroupsConsecutiveRows(t *testing.T) {
	data := []byte(strings.Join([]string{
		"station,time,latitude,longitude,parameter,value,units,quality",
		"WMO4402,2026-01-01T00:00:00Z,49.5,-123.2,Temperature,4.1,degC,1",
		"WMO4402,2026-01-01T00:00:00Z,49.5,-123.2,Salinity,35.0,psu,",
		"WMO4403,2026-01-01T01:00:00Z,50.1,-124.0,Temperature,3.8,degC,2",
	}, "\n"))
	recs := decodeAll(t, CSVCodec{}, data)
	if len(recs) != 2 {
		t.Fatalf("decoded %d records, want 2", len(recs))
	}
	first := recs[0]
	if got := first.Parameters().Keys(); len(got) != 2 {
		t.Fatalf("first record parameters = %v", got)
	}
	sal, _ := first.Parameters().Get("Salinity")
	if sal.Metadata().Has(ocproc.QualityKey) {
		t.Fatal("empty quality cell must not become a Quality flag")
	}
	temp, _ := first.Parameters().Get("Temperature")
	if q, _ := temp.Metadata().BestValue(ocproc.QualityKey, ocproc.Null()).AsInt(); q != 1 {
		t.Fatalf("Temperature quality = %d, want 1", q)
	}
	if id, _ := recs[1].Metadata().BestValue(ocproc.StationIDKey, ocproc.Null()).AsString(); id != "WMO4403" {
		t.Fatalf("second record station = %q", id)
	}
}

func TestCSVRoundTripFlat(t *testing.T) {
	rec := ocproc.NewRecord()
	rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
	rec.Coordinates().SetValue("Latitude", ocproc.Float(49.5))
	rec.Coordinates().SetValue("Longitude", ocproc.Float(-123.2))
	rec.Coordinates().SetValue("Time", ocproc.String("2026-01-01T00:00:00Z"))
	rec.Parameters().SetValue("Temperature", ocproc.Float(4.1)).
		Metadata().SetValue(ocproc.UnitsKey, ocproc.String("degC"))

	var buf bytes.Buffer
	if err := (CSVCodec{}).Encode(&buf, []*ocproc.Record{rec}, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back := decodeAll(t, CSVCodec{}, buf.Bytes())
	if len(back) != 1 {
		t.Fatalf("decoded %d records, want 1", len(back))
	}
	temp, ok := back[0].Parameters().Get("Temperature")
	if !ok || !temp.BestValue().Equal(ocproc.Float(4.1)) {
		t.Fatalf("Temperature = %v", temp)
	}
}

func TestCSVQualityZeroRoundTrip(t *testing.T) {
	rec := ocproc.NewRecord()
	rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
	rec.Coordinates().SetValue("Latitude", ocproc.Float(49.5))
	rec.Coordinates().SetValue("Longitude", ocproc.Float(-123.2))
	rec.Parameters().SetValue("Temperature", ocproc.Float(4.1)).
		Metadata().SetValue(ocproc.QualityKey, ocproc.Int(0))
	rec.Parameters().SetValue("Salinity", ocproc.Float(35.0))

	var buf bytes.Buffer
	if err := (CSVCodec{}).Encode(&buf, []*ocproc.Record{rec}, nil); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back := decodeAll(t, CSVCodec{}, buf.Bytes())
	if len(back) != 1 {
		t.Fatalf("decoded %d records, want 1", len(back))
	}
	temp, _ := back[0].Parameters().Get("Temperature")
	if !temp.Metadata().Has(ocproc.QualityKey) {
		t.Fatal("explicit flag 0 must survive the round trip")
	}
	if q, ok := temp.Metadata().BestValue(ocproc.QualityKey, ocproc.Null()).AsInt(); !ok || q != 0 {
		t.Fatalf("Temperature quality = %d (%v), want 0", q, ok)
	}
	sal, _ := back[0].Parameters().Get("Salinity")
	if sal.Metadata().Has(ocproc.QualityKey) {
		t.Fatal("unflagged parameter must stay unflagged")
	}
}

func TestCSVRejectsHierarchies(t *testing.T) {
	var buf bytes.Buffer
	err := (CSVCodec{}).Encode(&buf, []*ocproc.Record{profileRecord()}, nil)
	if err == nil {
		t.Fatal("records with subrecords cannot be encoded as CSV")
	}
}

func TestBuiltinRegistrationOrder(t *testing.T) {
	reg := codec.NewRegistry()
	Builtin(reg)
	regs := reg.Codecs()
	want := []string{"json", "yaml", "csv"}
	if len(regs) != len(want) {
		t.Fatalf("registered %d codecs, want %d", len(regs), len(want))
	}
	for i, name := range want {
		if regs[i].Name != name {
			t.Fatalf("registration %d = %s, want %s", i, regs[i].Name, name)
		}
	}
	if c, err := reg.LoadCodec("obs.yml", ""); err != nil {
		t.Fatalf("probe .yml: %v", err)
	} else if _, ok := c.(YAMLCodec); !ok {
		t.Fatalf("probe .yml resolved %T", c)
	}
}

func TestFilteredRegistration(t *testing.T) {
	reg := codec.NewRegistry()
	Filtered(reg, func(name string) bool { return name != "csv" })
	if _, ok := reg.Get("csv"); ok {
		t.Fatal("csv should be filtered out")
	}
	if _, ok := reg.Get("json"); !ok {
		t.Fatal("json should be registered")
	}
	if _, err := reg.LoadCodec("obs.csv", ""); err == nil {
		t.Fatal("probe for a disabled codec should fail")
	}
}
