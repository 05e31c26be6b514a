package gtspp

import (
	"context"
	"testing"

	"oceanqc/pkg/ocproc"
	"oceanqc/pkg/qc"
)

type stubStation map[string]any

func (s stubStation) GetMetadata(key string, def any) any {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

type stubLookup map[string]stubStation

func (l stubLookup) Station(_ context.Context, id string) (qc.Station, bool, error) {
	s, ok := l[id]
	if !ok {
		return nil, false, nil
	}
	return s, true, nil
}

func keepQCLookup() stubLookup {
	return stubLookup{"WMO4402": stubStation{"keep_external_qc": true}}
}

func flaggedElement(quality int64, stale bool) *ocproc.Element {
	e := ocproc.NewElement(ocproc.Float(4.1))
	if quality >= 0 {
		e.Metadata().SetValue(ocproc.QualityKey, ocproc.Int(quality))
	}
	if stale {
		e.Metadata().SetValue(ocproc.WorkingQualityKey, ocproc.Int(7))
	}
	return e
}

func workingQuality(t *testing.T, e *ocproc.Element) (int64, bool) {
	t.Helper()
	wq, ok := e.Metadata().Get(ocproc.WorkingQualityKey)
	if !ok {
		return 0, false
	}
	i, _ := wq.Value().AsInt()
	return i, true
}

func runSuite(t *testing.T, rec *ocproc.Record, lookup qc.StationLookup) {
	t.Helper()
	if err := qc.NewEngine().Run(context.Background(), rec, NewSuite(lookup)); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestFlagPropagation(t *testing.T) {
	cases := []struct {
		name     string
		quality  int64 // -1 for absent
		stale    bool  // pre-existing WorkingQuality
		keep     bool  // station keep_external_qc
		wantFlag int64
		wantSet  bool
	}{
		{"positive quality copied", 2, false, true, 2, true},
		{"quality overwrites stale flag", 3, true, true, 3, true},
		{"zero quality clears", 0, true, true, 0, false},
		{"absent quality clears", -1, true, true, 0, false},
		{"use_qc false clears", 2, true, false, 0, false},
		{"use_qc false never sets", 2, false, false, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ocproc.NewRecord()
			rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
			rec.Parameters().Set("Temperature", flaggedElement(tc.quality, tc.stale))

			lookup := stubLookup{"WMO4402": stubStation{"keep_external_qc": tc.keep}}
			runSuite(t, rec, lookup)

			temp, _ := rec.Parameters().Get("Temperature")
			got, set := workingQuality(t, temp)
			if set != tc.wantSet || (set && got != tc.wantFlag) {
				t.Fatalf("WorkingQuality = %d,%v, want %d,%v", got, set, tc.wantFlag, tc.wantSet)
			}
		})
	}
}

func TestFlagPropagationCoversAllContainers(t *testing.T) {
	rec := ocproc.NewRecord()
	rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
	rec.Parameters().Set("Temperature", flaggedElement(1, false))
	rec.Coordinates().Set("Latitude", flaggedElement(2, false))
	rec.Metadata().Set("CastNumber", flaggedElement(3, false))

	runSuite(t, rec, keepQCLookup())

	for _, probe := range []struct {
		path []string
		want int64
	}{
		{[]string{"parameters", "Temperature"}, 1},
		{[]string{"coordinates", "Latitude"}, 2},
		{[]string{"metadata", "CastNumber"}, 3},
	} {
		e, _ := rec.FindChild(probe.path).(*ocproc.Element)
		got, set := workingQuality(t, e)
		if !set || got != probe.want {
			t.Fatalf("%v WorkingQuality = %d,%v, want %d", probe.path, got, set, probe.want)
		}
	}
}

func TestFlagPropagationRecursesElementMetadata(t *testing.T) {
	rec := ocproc.NewRecord()
	rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
	temp := flaggedElement(1, false)
	// A nested metadata element with its own external flag.
	units := ocproc.NewElement(ocproc.String("degC"))
	units.Metadata().SetValue(ocproc.QualityKey, ocproc.Int(4))
	temp.Metadata().Set("Units", units)
	rec.Parameters().Set("Temperature", temp)

	runSuite(t, rec, keepQCLookup())

	got, set := workingQuality(t, units)
	if !set || got != 4 {
		t.Fatalf("nested WorkingQuality = %d,%v, want 4", got, set)
	}
	// The Quality element itself must not grow flags.
	q, _ := temp.Metadata().Get(ocproc.QualityKey)
	if q.HasMetadata() {
		t.Fatalf("Quality element grew metadata: %v", q.Metadata().Keys())
	}
}

func TestFlagPropagationSubrecordsInheritRootPolicy(t *testing.T) {
	build := func() *ocproc.Record {
		rec := ocproc.NewRecord()
		rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
		for i := 0; i < 3; i++ {
			level := ocproc.NewRecord()
			level.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("WMO4402"))
			level.Parameters().Set("Temperature", flaggedElement(2, false))
			rec.Subrecords().Append("PROFILE", level)
		}
		return rec
	}

	// One recursive run over the whole tree.
	whole := build()
	runSuite(t, whole, keepQCLookup())

	// Independent runs seeded with the same policy, one per subrecord.
	piecewise := build()
	for _, level := range piecewise.Subrecords().IterSubrecords("PROFILE") {
		runSuite(t, level, keepQCLookup())
	}

	a := whole.Subrecords().IterSubrecords("PROFILE")
	b := piecewise.Subrecords().IterSubrecords("PROFILE")
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Fatalf("subrecord %d differs between recursive and piecewise runs", i)
		}
	}
}

func TestUnresolvableStationDefaultsToClearing(t *testing.T) {
	rec := ocproc.NewRecord()
	rec.Metadata().SetValue(ocproc.StationIDKey, ocproc.String("UNKNOWN"))
	rec.Parameters().Set("Temperature", flaggedElement(2, true))

	runSuite(t, rec, keepQCLookup())

	temp, _ := rec.Parameters().Get("Temperature")
	if _, set := workingQuality(t, temp); set {
		t.Fatal("unknown station must default to use_qc=false and clear flags")
	}

	// Same with a nil lookup.
	rec2 := ocproc.NewRecord()
	rec2.Parameters().Set("Temperature", flaggedElement(2, true))
	runSuite(t, rec2, nil)
	temp2, _ := rec2.Parameters().Get("Temperature")
	if _, set := workingQuality(t, temp2); set {
		t.Fatal("nil lookup must default to use_qc=false")
	}
}
