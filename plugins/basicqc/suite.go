// Package basicqc provides position and time plausibility checks: global
// coordinate bounds, platform speed between consecutive reports, and drift
// from a station's mean position.
package basicqc

import (
	"time"

	"oceanqc/pkg/geodesy"
	"oceanqc/pkg/ocproc"
	"oceanqc/pkg/qc"
)

const (
	// SuiteName identifies the suite in QC run results.
	SuiteName = "basic_checks"
	// SuiteVersion is bumped whenever check semantics change.
	SuiteVersion = "1_0"

	topSpeedKey       = "top_speed"
	skipSpeedCheckKey = "skip_speed_check"
	maxDriftKey       = "max_drift_km"

	// defaultTopSpeed is the fastest plausible platform speed in m/s.
	defaultTopSpeed = 40.0
	// defaultMaxDrift bounds how far a report may sit from the station's
	// mean position, in km.
	defaultMaxDrift = 500.0

	batchFixesKey = "basicqc:fixes"
)

// NewSuite builds the basic checks suite. The station lookup may be nil;
// records without a resolvable station use the default thresholds.
func NewSuite(stations qc.StationLookup) *qc.Suite {
	return &qc.Suite{
		Name:    SuiteName,
		Version: SuiteVersion,
		Tests: []qc.RecordTest{
			{Name: "coordinate_sanity", Run: checkCoordinates},
			{Name: "platform_speed", TopOnly: true, Run: speedCheck(stations)},
			{Name: "position_drift", TopOnly: true, Run: driftCheck(stations)},
		},
	}
}

// checkCoordinates verifies coordinate plausibility on the record and, by
// explicit recursion, on every subrecord.
func checkCoordinates(c *qc.Context) error {
	if err := c.Coordinate("Latitude", boundsCheck(-90, 90, "latitude_out_of_range")); err != nil {
		return err
	}
	if err := c.Coordinate("Longitude", boundsCheck(-180, 180, "longitude_out_of_range")); err != nil {
		return err
	}
	if err := c.Coordinate("Time", checkTime); err != nil {
		return err
	}
	return c.TestAllSubrecords(func(sc *qc.Context, _ *ocproc.Record) error {
		return checkCoordinates(sc)
	})
}

func boundsCheck(min, max float64, code string) func(*qc.Context) error {
	return func(c *qc.Context) error {
		return c.TestAllSubvalues(func(vc *qc.Context, leaf *ocproc.Element) error {
			v, ok := leaf.Value().AsFloat()
			if !ok {
				return qc.AssertFlag(false, code, ocproc.FlagBad)
			}
			return qc.AssertFlag(v >= min && v <= max, code, ocproc.FlagBad)
		})
	}
}

func checkTime(c *qc.Context) error {
	s, ok := c.Element().BestValue().AsString()
	if !ok {
		return qc.AssertFlag(false, "time_not_parseable", ocproc.FlagBad)
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return qc.AssertFlag(false, "time_not_parseable", ocproc.FlagBad)
	}
	return qc.AssertFlag(!ts.After(time.Now()), "time_in_future", ocproc.FlagDoubtful)
}

// fix is one dated position of a station.
type fix struct {
	point geodesy.Point
	at    time.Time
}

func speedCheck(stations qc.StationLookup) func(*qc.Context) error {
	return func(c *qc.Context) error {
		id, st := resolveStation(c, stations)
		if id == "" {
			return qc.ErrSkipTest
		}
		if skip, _ := st.GetMetadata(skipSpeedCheckKey, false).(bool); skip {
			return qc.ErrSkipTest
		}
		cur, ok := currentFix(c.Record())
		if !ok {
			return qc.ErrSkipTest
		}

		fixes := stationFixes(c.Batch(), id)
		if len(fixes) == 0 {
			return nil
		}
		prev := fixes[len(fixes)-1]
		dt := cur.at.Sub(prev.at).Seconds()
		if dt <= 0 {
			return nil
		}
		top := floatMetadata(st, topSpeedKey, defaultTopSpeed)
		speed := geodesy.HaversineKm(prev.point, cur.point) * 1000 / dt
		if speed > top {
			c.ReportForReview("speed_too_fast", ocproc.Float(speed))
		}
		return nil
	}
}

func driftCheck(stations qc.StationLookup) func(*qc.Context) error {
	return func(c *qc.Context) error {
		id, st := resolveStation(c, stations)
		if id == "" {
			return qc.ErrSkipTest
		}
		cur, ok := currentFix(c.Record())
		if !ok {
			return qc.ErrSkipTest
		}
		// Compare against the mean of the earlier fixes, then record the
		// current one for the rest of the batch.
		fixes := stationFixes(c.Batch(), id)
		recordFix(c.Batch(), id, cur)
		if len(fixes) < 2 {
			return nil
		}
		points := make([]geodesy.Point, len(fixes))
		for i, f := range fixes {
			points[i] = f.point
		}
		mean, ok := geodesy.MeanPosition(points)
		if !ok {
			return nil
		}
		maxDrift := floatMetadata(st, maxDriftKey, defaultMaxDrift)
		if d := geodesy.HaversineKm(mean, cur.point); d > maxDrift {
			c.ReportForReview("position_drift", ocproc.Float(d))
		}
		return nil
	}
}

// resolveStation returns the record's station id and its configuration.
// The configuration falls back to an empty station so metadata reads see
// their defaults.
func resolveStation(c *qc.Context, stations qc.StationLookup) (string, qc.Station) {
	id, ok := c.Record().Metadata().BestValue(ocproc.StationIDKey, ocproc.Null()).AsString()
	if !ok || id == "" {
		return "", emptyStation{}
	}
	if stations == nil {
		return id, emptyStation{}
	}
	st, found, err := stations.Station(c.Context(), id)
	if err != nil {
		c.Logger().Warn("station lookup failed, using default thresholds",
			"station", id, "error", err)
		return id, emptyStation{}
	}
	if !found {
		return id, emptyStation{}
	}
	return id, st
}

type emptyStation struct{}

func (emptyStation) GetMetadata(_ string, def any) any { return def }

func currentFix(rec *ocproc.Record) (fix, bool) {
	lat, ok := rec.Coordinates().BestValue("Latitude", ocproc.Null()).AsFloat()
	if !ok {
		return fix{}, false
	}
	lon, ok := rec.Coordinates().BestValue("Longitude", ocproc.Null()).AsFloat()
	if !ok {
		return fix{}, false
	}
	s, ok := rec.Coordinates().BestValue("Time", ocproc.Null()).AsString()
	if !ok {
		return fix{}, false
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fix{}, false
	}
	return fix{point: geodesy.Point{Lat: lat, Lon: lon}, at: ts}, true
}

func stationFixes(batch map[string]any, id string) []fix {
	m, ok := batch[batchFixesKey].(map[string][]fix)
	if !ok {
		m = make(map[string][]fix)
		batch[batchFixesKey] = m
	}
	return m[id]
}

func recordFix(batch map[string]any, id string, f fix) {
	m := batch[batchFixesKey].(map[string][]fix)
	m[id] = append(m[id], f)
}

func floatMetadata(st qc.Station, key string, def float64) float64 {
	switch v := st.GetMetadata(key, def).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}
