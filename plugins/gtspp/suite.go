// Package gtspp provides the GTSPP pre-QC suite: it propagates externally
// supplied Quality flags into the engine-owned WorkingQuality flag across
// the whole record hierarchy, honoring the station's keep_external_qc
// policy.
package gtspp

import (
	"oceanqc/pkg/ocproc"
	"oceanqc/pkg/qc"
)

const (
	// SuiteName identifies the suite in QC run results.
	SuiteName = "gtspp_pre_test"
	// SuiteVersion is bumped whenever flag semantics change.
	SuiteVersion = "1_0"

	keepExternalQCKey = "keep_external_qc"
)

// NewSuite builds the initial quality-flags suite. The station lookup may
// be nil; records without a resolvable station default to use_qc=false.
func NewSuite(stations qc.StationLookup) *qc.Suite {
	return &qc.Suite{
		Name:    SuiteName,
		Version: SuiteVersion,
		Tests: []qc.RecordTest{
			{
				Name:    "initial_quality_flags",
				TopOnly: true,
				Run: func(c *qc.Context) error {
					// The policy is derived once at the root; subrecords
					// inherit it and never recompute their own.
					return setAllQualityFlags(c, useExternalQC(c, stations))
				},
			},
		},
	}
}

func useExternalQC(c *qc.Context, stations qc.StationLookup) bool {
	if stations == nil {
		return false
	}
	id, ok := c.Record().Metadata().BestValue(ocproc.StationIDKey, ocproc.Null()).AsString()
	if !ok || id == "" {
		return false
	}
	st, found, err := stations.Station(c.Context(), id)
	if err != nil {
		c.Logger().Warn("station lookup failed, assuming keep_external_qc=false",
			"station", id, "error", err)
		return false
	}
	if !found {
		return false
	}
	keep, _ := st.GetMetadata(keepExternalQCKey, false).(bool)
	return keep
}

func setAllQualityFlags(c *qc.Context, useQC bool) error {
	rec := c.Record()
	for _, name := range rec.Parameters().Keys() {
		if err := c.Parameter(name, flagElement(useQC)); err != nil {
			return err
		}
	}
	for _, name := range rec.Metadata().Keys() {
		if err := c.Metadata(name, flagElement(useQC)); err != nil {
			return err
		}
	}
	for _, name := range rec.Coordinates().Keys() {
		if err := c.Coordinate(name, flagElement(useQC)); err != nil {
			return err
		}
	}
	return c.TestAllSubrecords(func(sc *qc.Context, _ *ocproc.Record) error {
		return setAllQualityFlags(sc, useQC)
	})
}

func flagElement(useQC bool) func(*qc.Context) error {
	return func(c *qc.Context) error {
		return setFlagsOnElement(c, useQC)
	}
}

// setFlagsOnElement derives WorkingQuality from Quality on one element and
// recurses into its metadata entries. Quality and WorkingQuality are
// control fields, not data: the recursion must skip them or it would try
// to flag the flags themselves.
func setFlagsOnElement(c *qc.Context, useQC bool) error {
	e := c.Element()
	md := e.Metadata()
	if q, ok := md.BestValue(ocproc.QualityKey, ocproc.Null()).AsInt(); useQC && ok && q > 0 {
		md.SetValue(ocproc.WorkingQualityKey, ocproc.Int(q))
	} else {
		md.Delete(ocproc.WorkingQualityKey)
	}
	for _, key := range md.Keys() {
		if key == ocproc.QualityKey || key == ocproc.WorkingQualityKey {
			continue
		}
		if err := c.ElementMetadata(key, flagElement(useQC)); err != nil {
			return err
		}
	}
	return nil
}
