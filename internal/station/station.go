// Package station provides the station entity consulted by QC suites and
// the lookup sources that resolve stations from memory, SQLite, or Postgres.
package station

import (
	"context"

	"oceanqc/pkg/qc"
)

// Station is one observing site and its QC-relevant configuration, such as
// keep_external_qc or top_speed.
type Station struct {
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata"`
}

var _ qc.Station = (*Station)(nil)

// GetMetadata returns the named configuration value, or def when absent.
func (s *Station) GetMetadata(key string, def any) any {
	if s == nil || s.Metadata == nil {
		return def
	}
	if v, ok := s.Metadata[key]; ok {
		return v
	}
	return def
}

// MemorySource resolves stations from a fixed in-memory set.
type MemorySource struct {
	stations map[string]*Station
}

var _ qc.StationLookup = (*MemorySource)(nil)

// NewMemorySource builds a source over the given stations.
func NewMemorySource(stations ...*Station) *MemorySource {
	m := &MemorySource{stations: make(map[string]*Station, len(stations))}
	for _, s := range stations {
		m.stations[s.ID] = s
	}
	return m
}

// Station resolves a station by identifier. A miss is not an error.
func (m *MemorySource) Station(_ context.Context, id string) (qc.Station, bool, error) {
	s, ok := m.stations[id]
	if !ok {
		return nil, false, nil
	}
	return s, true, nil
}
