package qc

import "context"

// Station exposes the site configuration a test suite may consult when
// deriving per-record QC policy.
type Station interface {
	// GetMetadata returns the named configuration value, or def when the
	// station does not carry it.
	GetMetadata(key string, def any) any
}

// StationLookup resolves a station by identifier. A miss is not an error:
// the second return is false and suites fall back to their defaults.
type StationLookup interface {
	Station(ctx context.Context, id string) (Station, bool, error)
}
