package ocproc

// Quality flag scale used by the GTSPP convention. Flags live in element
// metadata under QualityKey (externally supplied, immutable input) and
// WorkingQualityKey (engine-computed, mutable).
const (
	FlagNotDone      = 0
	FlagGood         = 1
	FlagProbablyGood = 2
	FlagDoubtful     = 3
	FlagBad          = 4
	FlagChanged      = 5
	FlagMissing      = 9
)

// Metadata keys with engine-level meaning.
const (
	// QualityKey holds a flag assigned by an upstream QC process.
	QualityKey = "Quality"
	// WorkingQualityKey holds the flag the engine derives and downstream
	// consumers act on.
	WorkingQualityKey = "WorkingQuality"
	// UnitsKey names the measurement units of an element.
	UnitsKey = "Units"
	// StationIDKey is the record metadata entry naming the reporting station.
	StationIDKey = "StationID"
)
