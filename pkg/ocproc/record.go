package ocproc

import "time"

// Record is one node in an observation tree: a station report, a profile, or
// a profile level. Its identity is its position in the tree plus its
// metadata; there is no global index. Containers are created lazily so an
// empty record costs four nil pointers.
type Record struct {
	metadata    *ElementMap
	parameters  *ElementMap
	coordinates *ElementMap
	subrecords  *RecordMap

	history []HistoryEntry
	qcTests []QCTestRun
}

// NewRecord builds an empty record.
func NewRecord() *Record { return &Record{} }

// Metadata returns the record-level descriptive facts.
func (r *Record) Metadata() *ElementMap {
	if r.metadata == nil {
		r.metadata = NewElementMap()
	}
	return r.metadata
}

// Parameters returns the measured quantities.
func (r *Record) Parameters() *ElementMap {
	if r.parameters == nil {
		r.parameters = NewElementMap()
	}
	return r.parameters
}

// Coordinates returns the spatio-temporal axes.
func (r *Record) Coordinates() *ElementMap {
	if r.coordinates == nil {
		r.coordinates = NewElementMap()
	}
	return r.coordinates
}

// Subrecords returns the child records grouped by subrecord type.
func (r *Record) Subrecords() *RecordMap {
	if r.subrecords == nil {
		r.subrecords = NewRecordMap()
	}
	return r.subrecords
}

// History returns the audit entries recorded against this record.
func (r *Record) History() []HistoryEntry { return r.history }

// QCTests returns the test-run results recorded against this record.
func (r *Record) QCTests() []QCTestRun { return r.qcTests }

// AddHistory appends an audit entry.
func (r *Record) AddHistory(e HistoryEntry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	r.history = append(r.history, e)
}

// RecordNote appends a note-typed history entry attributed to a source.
func (r *Record) RecordNote(message, sourceName, sourceVersion, sourceInstance string) {
	r.AddHistory(HistoryEntry{
		Message:        message,
		SourceName:     sourceName,
		SourceVersion:  sourceVersion,
		SourceInstance: sourceInstance,
		Type:           MessageNote,
	})
}

// RecordQCResult marks earlier runs of the same suite stale and appends the
// new outcome.
func (r *Record) RecordQCResult(run QCTestRun) {
	for i := range r.qcTests {
		if r.qcTests[i].TestName == run.TestName {
			r.qcTests[i].Stale = true
		}
	}
	if run.RunAt.IsZero() {
		run.RunAt = time.Now().UTC()
	}
	r.qcTests = append(r.qcTests, run)
}

// LatestTestResult returns the most recent non-stale run of the named suite.
func (r *Record) LatestTestResult(testName string) (QCTestRun, bool) {
	var best QCTestRun
	found := false
	for _, run := range r.qcTests {
		if run.TestName != testName || run.Stale {
			continue
		}
		if !found || run.RunAt.After(best.RunAt) {
			best, found = run, true
		}
	}
	return best, found
}

// FindChild resolves a slash-separated path ("coordinates/Latitude",
// "subrecords/PROFILE/0/2/parameters/Temperature") to an element or record.
// It returns nil when any segment fails to resolve.
func (r *Record) FindChild(path []string) any {
	if len(path) == 0 {
		return r
	}
	switch path[0] {
	case "metadata":
		return elementOrNil(r.metadata.FindChild(path[1:]))
	case "parameters":
		return elementOrNil(r.parameters.FindChild(path[1:]))
	case "coordinates":
		return elementOrNil(r.coordinates.FindChild(path[1:]))
	case "subrecords":
		if r.subrecords == nil {
			return nil
		}
		return r.subrecords.FindChild(path[1:])
	default:
		return nil
	}
}

func elementOrNil(e *Element) any {
	if e == nil {
		return nil
	}
	return e
}

// Equal reports deep structural equality of the data containers. History and
// QC runs are audit state and do not participate.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return elementMapsEqual(r.metadata, o.metadata) &&
		elementMapsEqual(r.parameters, o.parameters) &&
		elementMapsEqual(r.coordinates, o.coordinates) &&
		recordMapsEqual(r.subrecords, o.subrecords)
}

// RecordSet is one ordered group of sibling child records sharing set-level
// metadata.
type RecordSet struct {
	metadata *ElementMap
	Records  []*Record
}

// NewRecordSet builds an empty set.
func NewRecordSet() *RecordSet { return &RecordSet{} }

// Metadata returns the set-level metadata, creating it on first use.
func (rs *RecordSet) Metadata() *ElementMap {
	if rs.metadata == nil {
		rs.metadata = NewElementMap()
	}
	return rs.metadata
}

// Append adds a child record to the set.
func (rs *RecordSet) Append(r *Record) {
	rs.Records = append(rs.Records, r)
}

func (rs *RecordSet) equal(o *RecordSet) bool {
	if len(rs.Records) != len(o.Records) {
		return false
	}
	if !elementMapsEqual(rs.metadata, o.metadata) {
		return false
	}
	for i := range rs.Records {
		if !rs.Records[i].Equal(o.Records[i]) {
			return false
		}
	}
	return true
}

// RecordMap groups record sets by subrecord type, preserving the order each
// type was first seen.
type RecordMap struct {
	types []string
	sets  map[string][]*RecordSet
}

// NewRecordMap builds an empty map.
func NewRecordMap() *RecordMap {
	return &RecordMap{sets: make(map[string][]*RecordSet)}
}

// Empty reports whether no subrecords exist.
func (rm *RecordMap) Empty() bool {
	return rm == nil || len(rm.types) == 0
}

// Types returns the subrecord type keys in first-seen order.
func (rm *RecordMap) Types() []string {
	if rm == nil {
		return nil
	}
	out := make([]string, len(rm.types))
	copy(out, rm.types)
	return out
}

// Sets returns the ordered record sets of the given type.
func (rm *RecordMap) Sets(recordType string) []*RecordSet {
	if rm == nil {
		return nil
	}
	return rm.sets[recordType]
}

// NewSet appends a fresh record set under the given type and returns it.
func (rm *RecordMap) NewSet(recordType string) *RecordSet {
	if _, ok := rm.sets[recordType]; !ok {
		rm.types = append(rm.types, recordType)
	}
	rs := NewRecordSet()
	rm.sets[recordType] = append(rm.sets[recordType], rs)
	return rs
}

// Append adds a child record to the first set of the given type, creating
// the set when needed.
func (rm *RecordMap) Append(recordType string, r *Record) {
	sets := rm.sets[recordType]
	if len(sets) == 0 {
		rm.NewSet(recordType).Append(r)
		return
	}
	sets[0].Append(r)
}

// IterSubrecords yields every child record of the given type, or of all
// types when recordType is empty, in traversal order.
func (rm *RecordMap) IterSubrecords(recordType string) []*Record {
	if rm == nil {
		return nil
	}
	var out []*Record
	for _, t := range rm.types {
		if recordType != "" && t != recordType {
			continue
		}
		for _, rs := range rm.sets[t] {
			out = append(out, rs.Records...)
		}
	}
	return out
}

// FindChild resolves path segments type/setIndex/recordIndex/...
func (rm *RecordMap) FindChild(path []string) any {
	if rm == nil || len(path) == 0 {
		return nil
	}
	sets, ok := rm.sets[path[0]]
	if !ok || len(path) < 2 {
		return nil
	}
	setIdx, ok := parseIndex(path[1])
	if !ok || setIdx >= len(sets) {
		return nil
	}
	rs := sets[setIdx]
	if len(path) == 2 {
		return rs
	}
	recIdx, ok := parseIndex(path[2])
	if !ok || recIdx >= len(rs.Records) {
		return nil
	}
	return rs.Records[recIdx].FindChild(path[3:])
}

func recordMapsEqual(a, b *RecordMap) bool {
	if a.Empty() != b.Empty() {
		return false
	}
	if a.Empty() {
		return true
	}
	if len(a.types) != len(b.types) {
		return false
	}
	for _, t := range a.types {
		as, bs := a.sets[t], b.sets[t]
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !as[i].equal(bs[i]) {
				return false
			}
		}
	}
	return true
}
