package ocproc

import (
	"fmt"
	"sort"
	"time"
)

// Wire-shape keys shared by the structured codecs. Elements serialize to a
// bare scalar when they carry no metadata, otherwise to a mapping with these
// keys; records serialize to a mapping of their non-empty containers.
const (
	wireValue       = "_value"
	wireValues      = "_values"
	wireMetadata    = "_metadata"
	wireParameters  = "_parameters"
	wireCoordinates = "_coordinates"
	wireSubrecords  = "_subrecords"
	wireRecords     = "_records"
	wireHistory     = "_history"
	wireQCTests     = "_qc_tests"
)

// ToMap converts the record to the generic wire mapping consumed by the
// structured codecs.
func (r *Record) ToMap() map[string]any {
	m := make(map[string]any)
	if !r.metadata.Empty() {
		m[wireMetadata] = r.metadata.toMap()
	}
	if !r.parameters.Empty() {
		m[wireParameters] = r.parameters.toMap()
	}
	if !r.coordinates.Empty() {
		m[wireCoordinates] = r.coordinates.toMap()
	}
	if !r.subrecords.Empty() {
		m[wireSubrecords] = r.subrecords.toMap()
	}
	if len(r.history) > 0 {
		hs := make([]any, 0, len(r.history))
		for _, h := range r.history {
			hs = append(hs, historyToMap(h))
		}
		m[wireHistory] = hs
	}
	if len(r.qcTests) > 0 {
		qs := make([]any, 0, len(r.qcTests))
		for _, q := range r.qcTests {
			qs = append(qs, qcRunToMap(q))
		}
		m[wireQCTests] = qs
	}
	return m
}

// RecordFromMap rebuilds a record from its wire mapping.
func RecordFromMap(m map[string]any) (*Record, error) {
	r := NewRecord()
	if v, ok := m[wireMetadata]; ok {
		if err := elementMapFromAny(r.Metadata(), v); err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
	}
	if v, ok := m[wireParameters]; ok {
		if err := elementMapFromAny(r.Parameters(), v); err != nil {
			return nil, fmt.Errorf("parameters: %w", err)
		}
	}
	if v, ok := m[wireCoordinates]; ok {
		if err := elementMapFromAny(r.Coordinates(), v); err != nil {
			return nil, fmt.Errorf("coordinates: %w", err)
		}
	}
	if v, ok := m[wireSubrecords]; ok {
		if err := recordMapFromAny(r.Subrecords(), v); err != nil {
			return nil, fmt.Errorf("subrecords: %w", err)
		}
	}
	if v, ok := m[wireHistory]; ok {
		hs, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("history: expected list, got %T", v)
		}
		for _, h := range hs {
			entry, err := historyFromAny(h)
			if err != nil {
				return nil, fmt.Errorf("history: %w", err)
			}
			r.history = append(r.history, entry)
		}
	}
	if v, ok := m[wireQCTests]; ok {
		qs, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("qc tests: expected list, got %T", v)
		}
		for _, q := range qs {
			run, err := qcRunFromAny(q)
			if err != nil {
				return nil, fmt.Errorf("qc tests: %w", err)
			}
			r.qcTests = append(r.qcTests, run)
		}
	}
	return r, nil
}

func (em *ElementMap) toMap() map[string]any {
	out := make(map[string]any, em.Len())
	if em == nil {
		return out
	}
	for _, k := range em.keys {
		out[k] = em.m[k].toAny()
	}
	return out
}

func elementMapFromAny(dst *ElementMap, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected mapping, got %T", v)
	}
	for _, k := range sortedKeys(m) {
		e, err := ElementFromAny(m[k])
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		dst.Set(k, e)
	}
	return nil
}

func (e *Element) toAny() any {
	if e.multi {
		vals := make([]any, 0, len(e.children))
		for _, c := range e.children {
			vals = append(vals, c.toAny())
		}
		m := map[string]any{wireValues: vals}
		if e.HasMetadata() {
			m[wireMetadata] = e.metadata.toMap()
		}
		return m
	}
	if e.HasMetadata() {
		return map[string]any{
			wireValue:    e.value.Raw(),
			wireMetadata: e.metadata.toMap(),
		}
	}
	return e.value.Raw()
}

// ElementFromAny rebuilds an element from its wire form: a bare scalar, a
// mapping with _value/_metadata, or a mapping with _values/_metadata.
func ElementFromAny(v any) (*Element, error) {
	m, ok := v.(map[string]any)
	if !ok {
		val, err := FromAny(v)
		if err != nil {
			return nil, err
		}
		return NewElement(val), nil
	}
	var e *Element
	switch {
	case hasKey(m, wireValues):
		raw, ok := m[wireValues].([]any)
		if !ok {
			return nil, fmt.Errorf("expected list under %s, got %T", wireValues, m[wireValues])
		}
		e = NewMultiElement()
		for _, rv := range raw {
			child, err := ElementFromAny(rv)
			if err != nil {
				return nil, err
			}
			e.Append(child)
		}
	case hasKey(m, wireValue):
		val, err := FromAny(m[wireValue])
		if err != nil {
			return nil, err
		}
		e = NewElement(val)
	default:
		return nil, fmt.Errorf("element mapping has neither %s nor %s", wireValue, wireValues)
	}
	if md, ok := m[wireMetadata]; ok {
		if mm, ok := md.(map[string]any); ok && len(mm) > 0 {
			if err := elementMapFromAny(e.Metadata(), md); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (rm *RecordMap) toMap() map[string]any {
	out := make(map[string]any, len(rm.types))
	for _, t := range rm.types {
		sets := make([]any, 0, len(rm.sets[t]))
		for _, rs := range rm.sets[t] {
			sets = append(sets, rs.toMap())
		}
		out[t] = sets
	}
	return out
}

func recordMapFromAny(dst *RecordMap, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected mapping, got %T", v)
	}
	for _, t := range sortedKeys(m) {
		sets, ok := m[t].([]any)
		if !ok {
			return fmt.Errorf("%s: expected list of record sets, got %T", t, m[t])
		}
		for _, sv := range sets {
			rs := dst.NewSet(t)
			if err := recordSetFromAny(rs, sv); err != nil {
				return fmt.Errorf("%s: %w", t, err)
			}
		}
	}
	return nil
}

func (rs *RecordSet) toMap() map[string]any {
	recs := make([]any, 0, len(rs.Records))
	for _, r := range rs.Records {
		recs = append(recs, r.ToMap())
	}
	m := map[string]any{wireRecords: recs}
	if !rs.metadata.Empty() {
		m[wireMetadata] = rs.metadata.toMap()
	}
	return m
}

func recordSetFromAny(rs *RecordSet, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected record-set mapping, got %T", v)
	}
	if md, ok := m[wireMetadata]; ok {
		if err := elementMapFromAny(rs.Metadata(), md); err != nil {
			return err
		}
	}
	recs, ok := m[wireRecords].([]any)
	if !ok {
		return fmt.Errorf("expected list under %s, got %T", wireRecords, m[wireRecords])
	}
	for _, rv := range recs {
		rm, ok := rv.(map[string]any)
		if !ok {
			return fmt.Errorf("expected record mapping, got %T", rv)
		}
		rec, err := RecordFromMap(rm)
		if err != nil {
			return err
		}
		rs.Append(rec)
	}
	return nil
}

func historyToMap(h HistoryEntry) map[string]any {
	return map[string]any{
		"message":   h.Message,
		"timestamp": h.Timestamp.UTC().Format(time.RFC3339Nano),
		"source":    h.SourceName,
		"version":   h.SourceVersion,
		"instance":  h.SourceInstance,
		"type":      string(h.Type),
	}
}

func historyFromAny(v any) (HistoryEntry, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return HistoryEntry{}, fmt.Errorf("expected history mapping, got %T", v)
	}
	ts, err := parseTimestamp(m["timestamp"])
	if err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{
		Message:        stringAt(m, "message"),
		Timestamp:      ts,
		SourceName:     stringAt(m, "source"),
		SourceVersion:  stringAt(m, "version"),
		SourceInstance: stringAt(m, "instance"),
		Type:           MessageType(stringAt(m, "type")),
	}, nil
}

func qcRunToMap(q QCTestRun) map[string]any {
	msgs := make([]any, 0, len(q.Messages))
	for _, msg := range q.Messages {
		mm := map[string]any{"code": msg.Code}
		if len(msg.Path) > 0 {
			path := make([]any, 0, len(msg.Path))
			for _, p := range msg.Path {
				path = append(path, p)
			}
			mm["path"] = path
		}
		if !msg.RefValue.IsNull() {
			mm["ref"] = msg.RefValue.Raw()
		}
		msgs = append(msgs, mm)
	}
	out := map[string]any{
		"name":    q.TestName,
		"version": q.TestVersion,
		"run_at":  q.RunAt.UTC().Format(time.RFC3339Nano),
		"outcome": string(q.Outcome),
		"stale":   q.Stale,
	}
	if len(msgs) > 0 {
		out["messages"] = msgs
	}
	if len(q.Tags) > 0 {
		tags := make([]any, 0, len(q.Tags))
		for _, t := range q.Tags {
			tags = append(tags, t)
		}
		out["tags"] = tags
	}
	return out
}

func qcRunFromAny(v any) (QCTestRun, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return QCTestRun{}, fmt.Errorf("expected qc-run mapping, got %T", v)
	}
	ts, err := parseTimestamp(m["run_at"])
	if err != nil {
		return QCTestRun{}, err
	}
	run := QCTestRun{
		TestName:    stringAt(m, "name"),
		TestVersion: stringAt(m, "version"),
		RunAt:       ts,
		Outcome:     QCResult(stringAt(m, "outcome")),
	}
	if b, ok := m["stale"].(bool); ok {
		run.Stale = b
	}
	if raw, ok := m["messages"].([]any); ok {
		for _, mv := range raw {
			mm, ok := mv.(map[string]any)
			if !ok {
				return QCTestRun{}, fmt.Errorf("expected message mapping, got %T", mv)
			}
			msg := QCMessage{Code: stringAt(mm, "code")}
			if pv, ok := mm["path"].([]any); ok {
				for _, p := range pv {
					if s, ok := p.(string); ok {
						msg.Path = append(msg.Path, s)
					}
				}
			}
			if rv, ok := mm["ref"]; ok {
				ref, err := FromAny(rv)
				if err != nil {
					return QCTestRun{}, err
				}
				msg.RefValue = ref
			}
			run.Messages = append(run.Messages, msg)
		}
	}
	if raw, ok := m["tags"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				run.Tags = append(run.Tags, s)
			}
		}
	}
	return run, nil
}

func parseTimestamp(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return ts, nil
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
