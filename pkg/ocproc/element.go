package ocproc

// Element holds either a single scalar value or an ordered list of child
// elements, never both, plus its own metadata map. Metadata nests without
// bound: an element describing Quality may itself carry metadata.
type Element struct {
	value    Value
	children []*Element
	multi    bool
	metadata *ElementMap
}

// NewElement builds a single-valued element.
func NewElement(v Value) *Element {
	return &Element{value: v}
}

// NewMultiElement builds a multi-valued element from the given children.
func NewMultiElement(children ...*Element) *Element {
	e := &Element{multi: true}
	e.children = append(e.children, children...)
	return e
}

// IsMulti reports whether the element holds a list of values.
func (e *Element) IsMulti() bool { return e.multi }

// Value returns the scalar for a single-valued element; null for multi.
func (e *Element) Value() Value {
	if e.multi {
		return Null()
	}
	return e.value
}

// SetValue replaces the scalar of a single-valued element.
func (e *Element) SetValue(v Value) {
	if !e.multi {
		e.value = v
	}
}

// Values returns the ordered children of a multi-valued element.
func (e *Element) Values() []*Element {
	return e.children
}

// Append adds a child to a multi-valued element.
func (e *Element) Append(child *Element) {
	if e.multi {
		e.children = append(e.children, child)
	}
}

// Metadata returns the element's metadata map, creating it on first use.
func (e *Element) Metadata() *ElementMap {
	if e.metadata == nil {
		e.metadata = NewElementMap()
	}
	return e.metadata
}

// HasMetadata reports whether any metadata has been attached.
func (e *Element) HasMetadata() bool {
	return e.metadata != nil && e.metadata.Len() > 0
}

// AllValues yields every leaf element: the element itself when single, the
// flattened children when multi. Termination is guaranteed by structural
// depth; children are owned exclusively by their parent.
func (e *Element) AllValues() []*Element {
	if !e.multi {
		return []*Element{e}
	}
	var out []*Element
	for _, c := range e.children {
		out = append(out, c.AllValues()...)
	}
	return out
}

// BestValue selects the preferred scalar among the element's leaves. Leaves
// are ranked by their WorkingQuality flag: good and changed first, then
// not-done, probably-good, doubtful, bad, missing.
func (e *Element) BestValue() Value {
	best := e.bestLeaf()
	if best == nil {
		return Null()
	}
	return best.value
}

var flagRank = map[int64]int{
	FlagGood:         0,
	FlagChanged:      0,
	FlagNotDone:      1,
	FlagProbablyGood: 2,
	FlagDoubtful:     3,
	FlagBad:          4,
	FlagMissing:      5,
}

func (e *Element) bestLeaf() *Element {
	if !e.multi {
		return e
	}
	var best *Element
	bestRank := int(^uint(0) >> 1)
	for _, leaf := range e.AllValues() {
		rank, ok := flagRank[int64(leaf.WorkingQuality())]
		if !ok {
			rank = 1
		}
		if best == nil || rank < bestRank {
			best, bestRank = leaf, rank
			if rank == 0 {
				break
			}
		}
	}
	return best
}

// WorkingQuality returns the engine-computed quality flag of the preferred
// leaf, or FlagNotDone if unset.
func (e *Element) WorkingQuality() int {
	leaf := e.bestLeaf()
	if leaf == nil || leaf.metadata == nil {
		return FlagNotDone
	}
	wq, ok := leaf.metadata.Get(WorkingQualityKey)
	if !ok {
		return FlagNotDone
	}
	if i, ok := wq.Value().AsInt(); ok {
		return int(i)
	}
	return FlagNotDone
}

// IsEmpty reports whether no leaf carries a usable value.
func (e *Element) IsEmpty() bool {
	for _, leaf := range e.AllValues() {
		if !leaf.value.IsNull() {
			if s, ok := leaf.value.AsString(); !ok || s != "" {
				return false
			}
		}
	}
	return true
}

// IsGood reports whether at least one leaf has a non-erroneous value under
// its WorkingQuality flag.
func (e *Element) IsGood(allowDubious bool) bool {
	for _, leaf := range e.AllValues() {
		if leaf.value.IsNull() {
			continue
		}
		switch wq := leaf.WorkingQuality(); {
		case wq == FlagGood || wq == FlagProbablyGood || wq == FlagChanged || wq == FlagNotDone:
			return true
		case wq == FlagDoubtful && allowDubious:
			return true
		}
	}
	return false
}

// Equal reports deep equality of values and metadata.
func (e *Element) Equal(o *Element) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.multi != o.multi {
		// A single element equals a one-child multi with the same content.
		if e.multi && len(e.children) == 1 {
			return e.children[0].Equal(o)
		}
		if o.multi && len(o.children) == 1 {
			return e.Equal(o.children[0])
		}
		return false
	}
	if e.multi {
		if len(e.children) != len(o.children) {
			return false
		}
		for i := range e.children {
			if !e.children[i].Equal(o.children[i]) {
				return false
			}
		}
	} else if !e.value.Equal(o.value) {
		return false
	}
	return elementMapsEqual(e.metadata, o.metadata)
}

// FindChild resolves a path expression rooted at this element. Supported
// segments are "metadata" followed by a key, and numeric indexes into a
// multi-valued element.
func (e *Element) FindChild(path []string) *Element {
	if len(path) == 0 {
		return e
	}
	switch path[0] {
	case "metadata":
		if e.metadata == nil {
			return nil
		}
		return e.metadata.FindChild(path[1:])
	default:
		if e.multi {
			idx, ok := parseIndex(path[0])
			if !ok || idx < 0 || idx >= len(e.children) {
				return nil
			}
			return e.children[idx].FindChild(path[1:])
		}
		if path[0] == "0" {
			return e.FindChild(path[1:])
		}
		return nil
	}
}

func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
