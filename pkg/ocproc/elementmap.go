package ocproc

// ElementMap is an insertion-ordered mapping of names to elements. It backs
// the parameters, coordinates, and metadata containers of a record as well
// as the metadata of every element.
type ElementMap struct {
	keys []string
	m    map[string]*Element
}

// NewElementMap builds an empty map.
func NewElementMap() *ElementMap {
	return &ElementMap{m: make(map[string]*Element)}
}

// Len returns the number of entries.
func (em *ElementMap) Len() int {
	if em == nil {
		return 0
	}
	return len(em.keys)
}

// Empty reports whether the map has no entries.
func (em *ElementMap) Empty() bool { return em.Len() == 0 }

// Has reports whether the named entry exists.
func (em *ElementMap) Has(name string) bool {
	if em == nil {
		return false
	}
	_, ok := em.m[name]
	return ok
}

// Get retrieves the named element.
func (em *ElementMap) Get(name string) (*Element, bool) {
	if em == nil {
		return nil, false
	}
	e, ok := em.m[name]
	return e, ok
}

// Set stores an element under the given name, preserving the original
// insertion position when the name already exists.
func (em *ElementMap) Set(name string, e *Element) {
	if _, ok := em.m[name]; !ok {
		em.keys = append(em.keys, name)
	}
	em.m[name] = e
}

// SetValue stores a single-valued element built from the given scalar.
func (em *ElementMap) SetValue(name string, v Value) *Element {
	e := NewElement(v)
	em.Set(name, e)
	return e
}

// Delete removes the named entry if present.
func (em *ElementMap) Delete(name string) {
	if em == nil {
		return
	}
	if _, ok := em.m[name]; !ok {
		return
	}
	delete(em.m, name)
	for i, k := range em.keys {
		if k == name {
			em.keys = append(em.keys[:i], em.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the entry names in insertion order.
func (em *ElementMap) Keys() []string {
	if em == nil {
		return nil
	}
	out := make([]string, len(em.keys))
	copy(out, em.keys)
	return out
}

// BestValue returns the preferred scalar of the named element, or the given
// default when the entry is absent.
func (em *ElementMap) BestValue(name string, def Value) Value {
	e, ok := em.Get(name)
	if !ok {
		return def
	}
	return e.BestValue()
}

// HasValue reports whether the named entry exists and is non-empty.
func (em *ElementMap) HasValue(name string) bool {
	e, ok := em.Get(name)
	return ok && !e.IsEmpty()
}

// FindChild resolves a path expression against the map: the first segment
// names an entry, the rest descend into it.
func (em *ElementMap) FindChild(path []string) *Element {
	if em == nil || len(path) == 0 {
		return nil
	}
	e, ok := em.Get(path[0])
	if !ok {
		return nil
	}
	return e.FindChild(path[1:])
}

func elementMapsEqual(a, b *ElementMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a == nil || a.Len() == 0 {
		return true
	}
	for _, k := range a.keys {
		be, ok := b.Get(k)
		if !ok || !a.m[k].Equal(be) {
			return false
		}
	}
	return true
}
