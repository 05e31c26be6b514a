package codec

// Registration pairs a codec with the name it is registered under.
type Registration struct {
	Name  string
	Codec Codec
}

// Registry maps names to codecs and resolves the codec for a file target.
// It is built once at startup and read-only afterwards, so it may be shared
// across workers without synchronization.
type Registry struct {
	names  []string
	codecs map[string]Codec
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register stores the codec under the given name. A later registration of
// the same name overwrites the earlier one while keeping its probe position.
func (r *Registry) Register(name string, c Codec) {
	if _, ok := r.codecs[name]; !ok {
		r.names = append(r.names, name)
	}
	r.codecs[name] = c
}

// Get returns the codec registered under the given name.
func (r *Registry) Get(name string) (Codec, bool) {
	c, ok := r.codecs[name]
	return c, ok
}

// Codecs returns every registration in registration order.
func (r *Registry) Codecs() []Registration {
	out := make([]Registration, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, Registration{Name: n, Codec: r.codecs[n]})
	}
	return out
}

// LoadCodec resolves the codec for a file target. An explicit name always
// wins, even when the named codec's probe would reject the path. Without a
// name the first codec, in registration order, whose probe accepts the path
// is chosen.
func (r *Registry) LoadCodec(path, name string) (Codec, error) {
	if name != "" {
		if c, ok := r.codecs[name]; ok {
			return c, nil
		}
		return nil, &ResolutionError{Path: path, Name: name}
	}
	for _, n := range r.names {
		if c := r.codecs[n]; c.CheckCompatibility(path) {
			return c, nil
		}
	}
	return nil, &ResolutionError{Path: path}
}
