package params

// Registry is an ordered mapping from parameter name to its governing
// descriptor plus the label of the spec (or instance) that owns that
// descriptor. Entries inherited by reference keep the ancestor as owner
// until a copy-on-override clones the descriptor for the deriving spec.
// Insertion order is preserved for deterministic display only.
type Registry struct {
	names   []string
	entries map[string]registryEntry
}

type registryEntry struct {
	param *Param
	owner string
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// set installs or replaces the entry for name, preserving its position when
// the name is already registered.
func (r *Registry) set(name string, p *Param, owner string) {
	if _, ok := r.entries[name]; !ok {
		r.names = append(r.names, name)
	}
	r.entries[name] = registryEntry{param: p, owner: owner}
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*Param, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.param, true
}

// OwnerOf returns the label of the spec or instance owning name's
// descriptor.
func (r *Registry) OwnerOf(name string) (string, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return "", false
	}
	return entry.owner, true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered names.
func (r *Registry) Len() int { return len(r.names) }

// snapshot returns a registry sharing the same descriptor objects. Sharing
// is intentional: a spec that does not touch a name keeps the ancestor's
// descriptor until something requires divergence.
func (r *Registry) snapshot() *Registry {
	out := &Registry{
		names:   make([]string, len(r.names)),
		entries: make(map[string]registryEntry, len(r.entries)),
	}
	copy(out.names, r.names)
	for name, entry := range r.entries {
		out.entries[name] = entry
	}
	return out
}
