package shape

// Registry is the validated, ordered list of node kinds.
type Registry struct {
	kinds  []Kind
	byName map[string]int
}

// New builds a registry from kinds, which must already be in ordinal order.
func New(kinds []Kind) (*Registry, error) {
	r := &Registry{kinds: kinds}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.byName = make(map[string]int, len(kinds))
	for i := range kinds {
		if _, dup := r.byName[kinds[i].Name]; !dup {
			r.byName[kinds[i].Name] = i
		}
	}
	return r, nil
}

// Validate checks that every kind sits at the index named by its ordinal,
// and that property lists are well formed.
func (r *Registry) Validate() error {
	for i := range r.kinds {
		k := &r.kinds[i]
		if k.Name == "" {
			return schemaErr(i, "", "empty kind name")
		}
		if k.Ordinal != i {
			if i > 0 && k.Ordinal <= r.kinds[i-1].Ordinal {
				return schemaErr(i, k.Name, "ordinal %d out of order (previous %d)", k.Ordinal, r.kinds[i-1].Ordinal)
			}
			return schemaErr(i, k.Name, "ordinal %d does not match position", k.Ordinal)
		}
		seen := make(map[string]bool, len(k.Properties))
		for j := range k.Properties {
			p := &k.Properties[j]
			if p.Name == "" {
				return schemaErr(i, k.Name, "property %d has no name", j)
			}
			if seen[p.Name] {
				return schemaErr(i, k.Name, "duplicate property %q", p.Name)
			}
			seen[p.Name] = true
			switch p.Multiplicity {
			case Single, Optional, Variadic:
			default:
				return schemaErr(i, k.Name, "property %q has bad multiplicity %d", p.Name, int(p.Multiplicity))
			}
		}
	}
	return nil
}

func (r *Registry) Len() int {
	return len(r.kinds)
}

// Kind returns the kind at index i.
func (r *Registry) Kind(i uint32) (*Kind, bool) {
	if uint64(i) >= uint64(len(r.kinds)) {
		return nil, false
	}
	return &r.kinds[i], true
}

// Lookup returns the first kind named name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return &r.kinds[i], true
}

// Kinds returns the registry entries in ordinal order.  The result must not
// be modified.
func (r *Registry) Kinds() []Kind {
	return r.kinds
}
