package property

import "github.com/nihei9/infergen/fut"

// Registry catalogs templates by name, with category and arity indices
// for fast lookup. Grounded on nihei9-vartan/grammar/symbol.go's
// symbolTable (a name↔id bidirectional map kept alongside an ordered
// slice), generalized here from symbol interning to template
// registration: Register is idempotent by name, and union-merging two
// registries keeps the first-seen definition of any duplicate name
// (spec.md §4.5's registry contract).
type Registry struct {
	byName map[string]*Template
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Template)}
}

// Register adds t, ignoring a duplicate name (first occurrence wins).
func (r *Registry) Register(t *Template) {
	if _, exists := r.byName[t.Name]; exists {
		return
	}
	r.byName[t.Name] = t
	r.order = append(r.order, t.Name)
}

// All returns every registered template in registration order.
func (r *Registry) All() []*Template {
	out := make([]*Template, len(r.order))
	for i, n := range r.order {
		out[i] = r.byName[n]
	}
	return out
}

// ByName looks up a template by its exact name.
func (r *Registry) ByName(name string) (*Template, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// ByCategory returns every template in the given category, in
// registration order.
func (r *Registry) ByCategory(cat Category) []*Template {
	var out []*Template
	for _, n := range r.order {
		if t := r.byName[n]; t.Category == cat {
			out = append(out, t)
		}
	}
	return out
}

// Compatible returns every template in the registry whose Compatibility
// predicate accepts f (spec.md §4.6 step 1).
func (r *Registry) Compatible(f *fut.FUT) []*Template {
	var out []*Template
	for _, n := range r.order {
		t := r.byName[n]
		if t.Compatibility == nil || t.Compatibility(f) {
			out = append(out, t)
		}
	}
	return out
}

// Merge unions zero or more registries into a new one, keeping the
// first-occurrence definition of any name that appears in more than one
// (spec.md §4.5: "Registries are composable by union; duplicate names
// across merged registries are de-duplicated on first occurrence").
func Merge(regs ...*Registry) *Registry {
	out := NewRegistry()
	for _, r := range regs {
		for _, n := range r.order {
			out.Register(r.byName[n])
		}
	}
	return out
}
