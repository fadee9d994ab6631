package semantics

// Scope is an ordered mapping from name to zero or more bindings (§3.1:
// "insertion order preserved; views iterate in declaration order"). A
// name can bind more than one Ref (e.g. an overloaded callback name), so
// Lookup returns a slice.
type Scope struct {
	order []string
	bind  map[string][]Ref
}

// Bind records that name resolves to r within this scope, appending r if
// the name is already bound and preserving first-seen order for the key
// list.
func (s *Scope) Bind(name string, r Ref) {
	if s.bind == nil {
		s.bind = make(map[string][]Ref)
	}
	if _, ok := s.bind[name]; !ok {
		s.order = append(s.order, name)
	}
	s.bind[name] = append(s.bind[name], r)
}

// Lookup returns the bindings for name, or nil if unbound.
func (s *Scope) Lookup(name string) []Ref {
	return s.bind[name]
}

// Names returns every bound name in declaration (first-bind) order.
func (s *Scope) Names() []string {
	return s.order
}

// Each visits every (name, Ref) binding in declaration order, including
// repeated names for overloaded bindings in the order they were added.
func (s *Scope) Each(fn func(name string, r Ref)) {
	for _, name := range s.order {
		for _, r := range s.bind[name] {
			fn(name, r)
		}
	}
}

// Len reports the number of distinct bound names.
func (s *Scope) Len() int { return len(s.order) }
