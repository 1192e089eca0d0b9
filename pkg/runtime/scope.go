package runtime

import (
	"sort"
)

// Scope is a name-to-binding table with an explicit lexical parent.
type Scope struct {
	bindings map[string]Binding
	parent   *Scope
}

// NewScope creates a new scope, optionally nested under a parent.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		bindings: make(map[string]Binding),
		parent:   parent,
	}
}

// Parent exposes the lexical parent (nil for the top-level scope).
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define inserts or shadows a binding in this scope.
func (s *Scope) Define(name string, b Binding) {
	s.bindings[name] = b
}

func (s *Scope) DefineValue(name string, v Value) {
	s.Define(name, ValueBinding(v))
}

func (s *Scope) DefineCallable(c Callable) {
	s.Define(c.CallableName(), CallableBinding(c))
}

// LookupLocal consults only this scope.
func (s *Scope) LookupLocal(name string) (Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Lookup searches outward through the scope chain.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// LookupCallable searches outward for the nearest callable binding of
// name, passing over value bindings that share it.
func (s *Scope) LookupCallable(name string) (Callable, bool) {
	for _, cur := range s.Chain() {
		if b, ok := cur.bindings[name]; ok {
			if c, ok := b.Callable(); ok {
				return c, true
			}
		}
	}
	return nil, false
}

// Chain lists this scope followed by each ancestor, innermost first.
func (s *Scope) Chain() []*Scope {
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// Keys returns the local names in sorted order.
func (s *Scope) Keys() []string {
	keys := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
