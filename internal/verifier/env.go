// Package verifier walks the AST, enforces every zero-ambiguity rule,
// and produces either a fully-typed VerifiedProgram or a non-empty
// list of diagnostics. It is the only component that mutates the type
// environment; the code generator reads types from the verified
// program and never re-derives them.
package verifier

import "github.com/phoenix-lang/phoenix/internal/types"

// Scope is a name->type binding environment with a parent reference.
// Scopes form a small tree: one for the program's top level, one per
// function body. v0 has no block-local scoping inside if/for; branch
// and loop bodies share the enclosing scope so the no-type-mutation
// rule applies uniformly across them. The one exception is a loop
// counter, which is scoped to its loop, matching the generated
// `for (int i = 0; ...)` exactly.
type Scope struct {
	parent *Scope
	names  map[string]types.Type
}

// NewScope creates a scope with the given parent (nil for a root).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string]types.Type)}
}

// Lookup walks the scope chain for a name.
func (s *Scope) Lookup(name string) (types.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.names[name]; ok {
			return t, true
		}
	}
	return types.Type{}, false
}

// Bind declares or rebinds a name. A name already bound anywhere in
// the reachable chain keeps its type for its entire lifetime: binding
// with the same type succeeds silently (the value may change, the type
// may not), binding with a different type is a conflict and leaves the
// existing binding untouched. The caller reports the conflict.
func (s *Scope) Bind(name string, t types.Type) (prev types.Type, conflict bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if existing, ok := sc.names[name]; ok {
			if existing.Equal(t) {
				return existing, false
			}
			return existing, true
		}
	}
	s.names[name] = t
	return types.Type{}, false
}

// snapshot copies the local bindings so a branch can be verified and
// rolled back before the opposite branch runs.
func (s *Scope) snapshot() map[string]types.Type {
	out := make(map[string]types.Type, len(s.names))
	for k, v := range s.names {
		out[k] = v
	}
	return out
}

// diff returns the names bound locally since the snapshot was taken.
func (s *Scope) diff(snap map[string]types.Type) map[string]types.Type {
	out := make(map[string]types.Type)
	for k, v := range s.names {
		if _, ok := snap[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// restore rolls the local bindings back to a snapshot.
func (s *Scope) restore(snap map[string]types.Type) {
	s.names = make(map[string]types.Type, len(snap))
	for k, v := range snap {
		s.names[k] = v
	}
}

// unbind removes a local binding. Used for loop counters, which are
// scoped to their loop.
func (s *Scope) unbind(name string) {
	delete(s.names, name)
}
