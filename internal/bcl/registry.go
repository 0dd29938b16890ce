package bcl

import "github.com/kanso-complexity/complexity/internal/complexity"

// Registry is the process-wide signature table. Construction happens
// once at startup (via NewRegistry or NewDefaultRegistry); after
// Freeze() it is read-only, matching the teacher's "global table as
// constructor" design note (spec §9 "Global table as constructor").
type Registry struct {
	entries map[key]Mapping
	// supertypeFallback maps a concrete type name to the list of
	// supertype names to retry, in order, on a miss (spec §4.2
	// "searches a small set of supertype fallbacks").
	supertypeFallback map[string][]string
	frozen            bool
}

// NewRegistry creates an empty, mutable registry. Use NewDefaultRegistry
// for the standard entries described in spec §4.2, or build a custom set
// from scratch with Append before calling Freeze.
func NewRegistry() *Registry {
	return &Registry{
		entries:           make(map[key]Mapping),
		supertypeFallback: make(map[string][]string),
	}
}

// Append adds or replaces a custom entry. It panics if the registry has
// already been frozen, since the table is meant to be read-only once
// construction completes (spec §4.2 "Registry construction is static
// data; implementations should allow appending custom entries at
// startup").
func (r *Registry) Append(declaringType, method string, argCount int, m Mapping) {
	if r.frozen {
		panic("bcl: cannot append to a frozen registry")
	}
	r.entries[key{declaringType, method, argCount}] = m
}

// AppendSupertypeFallback registers that typeName should, on a lookup
// miss, also be looked up under each of supertypes in order (e.g.
// list-like concrete types falling back to "IList").
func (r *Registry) AppendSupertypeFallback(typeName string, supertypes ...string) {
	if r.frozen {
		panic("bcl: cannot append to a frozen registry")
	}
	r.supertypeFallback[typeName] = append(r.supertypeFallback[typeName], supertypes...)
}

// Freeze marks the registry read-only. Subsequent Append calls panic.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

// Lookup resolves (declaringType, method, argCount) to a Mapping,
// falling through unknown arg-counts (spec §4.2: an exact arg-count
// match is tried first, then the wildcard argCount -1 entry), then
// through the small set of supertype fallbacks. On a total miss it
// returns (Mapping{}, false); LookupOrHeuristic is the variant that
// supplies the Heuristic O(n) default flagged Unknown.
func (r *Registry) Lookup(declaringType, method string, argCount int) (Mapping, bool) {
	if m, ok := r.entries[key{declaringType, method, argCount}]; ok {
		return m, true
	}
	if m, ok := r.entries[key{declaringType, method, -1}]; ok {
		return m, true
	}
	for _, super := range r.supertypeFallback[declaringType] {
		if m, ok := r.Lookup(super, method, argCount); ok {
			return m, true
		}
	}
	return Mapping{}, false
}

// LookupOrHeuristic is Lookup with the documented Unknown fallback (spec
// §4.2 "On miss, returns a Heuristic default of O(n) flagged Unknown").
func (r *Registry) LookupOrHeuristic(declaringType, method string, argCount int) Mapping {
	if m, ok := r.Lookup(declaringType, method, argCount); ok {
		return m
	}
	v := complexity.Variable{Name: "n", Role: complexity.RoleDataCount}
	return Mapping{
		Complexity: complexity.NewVar(v),
		Source:     SourceHeuristic,
		Notes:      []NoteFlag{NoteUnknown},
	}
}
