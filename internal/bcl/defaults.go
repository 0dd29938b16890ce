package bcl

import "github.com/kanso-complexity/complexity/internal/complexity"

var (
	constOne = complexity.NewConst(1)
	nVar     = GenericVariable
	nLinear  = complexity.NewVar(nVar)
	nLogN    = complexity.Normalize(complexity.Mul(nLinear, complexity.NewLog(1, nVar, 2)))
	logN     = complexity.NewLog(1, nVar, 2)
)

// NewDefaultRegistry builds the standard BCL entries: the common
// dynamic-array/hash-map/sorted-collection/lazy-sequence vocabulary
// every mainstream OO standard library exposes, following the shape of
// the teacher's internal/stdlib.GetStandardModules (a map built once at
// package init and handed to callers as data). It encodes amortization
// (dynamic-array append) and deferred-execution semantics (lazy
// combinators costing nothing to construct, O(n) once materialized),
// per spec §4.2, then freezes the result.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	// Dynamic array / list.
	r.Append("List", "Add", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteAmortized}})
	r.Append("List", "Append", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteAmortized}})
	r.Append("List", "Insert", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "RemoveAt", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "Remove", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "Contains", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "IndexOf", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "get_Item", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
	r.Append("List", "Count", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
	r.Append("List", "Sort", -1, Mapping{Complexity: nLogN, Source: SourceDocumented})
	r.Append("List", "Reverse", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "Clear", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "ToArray", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("List", "BinarySearch", -1, Mapping{Complexity: logN, Source: SourceDocumented})

	// Hash-based map/set.
	for _, t := range []string{"Dictionary", "HashMap", "HashSet", "Map"} {
		r.Append(t, "Add", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteAmortized}})
		r.Append(t, "Put", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteAmortized}})
		r.Append(t, "Get", -1, Mapping{Complexity: constOne, Source: SourceAttested})
		r.Append(t, "ContainsKey", -1, Mapping{Complexity: constOne, Source: SourceAttested})
		r.Append(t, "Contains", -1, Mapping{Complexity: constOne, Source: SourceAttested})
		r.Append(t, "Remove", -1, Mapping{Complexity: constOne, Source: SourceAttested})
		r.Append(t, "get_Item", -1, Mapping{Complexity: constOne, Source: SourceAttested})
	}

	// Balanced tree / sorted map.
	for _, t := range []string{"TreeMap", "SortedDictionary", "SortedSet"} {
		r.Append(t, "Add", -1, Mapping{Complexity: logN, Source: SourceDocumented})
		r.Append(t, "Get", -1, Mapping{Complexity: logN, Source: SourceDocumented})
		r.Append(t, "ContainsKey", -1, Mapping{Complexity: logN, Source: SourceDocumented})
		r.Append(t, "Remove", -1, Mapping{Complexity: logN, Source: SourceDocumented})
	}

	// Stack / queue / deque.
	for _, t := range []string{"Stack", "Queue", "Deque"} {
		r.Append(t, "Push", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
		r.Append(t, "Pop", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
		r.Append(t, "Enqueue", -1, Mapping{Complexity: constOne, Source: SourceDocumented, Notes: []NoteFlag{NoteAmortized}})
		r.Append(t, "Dequeue", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
		r.Append(t, "Peek", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
	}

	// Priority queue / heap.
	for _, t := range []string{"PriorityQueue", "Heap"} {
		r.Append(t, "Push", -1, Mapping{Complexity: logN, Source: SourceDocumented})
		r.Append(t, "Pop", -1, Mapping{Complexity: logN, Source: SourceDocumented})
		r.Append(t, "Peek", -1, Mapping{Complexity: constOne, Source: SourceDocumented})
	}

	// String builder / string operations.
	r.Append("StringBuilder", "Append", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteAmortized}})
	r.Append("StringBuilder", "ToString", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("String", "Concat", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("String", "Substring", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("String", "Split", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("String", "IndexOf", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("String", "Replace", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})

	// Lazy / deferred-execution sequence combinators: free to construct,
	// O(n) once enumerated/materialized (spec §4.2).
	for _, op := range []string{"Where", "Select", "Map", "Filter", "Take", "Skip", "OrderBy"} {
		notes := []NoteFlag{NoteDeferredExecution}
		cost := nLinear
		if op == "OrderBy" {
			cost = nLogN
		}
		r.Append("IEnumerable", op, -1, Mapping{Complexity: cost, Source: SourceDocumented, Notes: notes})
	}
	r.Append("IEnumerable", "ToList", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("IEnumerable", "Count", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("IEnumerable", "Any", -1, Mapping{Complexity: nLinear, Source: SourceDocumented})
	r.Append("IEnumerable", "First", -1, Mapping{Complexity: constOne, Source: SourceDocumented})

	// Sorting free functions.
	r.Append("", "Sort", -1, Mapping{Complexity: nLogN, Source: SourceDocumented})
	r.Append("", "Shuffle", -1, Mapping{Complexity: nLinear, Source: SourceAttested, Notes: []NoteFlag{NoteInputDependent}})

	// Concurrent-safe collection family: cost tracks its backing
	// structure, flagged ThreadSafe for downstream consumers.
	for _, t := range []string{"ConcurrentDictionary", "ConcurrentHashMap", "ConcurrentBag"} {
		r.Append(t, "Add", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteAmortized, NoteThreadSafe}})
		r.Append(t, "Get", -1, Mapping{Complexity: constOne, Source: SourceAttested, Notes: []NoteFlag{NoteThreadSafe}})
	}

	r.AppendSupertypeFallback("ArrayList", "List")
	r.AppendSupertypeFallback("LinkedList", "List")
	r.AppendSupertypeFallback("ImmutableList", "List")
	r.AppendSupertypeFallback("List", "IList")
	r.AppendSupertypeFallback("Dictionary", "ICollection")
	r.AppendSupertypeFallback("HashMap", "ICollection")
	r.AppendSupertypeFallback("HashSet", "ICollection")

	return r.Freeze()
}
