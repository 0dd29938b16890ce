package bcl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupExactMatch(t *testing.T) {
	r := NewDefaultRegistry()
	m, ok := r.Lookup("List", "Add", 1)
	assert.True(t, ok)
	assert.Equal(t, SourceAttested, m.Source)
	assert.True(t, m.HasNote(NoteAmortized))
}

func TestLookupFallsThroughToWildcardArgCount(t *testing.T) {
	r := NewDefaultRegistry()
	// Entries are registered with argCount -1; any concrete argCount
	// should still resolve through the wildcard.
	m, ok := r.Lookup("Dictionary", "Get", 2)
	assert.True(t, ok)
	assert.Equal(t, SourceAttested, m.Source)
}

func TestLookupSupertypeFallback(t *testing.T) {
	r := NewDefaultRegistry()
	m, ok := r.Lookup("ArrayList", "Add", 1)
	assert.True(t, ok, "ArrayList should fall back to List")
	assert.True(t, m.HasNote(NoteAmortized))
}

func TestLookupMissReturnsFalse(t *testing.T) {
	r := NewDefaultRegistry()
	_, ok := r.Lookup("TotallyUnknownType", "DoesNotExist", 0)
	assert.False(t, ok)
}

func TestLookupOrHeuristicDefaultsToLinearUnknown(t *testing.T) {
	r := NewDefaultRegistry()
	m := r.LookupOrHeuristic("TotallyUnknownType", "DoesNotExist", 0)
	assert.Equal(t, SourceHeuristic, m.Source)
	assert.True(t, m.HasNote(NoteUnknown))
}

func TestAppendPanicsAfterFreeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	assert.Panics(t, func() {
		r.Append("Foo", "Bar", 0, Mapping{})
	})
}

func TestAppendSupertypeFallbackPanicsAfterFreeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()
	assert.Panics(t, func() {
		r.AppendSupertypeFallback("Foo", "Bar")
	})
}

func TestDeferredExecutionCombinatorsFlagged(t *testing.T) {
	r := NewDefaultRegistry()
	m, ok := r.Lookup("IEnumerable", "Where", 1)
	assert.True(t, ok)
	assert.True(t, m.HasNote(NoteDeferredExecution))
}
