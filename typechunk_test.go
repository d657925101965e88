package arsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseTypeChunk(t *testing.T, b []byte) *TypeChunk {
	t.Helper()
	chunk, consumed, err := parseChunk(b)
	require.NoError(t, err)
	require.Equal(t, len(b), consumed)
	tc, ok := chunk.(*TypeChunk)
	require.True(t, ok)
	return tc
}

func TestSimpleEntryRoundTripDense(t *testing.T) {
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewSimpleEntry(0, newResourceValue(ResValueString, 0), true),
		2: NewSimpleEntry(1, newResourceValue(ResValueIntDec, 42), false),
	}, 3)

	b, err := tc.Write(OptionNone)
	require.NoError(t, err)

	round := mustParseTypeChunk(t, b)
	assert.False(t, round.IsSparse())
	assert.EqualValues(t, 3, round.TotalEntryCount())
	assert.Len(t, round.Entries(), 2)

	e0, ok := round.Entry(0)
	require.True(t, ok)
	assert.True(t, e0.IsPublic())
	assert.False(t, e0.IsComplex())
	assert.EqualValues(t, ResValueString, e0.Value.Type)

	_, absent := round.Entry(1)
	assert.False(t, absent)

	e2, ok := round.Entry(2)
	require.True(t, ok)
	assert.False(t, e2.IsPublic())
	assert.EqualValues(t, 42, e2.Value.Data)
}

func TestSparseEntryRoundTrip(t *testing.T) {
	tc := NewTypeChunk(2, DefaultConfiguration())
	tc.SetSparseEntries(true)
	tc.SetEntries(map[uint16]*Entry{
		5: NewSimpleEntry(0, newResourceValue(ResValueIntBoolean, 1), false),
	}, 100)

	b, err := tc.Write(OptionNone)
	require.NoError(t, err)

	round := mustParseTypeChunk(t, b)
	assert.True(t, round.IsSparse())
	assert.EqualValues(t, 100, round.TotalEntryCount())
	assert.Len(t, round.Entries(), 1)

	e, ok := round.Entry(5)
	require.True(t, ok)
	assert.EqualValues(t, 1, e.Value.Data)
}

// TestComplexEntryRoundTrip covers S5's entry shape: a complex entry
// carrying a single (ref, STRING) sub-value survives intact.
func TestComplexEntryRoundTrip(t *testing.T) {
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewComplexEntry(3, 0xFFFFFFFF, []ComplexValue{
			{Ref: 5, Value: newResourceValue(ResValueString, 7)},
		}, false),
	}, 1)

	b, err := tc.Write(OptionNone)
	require.NoError(t, err)

	round := mustParseTypeChunk(t, b)
	e, ok := round.Entry(0)
	require.True(t, ok)
	require.True(t, e.IsComplex())
	require.Len(t, e.Values, 1)
	assert.EqualValues(t, 5, e.Values[0].Ref)
	assert.EqualValues(t, 7, e.Values[0].Value.Data)
	assert.EqualValues(t, ResValueString, e.Values[0].Value.Type)
}

func TestEntryFlagPublicMaskedUnderPrivateResources(t *testing.T) {
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewSimpleEntry(0, newResourceValue(ResValueIntDec, 1), true),
	}, 1)

	b, err := tc.Write(OptionPrivateResources)
	require.NoError(t, err)

	round := mustParseTypeChunk(t, b)
	e, _ := round.Entry(0)
	assert.False(t, e.IsPublic())
}

func TestOverrideEntriesDeletesAndOutOfRangeIsNoop(t *testing.T) {
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewSimpleEntry(0, newResourceValue(ResValueIntDec, 1), false),
		1: NewSimpleEntry(1, newResourceValue(ResValueIntDec, 2), false),
	}, 2)

	tc.OverrideEntries(map[uint16]*Entry{
		0:  nil,
		99: NewSimpleEntry(0, newResourceValue(ResValueIntDec, 3), false),
	})

	_, ok := tc.Entry(0)
	assert.False(t, ok)
	_, ok = tc.Entry(1)
	assert.True(t, ok)
	_, ok = tc.Entry(99)
	assert.False(t, ok)
}
