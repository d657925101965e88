package arsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseTable(t *testing.T, b []byte) *ResourceTableChunk {
	t.Helper()
	chunk, consumed, err := parseChunk(b)
	require.NoError(t, err)
	require.Equal(t, len(b), consumed)
	tbl, ok := chunk.(*ResourceTableChunk)
	require.True(t, ok)
	return tbl
}

func newTestTable(t *testing.T) (*ResourceTableChunk, *StringPoolChunk) {
	t.Helper()
	global := NewStringPoolChunk(true)
	global.Add("alpha")
	global.Add("beta")
	tbl := &ResourceTableChunk{stringPool: global}
	tbl.children = append(tbl.children, global)
	return tbl, global
}

func TestResourceTableRoundTrip(t *testing.T) {
	tbl, _ := newTestTable(t)

	p, _, _ := newTestPackage(t)
	tbl.AddPackageChunk(p)

	b, err := tbl.Write(OptionNone)
	require.NoError(t, err)

	round := mustParseTable(t, b)
	require.NotNil(t, round.StringPool())
	s0, _ := round.StringPool().Get(0)
	assert.Equal(t, "alpha", s0)
	require.Len(t, round.Packages(), 1)
}

// TestDeleteStringsRewritesComplexSubValue covers S5: a complex entry's
// STRING sub-value is rewritten through the global-pool remap, and the
// entry survives even though its only sub-value changed.
func TestDeleteStringsRewritesComplexSubValue(t *testing.T) {
	global := NewStringPoolChunk(true)
	for i := 0; i < 8; i++ {
		global.Add(string(rune('a' + i)))
	}
	tbl := &ResourceTableChunk{stringPool: global}
	tbl.children = append(tbl.children, global)

	p, _, _ := newTestPackage(t)
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewComplexEntry(0, 0xFFFFFFFF, []ComplexValue{
			{Ref: 5, Value: newResourceValue(ResValueString, 7)},
		}, false),
	}, 1)
	p.AddChild(tc)
	tbl.AddPackageChunk(p)

	remap, err := tbl.DeleteStrings(map[int]bool{3: true})
	require.NoError(t, err)
	require.EqualValues(t, 6, remap[7])

	e, ok := tc.Entry(0)
	require.True(t, ok)
	assert.EqualValues(t, 6, e.Values[0].Value.Data)
}

// TestDeleteStringsComplexUnresolvableRemapErrors covers the invariant
// violation: a complex sub-value whose STRING reference has no
// surviving remap must error rather than silently drop the sub-value.
func TestDeleteStringsComplexUnresolvableRemapErrors(t *testing.T) {
	global := NewStringPoolChunk(true)
	global.Add("only")
	tbl := &ResourceTableChunk{stringPool: global}
	tbl.children = append(tbl.children, global)

	p, _, _ := newTestPackage(t)
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewComplexEntry(0, 0xFFFFFFFF, []ComplexValue{
			{Ref: 1, Value: newResourceValue(ResValueString, 0)},
		}, false),
	}, 1)
	p.AddChild(tc)
	tbl.AddPackageChunk(p)

	_, err := tbl.DeleteStrings(map[int]bool{0: true})
	require.Error(t, err)
	var arscErr *Error
	require.ErrorAs(t, err, &arscErr)
	assert.Equal(t, ErrKindBrokenInvariant, arscErr.Kind)
}

// TestDeleteStringsSimpleEntryDeletedWhenStringGone confirms a simple
// STRING-typed entry whose string vanishes is dropped entirely.
func TestDeleteStringsSimpleEntryDeletedWhenStringGone(t *testing.T) {
	global := NewStringPoolChunk(true)
	global.Add("gone")
	tbl := &ResourceTableChunk{stringPool: global}
	tbl.children = append(tbl.children, global)

	p, _, _ := newTestPackage(t)
	tc := NewTypeChunk(1, DefaultConfiguration())
	tc.SetEntries(map[uint16]*Entry{
		0: NewSimpleEntry(0, newResourceValue(ResValueString, 0), false),
	}, 1)
	p.AddChild(tc)
	tbl.AddPackageChunk(p)

	_, err := tbl.DeleteStrings(map[int]bool{0: true})
	require.NoError(t, err)

	_, ok := tc.Entry(0)
	assert.False(t, ok)
}
