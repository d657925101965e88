package arsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseStringPool(t *testing.T, b []byte) *StringPoolChunk {
	t.Helper()
	chunk, consumed, err := parseChunk(b)
	require.NoError(t, err)
	require.Equal(t, len(b), consumed)
	sp, ok := chunk.(*StringPoolChunk)
	require.True(t, ok)
	return sp
}

func buildStringPoolBytes(t *testing.T, p *StringPoolChunk, opts SerializationOptions) []byte {
	t.Helper()
	b, err := p.Write(opts)
	require.NoError(t, err)
	return b
}

// TestStringPoolDedupUnderShrink covers S3: a pool with a duplicate
// string writes it once under SHRINK, with the repeated offset-table
// slots pointing at the same occurrence.
func TestStringPoolDedupUnderShrink(t *testing.T) {
	p := NewStringPoolChunk(true)
	p.Add("foo")
	p.Add("bar")
	p.Add("foo")

	b := buildStringPoolBytes(t, p, OptionShrink)
	round := mustParseStringPool(t, b)

	require.Equal(t, 3, round.Count())
	s0, _ := round.Get(0)
	s1, _ := round.Get(1)
	s2, _ := round.Get(2)
	assert.Equal(t, "foo", s0)
	assert.Equal(t, "bar", s1)
	assert.Equal(t, "foo", s2)

	// Re-parse the raw offset table to confirm slots 0 and 2 coincide.
	c := newCursor(b)
	require.NoError(t, c.skip(8))
	stringCount, err := c.u32()
	require.NoError(t, err)
	require.EqualValues(t, 3, stringCount)
	require.NoError(t, c.skip(16)) // style_count, flags, strings_start, styles_start
	off0, err := c.u32()
	require.NoError(t, err)
	_, err = c.u32() // off1
	require.NoError(t, err)
	off2, err := c.u32()
	require.NoError(t, err)
	assert.Equal(t, off0, off2)
}

// TestStringPoolNoDedupUnderNone confirms strings are emitted once per
// slot when SHRINK is not requested and the pool isn't always_dedup.
func TestStringPoolNoDedupUnderNone(t *testing.T) {
	p := NewStringPoolChunk(true)
	p.Add("foo")
	p.Add("foo")

	b := buildStringPoolBytes(t, p, OptionNone)
	c := newCursor(b)
	require.NoError(t, c.skip(8))
	_, err := c.u32() // string_count
	require.NoError(t, err)
	require.NoError(t, c.skip(12)) // style_count, flags, strings_start
	require.NoError(t, c.skip(4))  // styles_start
	off0, err := c.u32()
	require.NoError(t, err)
	off1, err := c.u32()
	require.NoError(t, err)
	assert.NotEqual(t, off0, off1)
}

// TestStringPoolDeleteStringsKeepsStyledStringAlive covers S4: deleting
// a string still referenced by a surviving style's span is suppressed.
func TestStringPoolDeleteStringsKeepsStyledStringAlive(t *testing.T) {
	p := NewStringPoolChunk(true)
	p.Add("title")
	p.Add("bold")
	p.Add("body")
	require.NoError(t, p.SetStyle(0, StringPoolStyle{
		Spans: []StringPoolSpan{{NameIndex: 1, Start: 0, Stop: 3}},
	}))

	remap := p.DeleteStrings(map[int]bool{1: true})

	require.Equal(t, []int32{0, 1, 2}, remap)
	require.Equal(t, 3, p.Count())
	s1, _ := p.Get(1)
	assert.Equal(t, "bold", s1)
}

// TestStringPoolDeleteStringsCompactsAndRemaps confirms an
// unreferenced deletion compacts the pool and remaps survivors.
func TestStringPoolDeleteStringsCompactsAndRemaps(t *testing.T) {
	p := NewStringPoolChunk(true)
	p.Add("a")
	p.Add("b")
	p.Add("c")

	remap := p.DeleteStrings(map[int]bool{1: true})

	require.Equal(t, []int32{0, -1, 1}, remap)
	require.Equal(t, 2, p.Count())
	s0, _ := p.Get(0)
	s1, _ := p.Get(1)
	assert.Equal(t, "a", s0)
	assert.Equal(t, "c", s1)
}

func TestStringPoolUTF16RoundTrip(t *testing.T) {
	p := NewStringPoolChunk(false)
	p.Add("héllo")
	p.Add("")

	b := buildStringPoolBytes(t, p, OptionNone)
	round := mustParseStringPool(t, b)

	require.False(t, round.IsUTF8())
	s0, _ := round.Get(0)
	s1, _ := round.Get(1)
	assert.Equal(t, "héllo", s0)
	assert.Equal(t, "", s1)
}

// TestStringPoolStyleDoubleTerminator checks the literal double
// 0xFFFFFFFF sentinel after the style blob (the preserved "quirk").
func TestStringPoolStyleDoubleTerminator(t *testing.T) {
	p := NewStringPoolChunk(true)
	p.Add("x")
	require.NoError(t, p.SetStyle(0, StringPoolStyle{
		Spans: []StringPoolSpan{{NameIndex: 0, Start: 0, Stop: 1}},
	}))

	b := buildStringPoolBytes(t, p, OptionNone)
	assert.Equal(t, spanEnd, leU32(b[len(b)-4:]))
	assert.Equal(t, spanEnd, leU32(b[len(b)-8:len(b)-4]))
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// TestStringPoolNonMonotonicOffsetsForceDedup simulates an on-disk
// pool whose offset table isn't sorted, which must flip always_dedup
// on for subsequent writes even under OptionNone.
func TestStringPoolNonMonotonicOffsetsForceDedup(t *testing.T) {
	p := NewStringPoolChunk(true)
	p.Add("foo")
	p.Add("bar")
	p.Add("foo")
	shrunk := buildStringPoolBytes(t, p, OptionShrink)

	round := mustParseStringPool(t, shrunk)
	assert.True(t, round.alwaysDedup)

	again := buildStringPoolBytes(t, round, OptionNone)
	reround := mustParseStringPool(t, again)
	assert.True(t, reround.alwaysDedup)
}
