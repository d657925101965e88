package arsc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestXMLChunk(t *testing.T) (*XMLChunk, *StringPoolChunk) {
	t.Helper()
	sp := NewStringPoolChunk(true)
	x := &XMLChunk{stringPool: sp}
	x.children = append(x.children, sp)
	return x, sp
}

func TestXMLChunkRoundTrip(t *testing.T) {
	x, sp := newTestXMLChunk(t)
	nameIdx := sp.Add("manifest")

	start := &XMLStartElementChunk{
		NameIndex:  uint32(nameIdx),
		IDIndex:    -1,
		ClassIndex: -1,
		StyleIndex: -1,
	}
	end := &XMLEndElementChunk{NameIndex: uint32(nameIdx), NamespaceIndex: -1}
	x.children = append(x.children, start, end)

	b, err := x.Write(OptionNone)
	require.NoError(t, err)

	round, err := ParseXMLChunk(b)
	require.NoError(t, err)
	require.Len(t, round.Nodes(), 2)

	gotStart, ok := round.Nodes()[0].(*XMLStartElementChunk)
	require.True(t, ok)
	n, _ := round.resolveString(int32(gotStart.NameIndex))
	assert.Equal(t, "manifest", n)
	assert.EqualValues(t, -1, gotStart.IDIndex)
}

// TestRemapReferencesSkipsSystemPackage covers S6: a REFERENCE
// attribute is remapped when its data key is present, an unmatched
// reference is untouched, and any reference into the system package
// (0x01) is never remapped regardless of the map's contents.
func TestRemapReferencesSkipsSystemPackage(t *testing.T) {
	e := &XMLStartElementChunk{
		Attributes: []XMLAttribute{
			{NameIndex: 0, RawValueIndex: -1, TypedValue: newResourceValue(ResValueIntDec, 1)},
			{NameIndex: 1, RawValueIndex: -1, TypedValue: newResourceValue(ResValueReference, 0x7F010001)},
			{NameIndex: 2, RawValueIndex: -1, TypedValue: newResourceValue(ResValueIntDec, 2)},
		},
	}
	system := &XMLStartElementChunk{
		Attributes: []XMLAttribute{
			{NameIndex: 0, RawValueIndex: -1, TypedValue: newResourceValue(ResValueReference, 0x01010001)},
		},
	}

	remap := map[uint32]uint32{0x7F010001: 0x7F010099, 0x01010001: 0xDEADBEEF}
	e.RemapReferences(remap)
	system.RemapReferences(remap)

	assert.EqualValues(t, 1, e.Attributes[0].TypedValue.Data)
	assert.EqualValues(t, 0x7F010099, e.Attributes[1].TypedValue.Data)
	assert.EqualValues(t, 2, e.Attributes[2].TypedValue.Data)
	assert.EqualValues(t, 0x01010001, system.Attributes[0].TypedValue.Data)
}

func TestXMLResourceMapRoundTrip(t *testing.T) {
	x, _ := newTestXMLChunk(t)
	rm := &XMLResourceMapChunk{ResourceIDs: []ResourceID{
		MakeResourceID(0x7f, 1, 0),
		MakeResourceID(0x7f, 1, 1),
	}}
	x.children = append(x.children, rm)

	b, err := x.Write(OptionNone)
	require.NoError(t, err)

	round, err := ParseXMLChunk(b)
	require.NoError(t, err)
	require.NotNil(t, round.ResourceMap())

	id, ok := round.ResourceMap().Lookup(1)
	require.True(t, ok)
	assert.EqualValues(t, 1, id.Entry())

	_, ok = round.ResourceMap().Lookup(99)
	assert.False(t, ok)
}

func TestWriteTextRendersElementWithNamespaceAndAttribute(t *testing.T) {
	x, sp := newTestXMLChunk(t)
	prefixIdx := sp.Add("android")
	uriIdx := sp.Add("http://schemas.android.com/apk/res/android")
	nameIdx := sp.Add("manifest")
	attrNameIdx := sp.Add("package")
	attrValIdx := sp.Add("com.example")

	ns := &XMLNamespaceChunk{Prefix: int32(prefixIdx), URI: int32(uriIdx)}
	start := &XMLStartElementChunk{
		NameIndex:  uint32(nameIdx),
		IDIndex:    -1,
		ClassIndex: -1,
		StyleIndex: -1,
		Attributes: []XMLAttribute{
			{NameIndex: uint32(attrNameIdx), RawValueIndex: int32(attrValIdx)},
		},
	}
	end := &XMLEndElementChunk{NameIndex: uint32(nameIdx), NamespaceIndex: -1}
	x.children = append(x.children, ns, start, end)

	var buf bytes.Buffer
	require.NoError(t, x.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, `<manifest`)
	assert.Contains(t, out, `xmlns:android="http://schemas.android.com/apk/res/android"`)
	assert.Contains(t, out, `package="com.example"`)
	assert.Contains(t, out, `</manifest>`)
}
