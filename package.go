package arsc

import "encoding/binary"

const packageHeaderExtraSize = 4 + 256 + 4 + 4 + 4 + 4 + 4 // 280
const packageNameFieldSize = 256

// PackageChunk is one app/library's resource package: a name, a type
// string pool, a key string pool, and the TypeSpecChunk/TypeChunk/
// LibraryChunk children that reference them (spec.md §3 "PackageChunk").
type PackageChunk struct {
	ID                            uint32
	Name                          string
	LastPublicType, LastPublicKey uint32
	TypeIDOffset                  uint32

	children    []Chunk
	typeStrings *StringPoolChunk
	keyStrings  *StringPoolChunk
}

func (p *PackageChunk) Type() ChunkType { return ChunkTablePackage }

// TypeStringPool returns the pool of type names (indexed by TypeChunk.ID-1).
func (p *PackageChunk) TypeStringPool() *StringPoolChunk { return p.typeStrings }

// KeyStringPool returns the pool of resource entry key names.
func (p *PackageChunk) KeyStringPool() *StringPoolChunk { return p.keyStrings }

// LibraryChunk returns the package's dynamic-library table, or nil.
func (p *PackageChunk) LibraryChunk() *LibraryChunk {
	for _, c := range p.children {
		if l, ok := c.(*LibraryChunk); ok {
			return l
		}
	}
	return nil
}

// TypeChunks returns every TypeChunk child, in parse/insertion order.
func (p *PackageChunk) TypeChunks() []*TypeChunk {
	var out []*TypeChunk
	for _, c := range p.children {
		if t, ok := c.(*TypeChunk); ok {
			out = append(out, t)
		}
	}
	return out
}

// TypeSpecChunks returns every TypeSpecChunk child, in parse/insertion order.
func (p *PackageChunk) TypeSpecChunks() []*TypeSpecChunk {
	var out []*TypeSpecChunk
	for _, c := range p.children {
		if t, ok := c.(*TypeSpecChunk); ok {
			out = append(out, t)
		}
	}
	return out
}

// AddChild appends a new sub-chunk (TypeChunk, TypeSpecChunk, or
// LibraryChunk) after every existing child.
func (p *PackageChunk) AddChild(c Chunk) { p.children = append(p.children, c) }

// DeleteKeyStrings deletes the given key-pool string indices and
// cascades the cleanup through every TypeChunk: entries whose key would
// dangle are remapped or dropped, TypeChunks left with no entries are
// removed, and a TypeSpecChunk whose last TypeChunk disappears is
// removed too (spec.md §4.5 "delete_key_strings"). Returns the number
// of TypeChunks deleted.
func (p *PackageChunk) DeleteKeyStrings(toDelete map[int]bool) int {
	remap := p.keyStrings.DeleteStrings(toDelete)

	survivingTypeIDs := map[uint8]bool{}
	deleted := 0
	kept := make([]Chunk, 0, len(p.children))
	for _, c := range p.children {
		t, ok := c.(*TypeChunk)
		if !ok {
			kept = append(kept, c)
			continue
		}
		overrides := map[uint16]*Entry{}
		allGone := true
		for idx, e := range t.Entries() {
			newKey := remap[e.KeyIndex]
			if newKey < 0 {
				overrides[idx] = nil
				continue
			}
			allGone = false
			if uint32(newKey) != e.KeyIndex {
				e2 := *e
				e2.KeyIndex = uint32(newKey)
				overrides[idx] = &e2
			}
		}
		if allGone && len(t.Entries()) > 0 {
			deleted++
			continue
		}
		t.OverrideEntries(overrides)
		survivingTypeIDs[t.ID()] = true
		kept = append(kept, c)
	}

	final := make([]Chunk, 0, len(kept))
	for _, c := range kept {
		if ts, ok := c.(*TypeSpecChunk); ok && !survivingTypeIDs[ts.ID()] {
			continue
		}
		final = append(final, c)
	}
	p.children = final
	return deleted
}

func parsePackageChunk(c *cursor, headerSize uint16, chunkSize uint32) (*PackageChunk, error) {
	id, err := c.u32()
	if err != nil {
		return nil, err
	}
	nameBytes, err := c.bytes(packageNameFieldSize)
	if err != nil {
		return nil, err
	}
	typeStringsOffset, err := c.u32()
	if err != nil {
		return nil, err
	}
	lastPublicType, err := c.u32()
	if err != nil {
		return nil, err
	}
	keyStringsOffset, err := c.u32()
	if err != nil {
		return nil, err
	}
	lastPublicKey, err := c.u32()
	if err != nil {
		return nil, err
	}
	typeIDOffset, err := c.u32()
	if err != nil {
		return nil, err
	}
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "package chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}

	p := &PackageChunk{
		ID:             id,
		Name:           fixedUTF16(nameBytes),
		LastPublicType: lastPublicType,
		LastPublicKey:  lastPublicKey,
		TypeIDOffset:   typeIDOffset,
	}

	children, err := parseChildren(c, int(chunkSize))
	if err != nil {
		return nil, err
	}

	haveLibrary := false
	for _, pc := range children {
		p.children = append(p.children, pc.chunk)
		switch v := pc.chunk.(type) {
		case *StringPoolChunk:
			if uint32(pc.offset) == typeStringsOffset {
				p.typeStrings = v
			} else if uint32(pc.offset) == keyStringsOffset {
				p.keyStrings = v
			}
		case *LibraryChunk:
			if haveLibrary {
				return nil, newErr(ErrKindBrokenInvariant, "package chunk: more than one library chunk")
			}
			haveLibrary = true
		}
	}
	if p.typeStrings == nil {
		return nil, newErr(ErrKindBrokenInvariant, "package chunk: no string pool at type_strings_offset %d", typeStringsOffset)
	}
	if p.keyStrings == nil {
		return nil, newErr(ErrKindBrokenInvariant, "package chunk: no string pool at key_strings_offset %d", keyStringsOffset)
	}
	return p, nil
}

func (p *PackageChunk) Write(opts SerializationOptions) ([]byte, error) {
	headerSize := uint16(8 + packageHeaderExtraSize)

	return writeChunk(ChunkTablePackage, headerSize, func(hw *writer) error {
		hw.u32(p.ID)
		nameBytes, err := putFixedUTF16(p.Name, packageNameFieldSize)
		if err != nil {
			return err
		}
		hw.writeBytes(nameBytes)
		hw.u32(0) // type_strings_offset placeholder, patched below
		hw.u32(p.LastPublicType)
		hw.u32(0) // key_strings_offset placeholder, patched below
		hw.u32(p.LastPublicKey)
		hw.u32(p.TypeIDOffset)
		return nil
	}, func(pw *writer, headerBuf []byte) error {
		for _, child := range p.children {
			offset := uint32(headerSize) + uint32(pw.Len())
			b, err := child.Write(opts)
			if err != nil {
				return err
			}
			pw.writeBytes(b)
			if child == Chunk(p.typeStrings) {
				binary.LittleEndian.PutUint32(headerBuf[268:272], offset)
			} else if child == Chunk(p.keyStrings) {
				binary.LittleEndian.PutUint32(headerBuf[276:280], offset)
			}
		}
		return nil
	})
}
