package arsc

// ResourceTableChunk is the root of a parsed resources.arsc: a global
// string pool shared by every package, plus one or more PackageChunks
// (spec.md §3/§4.6 "ResourceTableChunk").
type ResourceTableChunk struct {
	children   []Chunk
	stringPool *StringPoolChunk
}

func (t *ResourceTableChunk) Type() ChunkType { return ChunkTable }

// StringPool returns the table's global string pool.
func (t *ResourceTableChunk) StringPool() *StringPoolChunk { return t.stringPool }

// Packages returns every PackageChunk child, in parse/insertion order.
func (t *ResourceTableChunk) Packages() []*PackageChunk {
	var out []*PackageChunk
	for _, c := range t.children {
		if p, ok := c.(*PackageChunk); ok {
			out = append(out, p)
		}
	}
	return out
}

// AddPackageChunk appends a new package after every existing child.
func (t *ResourceTableChunk) AddPackageChunk(p *PackageChunk) { t.children = append(t.children, p) }

// DeleteStrings deletes the given indices from the global string pool
// and rewrites every STRING-typed resource value across every package
// that referenced one of the surviving indices (spec.md §4.6
// "Global string deletion").
func (t *ResourceTableChunk) DeleteStrings(toDelete map[int]bool) ([]int32, error) {
	remap := t.stringPool.DeleteStrings(toDelete)

	for _, pkg := range t.Packages() {
		for _, tc := range pkg.TypeChunks() {
			overrides := map[uint16]*Entry{}
			for idx, e := range tc.Entries() {
				if e.IsComplex() {
					e2 := *e
					e2.Values = make([]ComplexValue, len(e.Values))
					copy(e2.Values, e.Values)
					changed := false
					for i, cv := range e2.Values {
						if cv.Value.Type != ResValueString {
							continue
						}
						newIdx := remap[cv.Value.Data]
						if newIdx < 0 {
							return nil, newErr(ErrKindBrokenInvariant, "string delete: complex entry value references deleted string %d with no surviving remap", cv.Value.Data)
						}
						e2.Values[i].Value.Data = uint32(newIdx)
						changed = true
					}
					if changed {
						overrides[idx] = &e2
					}
					continue
				}
				if e.Value.Type != ResValueString {
					continue
				}
				newIdx := remap[e.Value.Data]
				if newIdx < 0 {
					overrides[idx] = nil
					continue
				}
				if uint32(newIdx) != e.Value.Data {
					e2 := *e
					e2.Value.Data = uint32(newIdx)
					overrides[idx] = &e2
				}
			}
			tc.OverrideEntries(overrides)
		}
	}
	return remap, nil
}

func parseResourceTableChunk(c *cursor, headerSize uint16, chunkSize uint32) (*ResourceTableChunk, error) {
	packageCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	if packageCount < 1 {
		return nil, newErr(ErrKindBrokenInvariant, "resource table: package_count %d < 1", packageCount)
	}
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "resource table: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}

	children, err := parseChildren(c, int(chunkSize))
	if err != nil {
		return nil, err
	}

	t := &ResourceTableChunk{}
	for _, pc := range children {
		t.children = append(t.children, pc.chunk)
		if sp, ok := pc.chunk.(*StringPoolChunk); ok && t.stringPool == nil {
			t.stringPool = sp
		}
	}
	if t.stringPool == nil {
		return nil, newErr(ErrKindBrokenInvariant, "resource table: no global string pool found among children")
	}
	return t, nil
}

func (t *ResourceTableChunk) Write(opts SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkTable, 8+4, func(hw *writer) error {
		hw.u32(uint32(len(t.Packages())))
		return nil
	}, func(pw *writer, _ []byte) error {
		for _, child := range t.children {
			b, err := child.Write(opts)
			if err != nil {
				return err
			}
			pw.writeBytes(b)
		}
		return nil
	})
}

// ParseResourceTable parses a resources.arsc byte slice whose single
// top-level chunk is a TABLE chunk, and returns it typed (spec.md §9
// single-root accessor, grounded on original_source/ArscUtils).
func ParseResourceTable(data []byte) (*ResourceTableChunk, error) {
	chunk, consumed, err := parseChunk(data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, newErr(ErrKindBrokenInvariant, "resource table: %d trailing bytes after root chunk", len(data)-consumed)
	}
	t, ok := chunk.(*ResourceTableChunk)
	if !ok {
		return nil, newErr(ErrKindBrokenInvariant, "resource table: root chunk is %s, not TABLE", chunk.Type())
	}
	return t, nil
}
