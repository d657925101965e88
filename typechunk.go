package arsc

import "sort"

// TypeChunk flag bits (spec.md §3/§4.3).
const flagSparseType uint8 = 0x01

// Entry flag bits (spec.md §3/§4.4).
const (
	entryFlagComplex uint16 = 0x0001
	entryFlagPublic  uint16 = 0x0002
)

const noEntry uint32 = 0xFFFFFFFF

const (
	simpleEntryHeaderSize  uint16 = 8
	complexEntryHeaderSize uint16 = 16
)

// ComplexValue is one (ref, value) mapping inside a complex entry's
// value table (spec.md §3 "TypeChunk.Entry").
type ComplexValue struct {
	Ref   uint32
	Value ResourceValue
}

// Entry is one resource entry inside a TypeChunk: either a single
// ResourceValue (simple) or a parent entry reference plus an ordered
// table of sub-values (complex), per spec.md §3/§4.4.
type Entry struct {
	HeaderSize uint16
	Flags      uint16
	KeyIndex   uint32

	// Present when IsComplex.
	ParentEntry uint32
	Values      []ComplexValue

	// Present when not IsComplex.
	Value ResourceValue
}

// NewSimpleEntry builds a simple entry referencing the given key-pool
// index and carrying a single value.
func NewSimpleEntry(keyIndex uint32, value ResourceValue, public bool) *Entry {
	e := &Entry{HeaderSize: simpleEntryHeaderSize, KeyIndex: keyIndex, Value: value}
	if public {
		e.Flags |= entryFlagPublic
	}
	return e
}

// NewComplexEntry builds a complex ("bag"/map) entry.
func NewComplexEntry(keyIndex, parentEntry uint32, values []ComplexValue, public bool) *Entry {
	e := &Entry{HeaderSize: complexEntryHeaderSize, KeyIndex: keyIndex, ParentEntry: parentEntry, Values: values, Flags: entryFlagComplex}
	if public {
		e.Flags |= entryFlagPublic
	}
	return e
}

// IsComplex reports whether this entry carries a value table rather
// than a single scalar value.
func (e *Entry) IsComplex() bool { return e.Flags&entryFlagComplex != 0 }

// IsPublic reports whether FLAG_PUBLIC is set.
func (e *Entry) IsPublic() bool { return e.Flags&entryFlagPublic != 0 }

func parseEntry(c *cursor) (*Entry, error) {
	headerSize, err := c.u16()
	if err != nil {
		return nil, err
	}
	flags, err := c.u16()
	if err != nil {
		return nil, err
	}
	keyIndex, err := c.u32()
	if err != nil {
		return nil, err
	}
	e := &Entry{HeaderSize: headerSize, Flags: flags, KeyIndex: keyIndex}
	if e.IsComplex() {
		parentEntry, err := c.u32()
		if err != nil {
			return nil, err
		}
		valueCount, err := c.u32()
		if err != nil {
			return nil, err
		}
		e.ParentEntry = parentEntry
		e.Values = make([]ComplexValue, valueCount)
		for i := range e.Values {
			ref, err := c.u32()
			if err != nil {
				return nil, err
			}
			v, err := parseResourceValue(c)
			if err != nil {
				return nil, err
			}
			e.Values[i] = ComplexValue{Ref: ref, Value: v}
		}
	} else {
		v, err := parseResourceValue(c)
		if err != nil {
			return nil, err
		}
		e.Value = v
	}
	return e, nil
}

func (e *Entry) write(opts SerializationOptions) []byte {
	w := newWriter()
	flags := e.Flags
	if opts.Has(OptionPrivateResources) {
		flags &^= entryFlagPublic
	}
	w.u16(e.HeaderSize)
	w.u16(flags)
	w.u32(e.KeyIndex)
	if e.IsComplex() {
		w.u32(e.ParentEntry)
		w.u32(uint32(len(e.Values)))
		for _, cv := range e.Values {
			w.u32(cv.Ref)
			cv.Value.write(w)
		}
	} else {
		e.Value.write(w)
	}
	return w.Bytes()
}

// TypeChunk holds the resource entries for one (resource type,
// device configuration) pair (spec.md §3 "TypeChunk").
type TypeChunk struct {
	id              uint8
	flags           uint8
	totalEntryCount uint32
	configuration   ResourceConfiguration
	entries         map[uint16]*Entry
}

// NewTypeChunk returns an empty TypeChunk for the given 1-based type id
// and configuration.
func NewTypeChunk(id uint8, cfg ResourceConfiguration) *TypeChunk {
	return &TypeChunk{id: id, configuration: cfg, entries: map[uint16]*Entry{}}
}

func (t *TypeChunk) Type() ChunkType { return ChunkTableType }

// ID returns the 1-based type id.
func (t *TypeChunk) ID() uint8 { return t.id }

// Configuration returns the device configuration this type chunk applies to.
func (t *TypeChunk) Configuration() ResourceConfiguration { return t.configuration }

// IsSparse reports whether the entry table is sparse-encoded.
func (t *TypeChunk) IsSparse() bool { return t.flags&flagSparseType != 0 }

// SetSparseEntries toggles the SPARSE flag without altering any entry.
func (t *TypeChunk) SetSparseEntries(sparse bool) {
	if sparse {
		t.flags |= flagSparseType
	} else {
		t.flags &^= flagSparseType
	}
}

// TotalEntryCount returns the declared entry-table capacity, which may
// exceed the number of present entries.
func (t *TypeChunk) TotalEntryCount() uint32 { return t.totalEntryCount }

// Entries returns the present entries keyed by index.
func (t *TypeChunk) Entries() map[uint16]*Entry { return t.entries }

// Entry returns the entry at index i, or ok=false if absent.
func (t *TypeChunk) Entry(i uint16) (*Entry, bool) {
	e, ok := t.entries[i]
	return e, ok
}

// SetEntries replaces the whole entry map and declared capacity
// (spec.md §4.3 "set_entries").
func (t *TypeChunk) SetEntries(entries map[uint16]*Entry, totalCount uint32) {
	t.entries = entries
	t.totalEntryCount = totalCount
}

// OverrideEntries applies a sparse set of overrides: for each (i, e) in
// overrides, if i is within [0, total_entry_count), sets entries[i] = e
// when e is non-nil, else removes it. Out-of-range indices are silent
// no-ops (spec.md §4.3 "override_entries").
func (t *TypeChunk) OverrideEntries(overrides map[uint16]*Entry) {
	for i, e := range overrides {
		if uint32(i) >= t.totalEntryCount {
			continue
		}
		if e == nil {
			delete(t.entries, i)
			continue
		}
		t.entries[i] = e
	}
}

func sortedEntryIndices(entries map[uint16]*Entry) []uint16 {
	indices := make([]uint16, 0, len(entries))
	for i := range entries {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(a, b int) bool { return indices[a] < indices[b] })
	return indices
}

func parseTypeChunk(c *cursor, headerSize uint16, chunkSize uint32) (*TypeChunk, error) {
	id, err := c.u8()
	if err != nil {
		return nil, err
	}
	if id < 1 {
		return nil, newErr(ErrKindIndexOutOfRange, "type chunk: id %d out of range, must be >= 1", id)
	}
	flags, err := c.u8()
	if err != nil {
		return nil, err
	}
	if _, err := c.u16(); err != nil { // reserved
		return nil, err
	}
	totalEntryCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	entriesStart, err := c.u32()
	if err != nil {
		return nil, err
	}
	cfg, err := parseResourceConfiguration(c)
	if err != nil {
		return nil, err
	}

	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "type chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}
	if entriesStart < uint32(headerSize) || entriesStart > chunkSize {
		return nil, newErr(ErrKindMalformedHeader, "type chunk: entries_start %d out of range [%d,%d]", entriesStart, headerSize, chunkSize)
	}

	tableByteLen := entriesStart - uint32(headerSize)
	if tableByteLen%4 != 0 {
		return nil, newErr(ErrKindMalformedHeader, "type chunk: offset table length %d not a multiple of 4", tableByteLen)
	}
	tableCount := tableByteLen / 4

	t := &TypeChunk{id: id, flags: flags, totalEntryCount: totalEntryCount, configuration: cfg, entries: map[uint16]*Entry{}}

	type slot struct {
		index  uint16
		offset uint32
	}
	slots := make([]slot, 0, tableCount)
	if t.IsSparse() {
		for i := uint32(0); i < tableCount; i++ {
			idx, err := c.u16()
			if err != nil {
				return nil, err
			}
			offDiv4, err := c.u16()
			if err != nil {
				return nil, err
			}
			slots = append(slots, slot{index: idx, offset: uint32(offDiv4) * 4})
		}
	} else {
		for i := uint32(0); i < tableCount; i++ {
			off, err := c.u32()
			if err != nil {
				return nil, err
			}
			if off == noEntry {
				continue
			}
			slots = append(slots, slot{index: uint16(i), offset: off})
		}
	}

	for _, s := range slots {
		if err := c.seek(int(entriesStart) + int(s.offset)); err != nil {
			return nil, err
		}
		e, err := parseEntry(c)
		if err != nil {
			return nil, err
		}
		t.entries[s.index] = e
	}

	return t, nil
}

func (t *TypeChunk) Write(opts SerializationOptions) ([]byte, error) {
	headerSize := uint16(8+12) + uint16(t.configuration.Size)
	indices := sortedEntryIndices(t.entries)

	var tableLen uint32
	if t.IsSparse() {
		tableLen = uint32(len(indices)) * 4
	} else {
		tableLen = t.totalEntryCount * 4
	}
	entriesStart := uint32(headerSize) + tableLen

	return writeChunk(ChunkTableType, headerSize, func(hw *writer) error {
		hw.u8(t.id)
		hw.u8(t.flags)
		hw.u16(0)
		hw.u32(t.totalEntryCount)
		hw.u32(entriesStart)
		t.configuration.write(hw)
		return nil
	}, func(pw *writer, _ []byte) error {
		type built struct {
			index  uint16
			offset uint32
			data   []byte
		}
		builtEntries := make([]built, 0, len(indices))
		offset := uint32(0)
		for _, idx := range indices {
			if offset%4 != 0 {
				return newErr(ErrKindBrokenInvariant, "type chunk: entry payload offset %d not 4-aligned", offset)
			}
			data := t.entries[idx].write(opts)
			builtEntries = append(builtEntries, built{index: idx, offset: offset, data: data})
			offset += uint32(len(data))
		}

		if t.IsSparse() {
			for _, be := range builtEntries {
				pw.u16(be.index)
				pw.u16(uint16(be.offset / 4))
			}
		} else {
			present := make(map[uint16]built, len(builtEntries))
			for _, be := range builtEntries {
				present[be.index] = be
			}
			for i := uint32(0); i < t.totalEntryCount; i++ {
				if be, ok := present[uint16(i)]; ok {
					pw.u32(be.offset)
				} else {
					pw.u32(noEntry)
				}
			}
		}
		for _, be := range builtEntries {
			pw.writeBytes(be.data)
		}
		return nil
	})
}
