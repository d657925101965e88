package arsc

import "encoding/binary"

// StringPool flag bits (spec.md §3/§4.2).
const (
	spSortedFlag = 0x0001
	spUTF8Flag   = 0x0100
)

const spanEnd uint32 = 0xFFFFFFFF

// StringPoolSpan marks a styled range within a string (spec.md §3
// "StringPoolStyle").
type StringPoolSpan struct {
	NameIndex uint32
	Start     uint32
	Stop      uint32
}

// StringPoolStyle is an ordered list of spans belonging to one string
// (style index i pairs with string index i).
type StringPoolStyle struct {
	Spans []StringPoolSpan
}

// StringPoolChunk is the format's interned, offset-indexed string table
// (spec.md §3/§4.2), used both as a table's global/key/type string pool
// and as an XML document's string pool.
type StringPoolChunk struct {
	strings     []string
	styles      []StringPoolStyle
	utf8        bool
	sorted      bool
	alwaysDedup bool
}

// NewStringPoolChunk returns an empty pool. utf8 selects the wire
// encoding used for strings added to it.
func NewStringPoolChunk(utf8 bool) *StringPoolChunk {
	return &StringPoolChunk{utf8: utf8}
}

func (p *StringPoolChunk) Type() ChunkType { return ChunkStringPool }

// IsUTF8 reports whether this pool encodes strings as UTF-8 (vs
// UTF-16LE).
func (p *StringPoolChunk) IsUTF8() bool { return p.utf8 }

// Count returns the number of strings in the pool.
func (p *StringPoolChunk) Count() int { return len(p.strings) }

// Get returns the string at index i.
func (p *StringPoolChunk) Get(i int) (string, error) {
	if i < 0 || i >= len(p.strings) {
		return "", newErr(ErrKindIndexOutOfRange, "string pool: index %d out of range [0,%d)", i, len(p.strings))
	}
	return p.strings[i], nil
}

// Set overwrites the string at index i.
func (p *StringPoolChunk) Set(i int, s string) error {
	if i < 0 || i >= len(p.strings) {
		return newErr(ErrKindIndexOutOfRange, "string pool: index %d out of range [0,%d)", i, len(p.strings))
	}
	p.strings[i] = s
	return nil
}

// Add appends s and returns its new index.
func (p *StringPoolChunk) Add(s string) int {
	p.strings = append(p.strings, s)
	return len(p.strings) - 1
}

// IndexOf returns the index of the first occurrence of s, or -1.
func (p *StringPoolChunk) IndexOf(s string) int {
	for i, v := range p.strings {
		if v == s {
			return i
		}
	}
	return -1
}

// Style returns the style attached to string index i, or ok=false if
// that string has no style entry.
func (p *StringPoolChunk) Style(i int) (StringPoolStyle, bool) {
	if i < 0 || i >= len(p.styles) {
		return StringPoolStyle{}, false
	}
	return p.styles[i], true
}

// SetStyle attaches a style to string index i, growing the style slice
// if needed.
func (p *StringPoolChunk) SetStyle(i int, style StringPoolStyle) error {
	if i < 0 || i >= len(p.strings) {
		return newErr(ErrKindIndexOutOfRange, "string pool: index %d out of range [0,%d)", i, len(p.strings))
	}
	for len(p.styles) <= i {
		p.styles = append(p.styles, StringPoolStyle{})
	}
	p.styles[i] = style
	return nil
}

// DeleteStrings removes the given set of string indices and returns
// remap such that remap[oldIndex] is the surviving new index, or -1 if
// deleted. A deletion target still referenced by a surviving style's
// span is kept alive instead of deleted (spec.md §4.2).
func (p *StringPoolChunk) DeleteStrings(toDelete map[int]bool) []int32 {
	keep := map[int]bool{}
	for i := range toDelete {
		keep[i] = true
	}
	for si, style := range p.styles {
		if si >= len(p.strings) {
			continue
		}
		for _, span := range style.Spans {
			if keep[int(span.NameIndex)] {
				delete(keep, int(span.NameIndex))
			}
		}
	}

	remap := make([]int32, len(p.strings))
	newStrings := make([]string, 0, len(p.strings))
	newStyles := make([]StringPoolStyle, 0, len(p.styles))
	for i, s := range p.strings {
		if keep[i] {
			remap[i] = -1
			continue
		}
		remap[i] = int32(len(newStrings))
		newStrings = append(newStrings, s)
		if i < len(p.styles) {
			newStyles = append(newStyles, p.styles[i])
		}
	}

	for i := range newStyles {
		spans := newStyles[i].Spans
		kept := make([]StringPoolSpan, 0, len(spans))
		for _, span := range spans {
			if remap[span.NameIndex] < 0 {
				continue
			}
			span.NameIndex = uint32(remap[span.NameIndex])
			kept = append(kept, span)
		}
		newStyles[i].Spans = kept
	}

	p.strings = newStrings
	p.styles = newStyles
	return remap
}

func parseStringPoolChunk(c *cursor, headerSize uint16, chunkSize uint32) (*StringPoolChunk, error) {
	stringCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	styleCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	flags, err := c.u32()
	if err != nil {
		return nil, err
	}
	stringsStart, err := c.u32()
	if err != nil {
		return nil, err
	}
	stylesStart, err := c.u32()
	if err != nil {
		return nil, err
	}

	p := &StringPoolChunk{
		utf8:   flags&spUTF8Flag != 0,
		sorted: flags&spSortedFlag != 0,
	}

	stringOffsets := make([]uint32, stringCount)
	monotonic := true
	for i := range stringOffsets {
		off, err := c.u32()
		if err != nil {
			return nil, err
		}
		stringOffsets[i] = off
		if i > 0 && off < stringOffsets[i-1] {
			monotonic = false
		}
	}
	styleOffsets := make([]uint32, styleCount)
	for i := range styleOffsets {
		off, err := c.u32()
		if err != nil {
			return nil, err
		}
		styleOffsets[i] = off
	}
	p.alwaysDedup = !monotonic

	p.strings = make([]string, stringCount)
	for i, off := range stringOffsets {
		if err := c.seek(int(stringsStart) + int(off)); err != nil {
			return nil, err
		}
		var s string
		if p.utf8 {
			s, err = decodeStringUTF8(c)
		} else {
			s, err = decodeStringUTF16(c)
		}
		if err != nil {
			return nil, err
		}
		p.strings[i] = s
	}

	if styleCount > 0 {
		p.styles = make([]StringPoolStyle, styleCount)
		for i, off := range styleOffsets {
			if err := c.seek(int(stylesStart) + int(off)); err != nil {
				return nil, err
			}
			var spans []StringPoolSpan
			for {
				name, err := c.u32()
				if err != nil {
					return nil, err
				}
				if name == spanEnd {
					break
				}
				start, err := c.u32()
				if err != nil {
					return nil, err
				}
				stop, err := c.u32()
				if err != nil {
					return nil, err
				}
				spans = append(spans, StringPoolSpan{NameIndex: name, Start: start, Stop: stop})
			}
			p.styles[i] = StringPoolStyle{Spans: spans}
		}
	}

	return p, nil
}

func (p *StringPoolChunk) Write(opts SerializationOptions) ([]byte, error) {
	dedup := opts&OptionShrink != 0 || p.alwaysDedup

	return writeChunk(ChunkStringPool, 8+20, func(hw *writer) error {
		hw.u32(uint32(len(p.strings)))
		hw.u32(uint32(len(p.styles)))
		flags := uint32(0)
		if p.utf8 {
			flags |= spUTF8Flag
		}
		if p.sorted {
			flags |= spSortedFlag
		}
		hw.u32(flags)
		hw.u32(0) // strings_start placeholder, patched below once known
		hw.u32(0) // styles_start placeholder, patched below once known
		return nil
	}, func(pw *writer, headerBuf []byte) error {
		stringOffsets := make([]uint32, len(p.strings))
		stringBlobs := make([][]byte, len(p.strings))
		seen := map[string]uint32{}
		blobLen := uint32(0)
		for i, s := range p.strings {
			if dedup {
				if off, ok := seen[s]; ok {
					stringOffsets[i] = off
					continue
				}
			}
			sw := newWriter()
			var err error
			if p.utf8 {
				err = encodeStringUTF8(sw, s)
			} else {
				err = encodeStringUTF16(sw, s)
			}
			if err != nil {
				return err
			}
			b := sw.Bytes()
			stringOffsets[i] = blobLen
			stringBlobs[i] = b
			blobLen += uint32(len(b))
			if dedup {
				seen[s] = stringOffsets[i]
			}
		}

		for _, off := range stringOffsets {
			pw.u32(off)
		}

		styleOffsets := make([]uint32, len(p.styles))
		var styleBlob []byte
		seenStyles := map[string]uint32{}
		for i, style := range p.styles {
			key := styleSignature(style)
			if dedup {
				if off, ok := seenStyles[key]; ok {
					styleOffsets[i] = off
					continue
				}
			}
			off := uint32(len(styleBlob))
			for _, span := range style.Spans {
				styleBlob = appendU32(styleBlob, span.NameIndex)
				styleBlob = appendU32(styleBlob, span.Start)
				styleBlob = appendU32(styleBlob, span.Stop)
			}
			styleBlob = appendU32(styleBlob, spanEnd)
			styleOffsets[i] = off
			if dedup {
				seenStyles[key] = off
			}
		}
		for _, off := range styleOffsets {
			pw.u32(off)
		}

		stringsStart := uint32(28) + uint32(pw.Len())
		binary.LittleEndian.PutUint32(headerBuf[20:24], stringsStart)

		for _, b := range stringBlobs {
			if b != nil {
				pw.writeBytes(b)
			}
		}
		pw.pad4()

		if len(p.styles) > 0 {
			stylesStart := uint32(28) + uint32(pw.Len())
			binary.LittleEndian.PutUint32(headerBuf[24:28], stylesStart)
			pw.writeBytes(styleBlob)
			pw.u32(spanEnd)
			pw.u32(spanEnd)
		}
		return nil
	})
}

func styleSignature(s StringPoolStyle) string {
	w := newWriter()
	for _, span := range s.Spans {
		w.u32(span.NameIndex)
		w.u32(span.Start)
		w.u32(span.Stop)
	}
	return string(w.Bytes())
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}
