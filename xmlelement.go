package arsc

const xmlAttributeSize = 20

// XMLAttribute is one name/value pair on an XmlStartElementChunk
// (spec.md §3/§4.7 "XmlAttribute").
type XMLAttribute struct {
	NamespaceIndex int32 // string pool index, or -1
	NameIndex      uint32
	RawValueIndex  int32 // string pool index of the raw (unparsed) value text, or -1
	TypedValue     ResourceValue
}

// XMLStartElementChunk opens a compiled-XML element (spec.md §3/§4.7
// "XmlStartElementChunk"). IDIndex, ClassIndex, and StyleIndex are
// 0-based with -1 meaning absent; the wire form is 1-based with 0
// meaning absent.
type XMLStartElementChunk struct {
	xmlNodeHeader
	NamespaceIndex int32 // string pool index, or -1
	NameIndex      uint32
	IDIndex        int32
	ClassIndex     int32
	StyleIndex     int32
	Attributes     []XMLAttribute
}

func (*XMLStartElementChunk) Type() ChunkType { return ChunkXMLStartElement }

func attrIndexToZeroBased(v int16) int32 {
	if v == 0 {
		return -1
	}
	return int32(v) - 1
}

func attrIndexToOneBased(v int32) int16 {
	if v < 0 {
		return 0
	}
	return int16(v + 1)
}

func parseXMLStartElementChunk(c *cursor, headerSize uint16, chunkSize uint32) (*XMLStartElementChunk, error) {
	hdr, err := parseXMLNodeHeader(c)
	if err != nil {
		return nil, err
	}
	nsIndex, err := c.i32()
	if err != nil {
		return nil, err
	}
	nameIndex, err := c.u32()
	if err != nil {
		return nil, err
	}
	attrStart, err := c.u16()
	if err != nil {
		return nil, err
	}
	attrSize, err := c.u16()
	if err != nil {
		return nil, err
	}
	attrCount, err := c.u16()
	if err != nil {
		return nil, err
	}
	idIndex, err := c.i16()
	if err != nil {
		return nil, err
	}
	classIndex, err := c.i16()
	if err != nil {
		return nil, err
	}
	styleIndex, err := c.i16()
	if err != nil {
		return nil, err
	}
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "xml start element chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}
	if attrStart != xmlAttributeSize || attrSize != xmlAttributeSize {
		return nil, newErr(ErrKindMalformedHeader, "xml start element chunk: attribute_start/size %d/%d, want %d/%d", attrStart, attrSize, xmlAttributeSize, xmlAttributeSize)
	}

	attrs := make([]XMLAttribute, attrCount)
	for i := range attrs {
		ns, err := c.i32()
		if err != nil {
			return nil, err
		}
		name, err := c.u32()
		if err != nil {
			return nil, err
		}
		raw, err := c.i32()
		if err != nil {
			return nil, err
		}
		tv, err := parseResourceValue(c)
		if err != nil {
			return nil, err
		}
		attrs[i] = XMLAttribute{NamespaceIndex: ns, NameIndex: name, RawValueIndex: raw, TypedValue: tv}
	}

	return &XMLStartElementChunk{
		xmlNodeHeader:  hdr,
		NamespaceIndex: nsIndex,
		NameIndex:      nameIndex,
		IDIndex:        attrIndexToZeroBased(idIndex),
		ClassIndex:     attrIndexToZeroBased(classIndex),
		StyleIndex:     attrIndexToZeroBased(styleIndex),
		Attributes:     attrs,
	}, nil
}

func (e *XMLStartElementChunk) Write(SerializationOptions) ([]byte, error) {
	headerSize := xmlNodeHeaderSize + 20
	return writeChunk(ChunkXMLStartElement, headerSize, func(hw *writer) error {
		e.xmlNodeHeader.write(hw)
		hw.i32(e.NamespaceIndex)
		hw.u32(e.NameIndex)
		hw.u16(xmlAttributeSize)
		hw.u16(xmlAttributeSize)
		hw.u16(uint16(len(e.Attributes)))
		hw.i16(attrIndexToOneBased(e.IDIndex))
		hw.i16(attrIndexToOneBased(e.ClassIndex))
		hw.i16(attrIndexToOneBased(e.StyleIndex))
		return nil
	}, func(pw *writer, _ []byte) error {
		for _, a := range e.Attributes {
			pw.i32(a.NamespaceIndex)
			pw.u32(a.NameIndex)
			pw.i32(a.RawValueIndex)
			a.TypedValue.write(pw)
		}
		return nil
	})
}

// RemapReferences rewrites every attribute whose typed value is a
// REFERENCE, whose package id (top 8 bits of its data) is not the
// system package (0x1), and whose data appears in remap (spec.md §4.7
// "remap_references").
func (e *XMLStartElementChunk) RemapReferences(remap map[uint32]uint32) {
	for i := range e.Attributes {
		a := &e.Attributes[i]
		if a.TypedValue.Type != ResValueReference {
			continue
		}
		if ResourceID(a.TypedValue.Data).Package() == 0x01 {
			continue
		}
		if newVal, ok := remap[a.TypedValue.Data]; ok {
			a.TypedValue.Data = newVal
		}
	}
}
