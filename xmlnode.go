package arsc

// xmlNodeHeader is the 8-byte field pair common to every XML node chunk
// (spec.md §3/§4.7 "XmlNodeChunk"), sitting right after the 8-byte
// chunk frame (so every XML node chunk's header_size is 16 plus
// whatever that concrete node type adds).
type xmlNodeHeader struct {
	LineNumber   uint32
	CommentIndex int32 // -1 means no comment
}

const xmlNodeHeaderSize uint16 = frameSize + 8

func parseXMLNodeHeader(c *cursor) (xmlNodeHeader, error) {
	lineNumber, err := c.u32()
	if err != nil {
		return xmlNodeHeader{}, err
	}
	commentIndex, err := c.i32()
	if err != nil {
		return xmlNodeHeader{}, err
	}
	return xmlNodeHeader{LineNumber: lineNumber, CommentIndex: commentIndex}, nil
}

func (h xmlNodeHeader) write(w *writer) {
	w.u32(h.LineNumber)
	w.i32(h.CommentIndex)
}

// XMLNamespaceChunk is either a namespace-scope-start or
// namespace-scope-end node (XML_START_NAMESPACE / XML_END_NAMESPACE);
// both share this payload shape in the teacher's own decoder
// (binxml.go's parseNsStart).
type XMLNamespaceChunk struct {
	xmlNodeHeader
	End    bool
	Prefix int32 // string pool index, or -1
	URI    int32 // string pool index, or -1
}

func (n *XMLNamespaceChunk) Type() ChunkType {
	if n.End {
		return ChunkXMLEndNamespace
	}
	return ChunkXMLStartNamespace
}

func parseXMLNamespaceChunk(c *cursor, typ ChunkType, headerSize uint16, chunkSize uint32) (*XMLNamespaceChunk, error) {
	hdr, err := parseXMLNodeHeader(c)
	if err != nil {
		return nil, err
	}
	prefix, err := c.i32()
	if err != nil {
		return nil, err
	}
	uri, err := c.i32()
	if err != nil {
		return nil, err
	}
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "xml namespace chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}
	return &XMLNamespaceChunk{xmlNodeHeader: hdr, End: typ == ChunkXMLEndNamespace, Prefix: prefix, URI: uri}, nil
}

func (n *XMLNamespaceChunk) Write(SerializationOptions) ([]byte, error) {
	return writeChunk(n.Type(), xmlNodeHeaderSize+8, func(hw *writer) error {
		n.xmlNodeHeader.write(hw)
		hw.i32(n.Prefix)
		hw.i32(n.URI)
		return nil
	}, nil)
}

// XMLEndElementChunk closes the most recently opened XMLStartElementChunk.
type XMLEndElementChunk struct {
	xmlNodeHeader
	NamespaceIndex int32 // string pool index, or -1
	NameIndex      uint32
}

func (*XMLEndElementChunk) Type() ChunkType { return ChunkXMLEndElement }

func parseXMLEndElementChunk(c *cursor, headerSize uint16, chunkSize uint32) (*XMLEndElementChunk, error) {
	hdr, err := parseXMLNodeHeader(c)
	if err != nil {
		return nil, err
	}
	ns, err := c.i32()
	if err != nil {
		return nil, err
	}
	name, err := c.u32()
	if err != nil {
		return nil, err
	}
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "xml end element chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}
	return &XMLEndElementChunk{xmlNodeHeader: hdr, NamespaceIndex: ns, NameIndex: name}, nil
}

func (e *XMLEndElementChunk) Write(SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkXMLEndElement, xmlNodeHeaderSize+8, func(hw *writer) error {
		e.xmlNodeHeader.write(hw)
		hw.i32(e.NamespaceIndex)
		hw.u32(e.NameIndex)
		return nil
	}, nil)
}
