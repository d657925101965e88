package arsc

// XMLCDATAChunk is a text node inside a compiled-XML document: a
// string-pool reference to the raw text plus the text's typed value
// (normally a STRING pointing at the same index), grounded on
// binxml.go's parseText.
type XMLCDATAChunk struct {
	xmlNodeHeader
	DataIndex  int32 // string pool index of the raw text, or -1
	TypedValue ResourceValue
}

func (*XMLCDATAChunk) Type() ChunkType { return ChunkXMLCData }

func parseXMLCDATAChunk(c *cursor, headerSize uint16, chunkSize uint32) (*XMLCDATAChunk, error) {
	hdr, err := parseXMLNodeHeader(c)
	if err != nil {
		return nil, err
	}
	dataIndex, err := c.i32()
	if err != nil {
		return nil, err
	}
	tv, err := parseResourceValue(c)
	if err != nil {
		return nil, err
	}
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "xml cdata chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}
	return &XMLCDATAChunk{xmlNodeHeader: hdr, DataIndex: dataIndex, TypedValue: tv}, nil
}

func (n *XMLCDATAChunk) Write(SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkXMLCData, xmlNodeHeaderSize+12, func(hw *writer) error {
		n.xmlNodeHeader.write(hw)
		hw.i32(n.DataIndex)
		n.TypedValue.write(hw)
		return nil
	}, nil)
}
