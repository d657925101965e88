package arsc

// XMLResourceMapChunk is a flat table of resource identifiers, one per
// attribute-map slot referenced by XmlStartElementChunk's id/class/
// style indices (spec.md §4.7). The exact cross-reference is an open
// question (spec.md §9); this chunk only round-trips the table.
type XMLResourceMapChunk struct {
	ResourceIDs []ResourceID
}

func (*XMLResourceMapChunk) Type() ChunkType { return ChunkXMLResourceMap }

// Lookup returns the resource id at slot i, or ok=false if out of range.
func (m *XMLResourceMapChunk) Lookup(i int) (ResourceID, bool) {
	if i < 0 || i >= len(m.ResourceIDs) {
		return 0, false
	}
	return m.ResourceIDs[i], true
}

func parseXMLResourceMapChunk(c *cursor, headerSize uint16, chunkSize uint32) (*XMLResourceMapChunk, error) {
	if chunkSize < uint32(headerSize) || (chunkSize-uint32(headerSize))%4 != 0 {
		return nil, newErr(ErrKindMalformedHeader, "xml resource map chunk: payload length %d not a multiple of 4", chunkSize-uint32(headerSize))
	}
	count := (chunkSize - uint32(headerSize)) / 4
	ids := make([]ResourceID, count)
	for i := range ids {
		v, err := c.u32()
		if err != nil {
			return nil, err
		}
		ids[i] = ResourceID(v)
	}
	return &XMLResourceMapChunk{ResourceIDs: ids}, nil
}

func (m *XMLResourceMapChunk) Write(SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkXMLResourceMap, frameSize, nil, func(pw *writer, _ []byte) error {
		for _, id := range m.ResourceIDs {
			pw.u32(uint32(id))
		}
		return nil
	})
}
