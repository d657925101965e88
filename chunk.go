package arsc

import (
	"encoding/binary"
	"fmt"
)

// ChunkType is the format's closed set of 16-bit chunk codes (spec.md
// §3 "ChunkType"). Codes outside this set are tolerated and parsed as
// UnknownChunk rather than rejected.
type ChunkType uint16

const (
	ChunkNull                   ChunkType = 0x0000
	ChunkStringPool             ChunkType = 0x0001
	ChunkTable                  ChunkType = 0x0002
	ChunkXML                    ChunkType = 0x0003
	ChunkXMLStartNamespace      ChunkType = 0x0100
	ChunkXMLEndNamespace        ChunkType = 0x0101
	ChunkXMLStartElement        ChunkType = 0x0102
	ChunkXMLEndElement          ChunkType = 0x0103
	ChunkXMLCData               ChunkType = 0x0104
	ChunkXMLResourceMap         ChunkType = 0x0180
	ChunkTablePackage           ChunkType = 0x0200
	ChunkTableType              ChunkType = 0x0201
	ChunkTableTypeSpec          ChunkType = 0x0202
	ChunkTableLibrary           ChunkType = 0x0203
	ChunkTableOverlayable       ChunkType = 0x0204
	ChunkTableOverlayablePolicy ChunkType = 0x0205
)

func (t ChunkType) String() string {
	switch t {
	case ChunkNull:
		return "NULL"
	case ChunkStringPool:
		return "STRING_POOL"
	case ChunkTable:
		return "TABLE"
	case ChunkXML:
		return "XML"
	case ChunkXMLStartNamespace:
		return "XML_START_NAMESPACE"
	case ChunkXMLEndNamespace:
		return "XML_END_NAMESPACE"
	case ChunkXMLStartElement:
		return "XML_START_ELEMENT"
	case ChunkXMLEndElement:
		return "XML_END_ELEMENT"
	case ChunkXMLCData:
		return "XML_CDATA"
	case ChunkXMLResourceMap:
		return "XML_RESOURCE_MAP"
	case ChunkTablePackage:
		return "TABLE_PACKAGE"
	case ChunkTableType:
		return "TABLE_TYPE"
	case ChunkTableTypeSpec:
		return "TABLE_TYPE_SPEC"
	case ChunkTableLibrary:
		return "TABLE_LIBRARY"
	case ChunkTableOverlayable:
		return "TABLE_OVERLAYABLE"
	case ChunkTableOverlayablePolicy:
		return "TABLE_OVERLAYABLE_POLICY"
	default:
		return fmt.Sprintf("UNKNOWN(0x%04x)", uint16(t))
	}
}

// frameSize is METADATA_SIZE: the common type/header-size/chunk-size
// prefix every chunk starts with.
const frameSize = 8

// padBoundary is PAD_BOUNDARY, the alignment every chunk boundary
// restores on write.
const padBoundary = 4

// Chunk is the contract every node in the tree satisfies (spec.md §9
// "Polymorphic chunks"). The concrete set is closed and fixed by the
// file format, so a sum type (Go interface with a frozen set of
// implementations in this package) rather than open dispatch is the
// right shape.
type Chunk interface {
	// Type reports this chunk's wire type code.
	Type() ChunkType
	// Write serializes this chunk - header, payload, and any children -
	// to its 4-byte-padded on-wire form.
	Write(opts SerializationOptions) ([]byte, error)
}

// parseChunk parses one chunk starting at buf[0] and returns it along
// with the number of bytes it occupies (its chunk_size), so the caller
// can advance past it in the parent's child sequence.
func parseChunk(buf []byte) (Chunk, int, error) {
	if len(buf) < frameSize {
		return nil, 0, newErr(ErrKindMalformedHeader, "chunk header truncated: need %d bytes, have %d", frameSize, len(buf))
	}

	typ := ChunkType(binary.LittleEndian.Uint16(buf[0:2]))
	headerSize := binary.LittleEndian.Uint16(buf[2:4])
	chunkSize := binary.LittleEndian.Uint32(buf[4:8])

	if headerSize < frameSize {
		return nil, 0, newErr(ErrKindMalformedHeader, "chunk 0x%04x: header_size %d smaller than frame size %d", typ, headerSize, frameSize)
	}
	if uint64(chunkSize) < uint64(headerSize) {
		return nil, 0, newErr(ErrKindMalformedHeader, "chunk 0x%04x: chunk_size %d smaller than header_size %d", typ, chunkSize, headerSize)
	}
	if uint64(chunkSize) > uint64(len(buf)) {
		return nil, 0, newErr(ErrKindMalformedHeader, "chunk 0x%04x: chunk_size %d exceeds available %d bytes", typ, chunkSize, len(buf))
	}

	chunkBuf := buf[:chunkSize]
	sub := newCursor(chunkBuf)
	if err := sub.skip(frameSize); err != nil {
		return nil, 0, err
	}

	var chunk Chunk
	var err error
	switch typ {
	case ChunkStringPool:
		chunk, err = parseStringPoolChunk(sub, headerSize, chunkSize)
	case ChunkXML:
		chunk, err = parseXMLChunk(sub, headerSize, chunkSize)
	case ChunkTable:
		chunk, err = parseResourceTableChunk(sub, headerSize, chunkSize)
	case ChunkTablePackage:
		chunk, err = parsePackageChunk(sub, headerSize, chunkSize)
	case ChunkTableType:
		chunk, err = parseTypeChunk(sub, headerSize, chunkSize)
	case ChunkTableTypeSpec:
		chunk, err = parseTypeSpecChunk(sub, headerSize, chunkSize)
	case ChunkTableLibrary:
		chunk, err = parseLibraryChunk(sub, headerSize, chunkSize)
	case ChunkXMLStartNamespace, ChunkXMLEndNamespace:
		chunk, err = parseXMLNamespaceChunk(sub, typ, headerSize, chunkSize)
	case ChunkXMLStartElement:
		chunk, err = parseXMLStartElementChunk(sub, headerSize, chunkSize)
	case ChunkXMLEndElement:
		chunk, err = parseXMLEndElementChunk(sub, headerSize, chunkSize)
	case ChunkXMLCData:
		chunk, err = parseXMLCDATAChunk(sub, headerSize, chunkSize)
	case ChunkXMLResourceMap:
		chunk, err = parseXMLResourceMapChunk(sub, headerSize, chunkSize)
	default:
		chunk, err = parseUnknownChunk(chunkBuf, typ, headerSize, chunkSize), error(nil)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("chunk 0x%04x (%s): %w", typ, typ, err)
	}
	return chunk, int(chunkSize), nil
}

// writeChunk assembles a chunk's on-wire bytes: an exactly-headerSize
// header (type, header_size, a chunk_size placeholder, then whatever
// writeHeaderBody emits), followed by a payload built by writePayload
// and padded to a 4-byte boundary. writePayload receives the header
// buffer so it can patch back fields that are only known once the
// payload has been serialized (spec.md §9 "Offset-patch-after-emit"),
// e.g. StringPool's styles-start or PackageChunk's pool offsets.
func writeChunk(typ ChunkType, headerSize uint16, writeHeaderBody func(*writer) error, writePayload func(pw *writer, headerBuf []byte) error) ([]byte, error) {
	hw := newWriter()
	hw.u16(uint16(typ))
	hw.u16(headerSize)
	hw.u32(0) // chunk_size placeholder, patched below
	if writeHeaderBody != nil {
		if err := writeHeaderBody(hw); err != nil {
			return nil, err
		}
	}
	if hw.Len() != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "chunk 0x%04x (%s): header writer emitted %d bytes, want %d", typ, typ, hw.Len(), headerSize)
	}
	headerBuf := hw.Bytes()

	pw := newWriter()
	if writePayload != nil {
		if err := writePayload(pw, headerBuf); err != nil {
			return nil, err
		}
	}
	pw.pad4()

	total := uint32(headerSize) + uint32(pw.Len())
	binary.LittleEndian.PutUint32(headerBuf[4:8], total)

	out := make([]byte, 0, len(headerBuf)+pw.Len())
	out = append(out, headerBuf...)
	out = append(out, pw.Bytes()...)
	return out, nil
}

// parsedChild is one chunk parsed out of a payload that is itself a
// sequence of child chunks (PackageChunk, ResourceTableChunk, XMLChunk),
// paired with its chunk-relative start offset.
type parsedChild struct {
	offset int
	chunk  Chunk
}

// parseChildren parses a sequence of sibling chunks from c's current
// position up to end (a chunk-relative byte offset), stopping early if
// fewer than frameSize bytes remain (trailing alignment padding).
func parseChildren(c *cursor, end int) ([]parsedChild, error) {
	var out []parsedChild
	for c.pos < end {
		start := c.pos
		if end-c.pos < frameSize {
			break
		}
		child, consumed, err := parseChunk(c.buf[c.pos:end])
		if err != nil {
			return nil, err
		}
		if err := c.skip(consumed); err != nil {
			return nil, err
		}
		out = append(out, parsedChild{offset: start, chunk: child})
	}
	return out, nil
}

// UnknownChunk preserves a chunk whose type code this library doesn't
// recognize, byte-for-byte (spec.md §3 "ChunkType").
type UnknownChunk struct {
	typ         ChunkType
	headerExtra []byte
	payload     []byte
}

func parseUnknownChunk(chunkBuf []byte, typ ChunkType, headerSize uint16, chunkSize uint32) *UnknownChunk {
	return &UnknownChunk{
		typ:         typ,
		headerExtra: append([]byte(nil), chunkBuf[frameSize:headerSize]...),
		payload:     append([]byte(nil), chunkBuf[headerSize:chunkSize]...),
	}
}

func (u *UnknownChunk) Type() ChunkType { return u.typ }

func (u *UnknownChunk) Write(SerializationOptions) ([]byte, error) {
	headerSize := uint16(frameSize + len(u.headerExtra))
	chunkSize := uint32(headerSize) + uint32(len(u.payload))

	out := make([]byte, 0, int(chunkSize))
	var hdr [frameSize]byte
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(u.typ))
	binary.LittleEndian.PutUint16(hdr[2:4], headerSize)
	binary.LittleEndian.PutUint32(hdr[4:8], chunkSize)
	out = append(out, hdr[:]...)
	out = append(out, u.headerExtra...)
	out = append(out, u.payload...)
	return out, nil
}
