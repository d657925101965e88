package arsc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XMLChunk is the root of a compiled AXML document: its own string
// pool, an optional resource-id map, and the sequence of namespace/
// element/CDATA nodes that make up the document tree (spec.md §3
// "XmlNodeChunk" family, §4.7).
type XMLChunk struct {
	children    []Chunk
	stringPool  *StringPoolChunk
	resourceMap *XMLResourceMapChunk
}

func (x *XMLChunk) Type() ChunkType { return ChunkXML }

// StringPool returns the document's string pool, against which every
// node's string-pool indices resolve.
func (x *XMLChunk) StringPool() *StringPoolChunk { return x.stringPool }

// ResourceMap returns the document's attribute resource-id map, or nil
// if the document has none.
func (x *XMLChunk) ResourceMap() *XMLResourceMapChunk { return x.resourceMap }

// Nodes returns the namespace/element/CDATA node sequence, excluding
// the string pool and resource map.
func (x *XMLChunk) Nodes() []Chunk {
	var out []Chunk
	for _, c := range x.children {
		switch c.(type) {
		case *StringPoolChunk, *XMLResourceMapChunk:
			continue
		}
		out = append(out, c)
	}
	return out
}

func (x *XMLChunk) resolveString(i int32) (string, error) {
	if i < 0 {
		return "", nil
	}
	return x.stringPool.Get(int(i))
}

func parseXMLChunk(c *cursor, headerSize uint16, chunkSize uint32) (*XMLChunk, error) {
	if c.pos != int(headerSize) {
		return nil, newErr(ErrKindMalformedHeader, "xml chunk: header consumed %d bytes, header_size declares %d", c.pos, headerSize)
	}
	children, err := parseChildren(c, int(chunkSize))
	if err != nil {
		return nil, err
	}

	x := &XMLChunk{}
	for _, pc := range children {
		x.children = append(x.children, pc.chunk)
		switch v := pc.chunk.(type) {
		case *StringPoolChunk:
			if x.stringPool == nil {
				x.stringPool = v
			}
		case *XMLResourceMapChunk:
			if x.resourceMap == nil {
				x.resourceMap = v
			}
		}
	}
	if x.stringPool == nil {
		return nil, newErr(ErrKindBrokenInvariant, "xml chunk: no string pool found among children")
	}
	return x, nil
}

func (x *XMLChunk) Write(opts SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkXML, frameSize, nil, func(pw *writer, _ []byte) error {
		for _, child := range x.children {
			b, err := child.Write(opts)
			if err != nil {
				return err
			}
			pw.writeBytes(b)
		}
		return nil
	})
}

// ParseXMLChunk parses a compiled-XML byte slice whose single top-level
// chunk is an XML chunk, and returns it typed (spec.md §9 single-root
// accessor, grounded on original_source/ArscUtils).
func ParseXMLChunk(data []byte) (*XMLChunk, error) {
	chunk, consumed, err := parseChunk(data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, newErr(ErrKindBrokenInvariant, "xml chunk: %d trailing bytes after root chunk", len(data)-consumed)
	}
	x, ok := chunk.(*XMLChunk)
	if !ok {
		return nil, newErr(ErrKindBrokenInvariant, "xml chunk: root chunk is %s, not XML", chunk.Type())
	}
	return x, nil
}

// WriteText renders the document as indented textual XML, the way
// binxml.go's ParseXml callback sequence drives a ManifestEncoder - but
// here writing plain stdlib-escaped text directly instead of delegating
// to a caller-supplied encoder, since this is a read-only convenience
// rather than the library's primary output. Attribute values prefer the
// raw string form when present, falling back to the typed value's own
// bit-level description.
func (x *XMLChunk) WriteText(w io.Writer) error {
	type pendingNS struct {
		prefix, uri string
	}
	var pendingNamespaces []pendingNS
	depth := 0

	for _, child := range x.children {
		switch n := child.(type) {
		case *StringPoolChunk, *XMLResourceMapChunk:
			continue

		case *XMLNamespaceChunk:
			if n.End {
				continue
			}
			prefix, err := x.resolveString(n.Prefix)
			if err != nil {
				return err
			}
			uri, err := x.resolveString(n.URI)
			if err != nil {
				return err
			}
			pendingNamespaces = append(pendingNamespaces, pendingNS{prefix: prefix, uri: uri})

		case *XMLStartElementChunk:
			name, err := x.resolveString(int32(n.NameIndex))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s<%s", strings.Repeat("  ", depth), name)
			for _, ns := range pendingNamespaces {
				fmt.Fprintf(w, " xmlns:%s=%q", ns.prefix, escapeText(ns.uri))
			}
			pendingNamespaces = nil
			for _, a := range n.Attributes {
				attrName, err := x.resolveString(int32(a.NameIndex))
				if err != nil {
					return err
				}
				val, err := x.describeAttribute(a)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, " %s=%q", attrName, escapeText(val))
			}
			fmt.Fprint(w, ">\n")
			depth++

		case *XMLEndElementChunk:
			depth--
			name, err := x.resolveString(int32(n.NameIndex))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s</%s>\n", strings.Repeat("  ", depth), name)

		case *XMLCDATAChunk:
			text, err := x.resolveString(n.DataIndex)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), escapeText(text))
		}
	}
	return nil
}

func (x *XMLChunk) describeAttribute(a XMLAttribute) (string, error) {
	if a.RawValueIndex >= 0 {
		return x.resolveString(a.RawValueIndex)
	}
	return a.TypedValue.Describe(), nil
}

func escapeText(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}
