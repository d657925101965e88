package arsc

import "fmt"

// File is a whole parsed byte buffer: a sequence of top-level chunks
// (spec.md §2 "File wrapper"). Most real inputs have exactly one
// top-level chunk (a TABLE or an XML chunk), but the format permits
// more, so File exposes the general sequence; ParseResourceTable and
// ParseXMLChunk are the typed single-root convenience.
type File struct {
	Chunks []Chunk
}

// Parse reads every top-level chunk out of data. A malformed chunk
// anywhere in the tree - including an internal invariant violation
// that would otherwise have to be checked at every recursive call site -
// surfaces as an error here rather than a panic, mirroring
// apkparser.go's recover()-wrapped parse boundary.
func Parse(data []byte) (f *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newErr(ErrKindBrokenInvariant, "panic while parsing: %v", r)
		}
	}()

	var chunks []Chunk
	pos := 0
	for pos < len(data) {
		if len(data)-pos < frameSize {
			break
		}
		chunk, consumed, perr := parseChunk(data[pos:])
		if perr != nil {
			return nil, fmt.Errorf("file: chunk at offset %d: %w", pos, perr)
		}
		chunks = append(chunks, chunk)
		pos += consumed
	}
	return &File{Chunks: chunks}, nil
}

// ToBytes serializes every top-level chunk back to bytes under the
// given options.
func (f *File) ToBytes(opts SerializationOptions) ([]byte, error) {
	var out []byte
	for i, chunk := range f.Chunks {
		b, err := chunk.Write(opts)
		if err != nil {
			return nil, fmt.Errorf("file: chunk %d (%s): %w", i, chunk.Type(), err)
		}
		out = append(out, b...)
	}
	return out, nil
}
