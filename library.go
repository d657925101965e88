package arsc

// LibraryEntry maps a dynamic package id to the shared-library package
// name that provides it (spec.md §3 "LibraryChunk").
type LibraryEntry struct {
	PackageID uint32
	Name      string
}

const libraryNameFieldSize = 256

// LibraryChunk is a package's table of dynamic package-id-to-name
// mappings for shared-library resource references.
type LibraryChunk struct {
	Entries []LibraryEntry
}

func (l *LibraryChunk) Type() ChunkType { return ChunkTableLibrary }

func parseLibraryChunk(c *cursor, headerSize uint16, chunkSize uint32) (*LibraryChunk, error) {
	count, err := c.u32()
	if err != nil {
		return nil, err
	}
	entries := make([]LibraryEntry, count)
	for i := range entries {
		pkgID, err := c.u32()
		if err != nil {
			return nil, err
		}
		if pkgID > 0xFF {
			return nil, newErr(ErrKindIndexOutOfRange, "library chunk: package id %d exceeds one byte", pkgID)
		}
		nameBytes, err := c.bytes(libraryNameFieldSize)
		if err != nil {
			return nil, err
		}
		entries[i] = LibraryEntry{PackageID: pkgID, Name: fixedUTF16(nameBytes)}
	}
	return &LibraryChunk{Entries: entries}, nil
}

func (l *LibraryChunk) Write(SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkTableLibrary, 8+4, func(hw *writer) error {
		hw.u32(uint32(len(l.Entries)))
		return nil
	}, func(pw *writer, _ []byte) error {
		for _, e := range l.Entries {
			pw.u32(e.PackageID)
			nameBytes, err := putFixedUTF16(e.Name, libraryNameFieldSize)
			if err != nil {
				return err
			}
			pw.writeBytes(nameBytes)
		}
		return nil
	})
}
