package arsc

// specPublicMask is the configuration-mask bit marking an entry's
// existence as publicly visible (spec.md §3 "TypeSpecChunk").
const specPublicMask uint32 = 0x40000000

// TypeSpecChunk carries one configuration mask per entry index for a
// resource type, recording which configuration axes vary across that
// type's TypeChunks (spec.md §3/§4.5... actually §3, wire detail implied
// by TableTypeSpec's id+mask-array layout).
type TypeSpecChunk struct {
	id    uint8
	masks []uint32
}

// NewTypeSpecChunk returns a TypeSpecChunk for the given 1-based type id
// with one zeroed mask per entry index.
func NewTypeSpecChunk(id uint8, entryCount int) *TypeSpecChunk {
	return &TypeSpecChunk{id: id, masks: make([]uint32, entryCount)}
}

func (t *TypeSpecChunk) Type() ChunkType { return ChunkTableTypeSpec }

// ID returns the 1-based type id this chunk describes.
func (t *TypeSpecChunk) ID() uint8 { return t.id }

// Masks returns the per-entry configuration masks, indexed by entry index.
func (t *TypeSpecChunk) Masks() []uint32 { return t.masks }

// SetMask sets the configuration mask for entry index i, growing the
// slice if needed.
func (t *TypeSpecChunk) SetMask(i int, mask uint32) {
	for len(t.masks) <= i {
		t.masks = append(t.masks, 0)
	}
	t.masks[i] = mask
}

func parseTypeSpecChunk(c *cursor, headerSize uint16, chunkSize uint32) (*TypeSpecChunk, error) {
	id, err := c.u8()
	if err != nil {
		return nil, err
	}
	if id < 1 {
		return nil, newErr(ErrKindIndexOutOfRange, "type spec chunk: id %d out of range, must be >= 1", id)
	}
	if _, err := c.u8(); err != nil { // res0, reserved
		return nil, err
	}
	if _, err := c.u16(); err != nil { // res1, reserved
		return nil, err
	}
	entryCount, err := c.u32()
	if err != nil {
		return nil, err
	}
	masks := make([]uint32, entryCount)
	for i := range masks {
		m, err := c.u32()
		if err != nil {
			return nil, err
		}
		masks[i] = m
	}
	return &TypeSpecChunk{id: id, masks: masks}, nil
}

func (t *TypeSpecChunk) Write(opts SerializationOptions) ([]byte, error) {
	return writeChunk(ChunkTableTypeSpec, 8+8, func(hw *writer) error {
		hw.u8(t.id)
		hw.u8(0)
		hw.u16(0)
		hw.u32(uint32(len(t.masks)))
		return nil
	}, func(pw *writer, _ []byte) error {
		priv := opts.Has(OptionPrivateResources)
		for _, m := range t.masks {
			if priv {
				m &^= specPublicMask
			}
			pw.u32(m)
		}
		return nil
	})
}
