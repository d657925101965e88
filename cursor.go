package arsc

import (
	"bytes"
	"encoding/binary"
)

// cursor is a bounds-checked little-endian reader over a byte slice. It
// never panics on short reads; every accessor returns an error instead,
// so a truncated or malicious chunk surfaces as an ordinary error rather
// than a runtime panic escaping to the caller.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(b []byte) *cursor {
	return &cursor{buf: b}
}

func (c *cursor) remaining() int { return len(c.buf) - c.pos }

func (c *cursor) require(n int) error {
	if n < 0 || c.remaining() < n {
		return newErr(ErrKindMalformedHeader, "unexpected end of buffer: need %d bytes, have %d", n, c.remaining())
	}
	return nil
}

func (c *cursor) skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *cursor) seek(pos int) error {
	if pos < 0 || pos > len(c.buf) {
		return newErr(ErrKindIndexOutOfRange, "seek out of range: %d (len %d)", pos, len(c.buf))
	}
	c.pos = pos
	return nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

func (c *cursor) u16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *cursor) i16() (int16, error) {
	v, err := c.u16()
	return int16(v), err
}

func (c *cursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

// writer accumulates a little-endian payload. It never returns an error
// (bytes.Buffer.Write never fails), mirroring the "build the whole
// payload, then learn its size" shape the chunk framing depends on.
type writer struct {
	buf bytes.Buffer
}

func newWriter() *writer { return &writer{} }

func (w *writer) Len() int { return w.buf.Len() }

func (w *writer) Bytes() []byte { return w.buf.Bytes() }

func (w *writer) writeBytes(b []byte) { w.buf.Write(b) }

func (w *writer) u8(v uint8) { w.buf.WriteByte(v) }

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }
func (w *writer) i32(v int32) { w.u32(uint32(v)) }

// pad4 pads the writer's current contents to a 4-byte boundary with zero
// bytes, matching the format's chunk alignment rule (spec.md §3/§4.1).
func (w *writer) pad4() {
	if rem := w.buf.Len() % 4; rem != 0 {
		var zeros [4]byte
		w.buf.Write(zeros[:4-rem])
	}
}

