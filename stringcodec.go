package arsc

import (
	"unicode/utf16"
	"unicode/utf8"
)

// decodeLen8 reads the format's variable-width 8-bit length prefix: one
// byte, or two when the high bit of the first byte is set (spec.md §4.2).
func decodeLen8(c *cursor) (int, error) {
	b0, err := c.u8()
	if err != nil {
		return 0, err
	}
	if b0&0x80 == 0 {
		return int(b0), nil
	}
	b1, err := c.u8()
	if err != nil {
		return 0, err
	}
	return int(b0&0x7F)<<8 | int(b1), nil
}

// encodeLen8 writes the variable-width 8-bit length prefix for n, which
// must fit in 15 bits.
func encodeLen8(w *writer, n int) error {
	if n < 0 || n > 0x7FFF {
		return newErr(ErrKindMalformedHeader, "string length %d out of range for 8-bit length prefix", n)
	}
	if n < 0x80 {
		w.u8(uint8(n))
		return nil
	}
	w.u8(0x80 | uint8(n>>8))
	w.u8(uint8(n))
	return nil
}

// decodeLen16 reads the format's variable-width 16-bit length prefix: one
// word, or two when the high bit of the first word is set.
func decodeLen16(c *cursor) (int, error) {
	w0, err := c.u16()
	if err != nil {
		return 0, err
	}
	if w0&0x8000 == 0 {
		return int(w0), nil
	}
	w1, err := c.u16()
	if err != nil {
		return 0, err
	}
	return int(w0&0x7FFF)<<16 | int(w1), nil
}

// encodeLen16 writes the variable-width 16-bit length prefix for n.
func encodeLen16(w *writer, n int) error {
	if n < 0 || n > 0x7FFFFFFF {
		return newErr(ErrKindMalformedHeader, "string length %d out of range for 16-bit length prefix", n)
	}
	if n < 0x8000 {
		w.u16(uint16(n))
		return nil
	}
	w.u16(0x8000 | uint16(n>>16))
	w.u16(uint16(n))
	return nil
}

// decodeStringUTF8 decodes one NUL-terminated UTF-8 string at the
// cursor's current position: a character-count prefix, then a byte-count
// prefix, then that many bytes, then a single NUL terminator byte that
// doesn't count toward the byte-count prefix.
func decodeStringUTF8(c *cursor) (string, error) {
	if _, err := decodeLen8(c); err != nil { // character count, unused on decode
		return "", err
	}
	byteLen, err := decodeLen8(c)
	if err != nil {
		return "", err
	}
	b, err := c.bytes(byteLen)
	if err != nil {
		return "", err
	}
	if err := c.skip(1); err != nil { // NUL terminator
		return "", err
	}
	s := string(b)
	if !utf8.ValidString(s) {
		return "", newErr(ErrKindMalformedHeader, "invalid UTF-8 string data")
	}
	return s, nil
}

// encodeStringUTF8 writes s in the two-length-prefix UTF-8 wire form.
func encodeStringUTF8(w *writer, s string) error {
	charCount := len(utf16.Encode([]rune(s)))
	if err := encodeLen8(w, charCount); err != nil {
		return err
	}
	b := []byte(s)
	if err := encodeLen8(w, len(b)); err != nil {
		return err
	}
	w.writeBytes(b)
	w.u8(0)
	return nil
}

// decodeStringUTF16 decodes one NUL-terminated UTF-16LE string: a
// character-count prefix, then that many UTF-16 code units, then a
// single NUL terminator word.
func decodeStringUTF16(c *cursor) (string, error) {
	charCount, err := decodeLen16(c)
	if err != nil {
		return "", err
	}
	units := make([]uint16, charCount)
	for i := range units {
		u, err := c.u16()
		if err != nil {
			return "", err
		}
		units[i] = u
	}
	if err := c.skip(2); err != nil { // NUL terminator
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

// encodeStringUTF16 writes s in the single-length-prefix UTF-16LE wire
// form.
func encodeStringUTF16(w *writer, s string) error {
	units := utf16.Encode([]rune(s))
	if err := encodeLen16(w, len(units)); err != nil {
		return err
	}
	for _, u := range units {
		w.u16(u)
	}
	w.u16(0)
	return nil
}

// fixedUTF16 decodes a fixed-width, NUL-padded UTF-16LE field (used for
// PackageChunk's 256-byte package name).
func fixedUTF16(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	s := utf16.Decode(units)
	for len(s) != 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return string(s)
}

// putFixedUTF16 encodes s into a fixed-width, NUL-padded UTF-16LE field
// of exactly size bytes. It returns an error if s plus a NUL terminator
// word does not fit; s is never truncated.
func putFixedUTF16(s string, size int) ([]byte, error) {
	units := utf16.Encode([]rune(s))
	if len(units)*2 > size-2 {
		return nil, newErr(ErrKindMalformedHeader, "string %q too long for %d-byte fixed UTF-16 field", s, size)
	}
	buf := make([]byte, size)
	for i, u := range units {
		buf[2*i] = byte(u)
		buf[2*i+1] = byte(u >> 8)
	}
	return buf, nil
}
