package arsc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLen8ShortAndLongForms(t *testing.T) {
	cases := []int{0, 1, 0x7F, 0x80, 0x1234, 0x7FFF}
	for _, n := range cases {
		w := newWriter()
		require.NoError(t, encodeLen8(w, n))
		got, err := decodeLen8(newCursor(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestLen16ShortAndLongForms(t *testing.T) {
	cases := []int{0, 1, 0x7FFF, 0x8000, 0x12345}
	for _, n := range cases {
		w := newWriter()
		require.NoError(t, encodeLen16(w, n))
		got, err := decodeLen16(newCursor(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestEncodeDecodeStringUTF8(t *testing.T) {
	w := newWriter()
	require.NoError(t, encodeStringUTF8(w, "héllo"))
	s, err := decodeStringUTF8(newCursor(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)
}

func TestEncodeDecodeStringUTF8LongForm(t *testing.T) {
	long := strings.Repeat("x", 200)
	w := newWriter()
	require.NoError(t, encodeStringUTF8(w, long))
	s, err := decodeStringUTF8(newCursor(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, long, s)
}

func TestEncodeDecodeStringUTF16(t *testing.T) {
	w := newWriter()
	require.NoError(t, encodeStringUTF16(w, "héllo"))
	s, err := decodeStringUTF16(newCursor(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)
}

func TestFixedUTF16RoundTripAndOverflowError(t *testing.T) {
	b, err := putFixedUTF16("com.example", 256)
	require.NoError(t, err)
	assert.Len(t, b, 256)
	assert.Equal(t, "com.example", fixedUTF16(b))

	_, err = putFixedUTF16(strings.Repeat("x", 200), 256)
	require.Error(t, err)
}
