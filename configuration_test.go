package arsc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultConfigurationRoundTrip covers S1: the all-zero 28-byte
// configuration parses to DefaultConfiguration, formats as "default",
// and re-serializes byte-for-byte.
func TestDefaultConfigurationRoundTrip(t *testing.T) {
	raw := make([]byte, 28)
	raw[0] = 0x1C // size = 28

	cfg, err := parseResourceConfiguration(newCursor(raw))
	require.NoError(t, err)
	assert.True(t, cfg.Equal(DefaultConfiguration()))
	assert.Equal(t, "default", cfg.String())

	w := newWriter()
	cfg.write(w)
	assert.Equal(t, raw, w.Bytes())
}

// TestPackUnpackLangOrRegion covers S2: pack/unpack round-trips every
// lower-case 2- and 3-letter ISO code.
func TestPackUnpackLangOrRegion(t *testing.T) {
	codes := []string{"en", "fr", "de", "fil", "yue", "gsw"}
	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			packed := packLangOrRegion(code)
			assert.Equal(t, code, unpackLangOrRegion(packed))
		})
	}
}

func TestPackLanguageTwoLetter(t *testing.T) {
	var cfg ResourceConfiguration
	cfg.PackLanguage("en")
	assert.Equal(t, [2]byte{'e', 'n'}, cfg.Language)
	assert.Equal(t, "en", cfg.UnpackLanguage())
}

func TestConfigurationUnknownTierBytesPreserved(t *testing.T) {
	raw := make([]byte, 40)
	raw[0] = 40
	for i := range raw[36:] {
		raw[36+i] = byte(0xAA + i)
	}

	cfg, err := parseResourceConfiguration(newCursor(raw))
	require.NoError(t, err)
	assert.Equal(t, raw[36:40], cfg.Unknown)

	w := newWriter()
	cfg.write(w)
	assert.Equal(t, raw, w.Bytes())
}

func TestConfigurationLocaleWithScript(t *testing.T) {
	cfg := ResourceConfiguration{Size: configSizeLocale}
	cfg.PackLanguage("sr")
	copy(cfg.LocaleScript[:], "Latn")
	assert.Equal(t, "sr-Latn", cfg.Locale())
}
