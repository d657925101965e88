package arsc

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Configuration size tiers, per spec.md §3 "ResourceConfiguration".
const (
	configSizeBase       = 28
	configSizeScreen     = 32
	configSizeScreenDp   = 36
	configSizeLocale     = 48
	configSizeScreenCfg2 = 52
)

// ResourceConfiguration is the fixed-but-growable device configuration
// record (spec.md §3). Equality ignores Size and Unknown; fields beyond
// the tier implied by Size are zero and were never present on the wire.
type ResourceConfiguration struct {
	Size uint32

	MCC, MNC uint16
	Language [2]byte
	Region   [2]byte

	Orientation, Touchscreen uint8
	Density                  uint16

	Keyboard, Navigation, InputFlags, InputPad0 uint8

	ScreenWidth, ScreenHeight uint16
	SDKVersion, MinorVersion  uint16

	// Present when Size >= 32.
	ScreenLayout          uint8
	UIMode                uint8
	SmallestScreenWidthDp uint16

	// Present when Size >= 36.
	ScreenWidthDp  uint16
	ScreenHeightDp uint16

	// Present when Size >= 48.
	LocaleScript  [4]byte
	LocaleVariant [8]byte

	// Present when Size >= 52.
	ScreenLayout2    uint8
	ColorMode        uint8
	ScreenConfigPad2 uint16

	// Unknown holds any bytes beyond the highest tier this library knows
	// about, or any bytes between two tier boundaries that Size declares
	// but that don't fill a whole further tier. Preserved verbatim.
	Unknown []byte
}

// DefaultConfiguration returns the "default" (all-axes-unspecified)
// configuration, spec.md scenario S1.
func DefaultConfiguration() ResourceConfiguration {
	return ResourceConfiguration{Size: configSizeBase}
}

func parseResourceConfiguration(c *cursor) (ResourceConfiguration, error) {
	var cfg ResourceConfiguration

	size, err := c.u32()
	if err != nil {
		return cfg, err
	}
	if size < configSizeBase {
		return cfg, newErr(ErrKindMalformedHeader, "configuration size %d smaller than minimum %d", size, configSizeBase)
	}
	cfg.Size = size

	if err := cfg.readBase(c); err != nil {
		return cfg, err
	}
	consumed := uint32(configSizeBase)

	consumed, err = cfg.readTier(c, consumed, configSizeScreen, func() error {
		if err := mustU8(c, &cfg.ScreenLayout); err != nil {
			return err
		}
		if err := mustU8(c, &cfg.UIMode); err != nil {
			return err
		}
		return mustU16(c, &cfg.SmallestScreenWidthDp)
	})
	if err != nil {
		return cfg, err
	}

	consumed, err = cfg.readTier(c, consumed, configSizeScreenDp, func() error {
		if err := mustU16(c, &cfg.ScreenWidthDp); err != nil {
			return err
		}
		return mustU16(c, &cfg.ScreenHeightDp)
	})
	if err != nil {
		return cfg, err
	}

	consumed, err = cfg.readTier(c, consumed, configSizeLocale, func() error {
		b, err := c.bytes(4)
		if err != nil {
			return err
		}
		copy(cfg.LocaleScript[:], b)
		b, err = c.bytes(8)
		if err != nil {
			return err
		}
		copy(cfg.LocaleVariant[:], b)
		return nil
	})
	if err != nil {
		return cfg, err
	}

	consumed, err = cfg.readTier(c, consumed, configSizeScreenCfg2, func() error {
		if err := mustU8(c, &cfg.ScreenLayout2); err != nil {
			return err
		}
		if err := mustU8(c, &cfg.ColorMode); err != nil {
			return err
		}
		return mustU16(c, &cfg.ScreenConfigPad2)
	})
	if err != nil {
		return cfg, err
	}

	if consumed < size {
		b, err := c.bytes(int(size - consumed))
		if err != nil {
			return cfg, err
		}
		cfg.Unknown = append([]byte(nil), b...)
	}

	return cfg, nil
}

// readTier reads the next tier's fields if Size covers it; if Size is
// between tiers (more than "at" bytes but not enough for the next
// tier's full increment) the remaining declared bytes are captured into
// Unknown and no further tier is attempted.
func (cfg *ResourceConfiguration) readTier(c *cursor, at uint32, tierSize uint32, read func() error) (uint32, error) {
	if cfg.Size < tierSize {
		return at, nil
	}
	if err := read(); err != nil {
		return at, err
	}
	return tierSize, nil
}

func mustU8(c *cursor, out *uint8) error {
	v, err := c.u8()
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func mustU16(c *cursor, out *uint16) error {
	v, err := c.u16()
	if err != nil {
		return err
	}
	*out = v
	return nil
}

func (cfg *ResourceConfiguration) readBase(c *cursor) error {
	if err := mustU16(c, &cfg.MCC); err != nil {
		return err
	}
	if err := mustU16(c, &cfg.MNC); err != nil {
		return err
	}
	b, err := c.bytes(2)
	if err != nil {
		return err
	}
	copy(cfg.Language[:], b)
	b, err = c.bytes(2)
	if err != nil {
		return err
	}
	copy(cfg.Region[:], b)
	if err := mustU8(c, &cfg.Orientation); err != nil {
		return err
	}
	if err := mustU8(c, &cfg.Touchscreen); err != nil {
		return err
	}
	if err := mustU16(c, &cfg.Density); err != nil {
		return err
	}
	if err := mustU8(c, &cfg.Keyboard); err != nil {
		return err
	}
	if err := mustU8(c, &cfg.Navigation); err != nil {
		return err
	}
	if err := mustU8(c, &cfg.InputFlags); err != nil {
		return err
	}
	if err := mustU8(c, &cfg.InputPad0); err != nil {
		return err
	}
	if err := mustU16(c, &cfg.ScreenWidth); err != nil {
		return err
	}
	if err := mustU16(c, &cfg.ScreenHeight); err != nil {
		return err
	}
	if err := mustU16(c, &cfg.SDKVersion); err != nil {
		return err
	}
	return mustU16(c, &cfg.MinorVersion)
}

func (cfg ResourceConfiguration) write(w *writer) {
	w.u32(cfg.Size)
	w.u16(cfg.MCC)
	w.u16(cfg.MNC)
	w.writeBytes(cfg.Language[:])
	w.writeBytes(cfg.Region[:])
	w.u8(cfg.Orientation)
	w.u8(cfg.Touchscreen)
	w.u16(cfg.Density)
	w.u8(cfg.Keyboard)
	w.u8(cfg.Navigation)
	w.u8(cfg.InputFlags)
	w.u8(cfg.InputPad0)
	w.u16(cfg.ScreenWidth)
	w.u16(cfg.ScreenHeight)
	w.u16(cfg.SDKVersion)
	w.u16(cfg.MinorVersion)
	consumed := uint32(configSizeBase)

	if cfg.Size >= configSizeScreen {
		w.u8(cfg.ScreenLayout)
		w.u8(cfg.UIMode)
		w.u16(cfg.SmallestScreenWidthDp)
		consumed = configSizeScreen
	}
	if cfg.Size >= configSizeScreenDp {
		w.u16(cfg.ScreenWidthDp)
		w.u16(cfg.ScreenHeightDp)
		consumed = configSizeScreenDp
	}
	if cfg.Size >= configSizeLocale {
		w.writeBytes(cfg.LocaleScript[:])
		w.writeBytes(cfg.LocaleVariant[:])
		consumed = configSizeLocale
	}
	if cfg.Size >= configSizeScreenCfg2 {
		w.u8(cfg.ScreenLayout2)
		w.u8(cfg.ColorMode)
		w.u16(cfg.ScreenConfigPad2)
		consumed = configSizeScreenCfg2
	}
	if consumed < cfg.Size {
		w.writeBytes(cfg.Unknown)
	}
}

// Equal compares two configurations ignoring Size and Unknown, per
// spec.md §3. ResourceConfiguration holds a []byte field, which makes
// it non-comparable with ==, so this compares every other field
// explicitly.
func (cfg ResourceConfiguration) Equal(o ResourceConfiguration) bool {
	return cfg.MCC == o.MCC &&
		cfg.MNC == o.MNC &&
		cfg.Language == o.Language &&
		cfg.Region == o.Region &&
		cfg.Orientation == o.Orientation &&
		cfg.Touchscreen == o.Touchscreen &&
		cfg.Density == o.Density &&
		cfg.Keyboard == o.Keyboard &&
		cfg.Navigation == o.Navigation &&
		cfg.InputFlags == o.InputFlags &&
		cfg.InputPad0 == o.InputPad0 &&
		cfg.ScreenWidth == o.ScreenWidth &&
		cfg.ScreenHeight == o.ScreenHeight &&
		cfg.SDKVersion == o.SDKVersion &&
		cfg.MinorVersion == o.MinorVersion &&
		cfg.ScreenLayout == o.ScreenLayout &&
		cfg.UIMode == o.UIMode &&
		cfg.SmallestScreenWidthDp == o.SmallestScreenWidthDp &&
		cfg.ScreenWidthDp == o.ScreenWidthDp &&
		cfg.ScreenHeightDp == o.ScreenHeightDp &&
		cfg.LocaleScript == o.LocaleScript &&
		cfg.LocaleVariant == o.LocaleVariant &&
		cfg.ScreenLayout2 == o.ScreenLayout2 &&
		cfg.ColorMode == o.ColorMode &&
		cfg.ScreenConfigPad2 == o.ScreenConfigPad2
}

func (cfg ResourceConfiguration) isDefault() bool {
	return cfg.Equal(DefaultConfiguration())
}

// packLangOrRegion packs a 2- or 3-letter lower-case ISO code into the
// format's 2-byte field: a 2-letter code is stored as-is; a 3-letter
// code is packed 5 bits per letter with the high bit of the first byte
// set as a marker (spec.md scenario S2).
func packLangOrRegion(s string) [2]byte {
	var out [2]byte
	switch len(s) {
	case 0:
		return out
	case 2:
		out[0], out[1] = s[0], s[1]
		return out
	case 3:
		first := s[0] - 'a'
		second := s[1] - 'a'
		third := s[2] - 'a'
		out[0] = 0x80 | (first << 2) | (second >> 3)
		out[1] = ((second & 0x07) << 5) | third
		return out
	default:
		return out
	}
}

// unpackLangOrRegion is the inverse of packLangOrRegion.
func unpackLangOrRegion(b [2]byte) string {
	if b[0] == 0 && b[1] == 0 {
		return ""
	}
	if b[0]&0x80 == 0 {
		if b[1] == 0 {
			return string([]byte{b[0]})
		}
		return string([]byte{b[0], b[1]})
	}
	first := (b[0] >> 2) & 0x1F
	second := ((b[0] & 0x03) << 3) | (b[1] >> 5)
	third := b[1] & 0x1F
	return string([]byte{first + 'a', second + 'a', third + 'a'})
}

// PackLanguage packs a 2- or 3-letter lower-case ISO 639 code into the
// configuration's Language field.
func (cfg *ResourceConfiguration) PackLanguage(lang string) { cfg.Language = packLangOrRegion(lang) }

// UnpackLanguage returns the ISO 639 code stored in Language, or "" if
// unset.
func (cfg ResourceConfiguration) UnpackLanguage() string { return unpackLangOrRegion(cfg.Language) }

// PackRegion packs a 2- or 3-letter region code into the configuration's
// Region field.
func (cfg *ResourceConfiguration) PackRegion(region string) { cfg.Region = packLangOrRegion(region) }

// UnpackRegion returns the region code stored in Region, or "" if unset.
func (cfg ResourceConfiguration) UnpackRegion() string { return unpackLangOrRegion(cfg.Region) }

// Locale formats the locale-related fields (language, region, and, when
// present, script/variant) as a BCP-47 tag using golang.org/x/text/language.
// Returns "" if no locale axis is set.
func (cfg ResourceConfiguration) Locale() string {
	lang := cfg.UnpackLanguage()
	region := cfg.UnpackRegion()
	if lang == "" && region == "" {
		return ""
	}

	var b strings.Builder
	if lang != "" {
		b.WriteString(lang)
	} else {
		b.WriteString("und")
	}
	if cfg.Size >= configSizeLocale && hasNonZero(cfg.LocaleScript[:]) {
		fmt.Fprintf(&b, "-%s", trimZero(cfg.LocaleScript[:]))
	}
	if region != "" {
		fmt.Fprintf(&b, "-%s", strings.ToUpper(region))
	}
	if cfg.Size >= configSizeLocale && hasNonZero(cfg.LocaleVariant[:]) {
		fmt.Fprintf(&b, "-%s", trimZero(cfg.LocaleVariant[:]))
	}

	tag, err := language.Parse(b.String())
	if err != nil {
		return b.String()
	}
	return tag.String()
}

func hasNonZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return true
		}
	}
	return false
}

func trimZero(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

// String renders the configuration as a dash-joined qualifier string
// built from the BCP-47 locale and the numeric axes (e.g.
// "en-US-120dpi"), or "default" if every axis is unspecified (spec.md
// scenario S1). This is a read-only convenience; it never feeds back
// into the binary model.
func (cfg ResourceConfiguration) String() string {
	if cfg.isDefault() {
		return "default"
	}

	var parts []string
	if cfg.MCC != 0 {
		parts = append(parts, fmt.Sprintf("mcc%d", cfg.MCC))
	}
	if cfg.MNC != 0 {
		parts = append(parts, fmt.Sprintf("mnc%d", cfg.MNC))
	}
	if loc := cfg.Locale(); loc != "" {
		parts = append(parts, loc)
	}
	if cfg.Size >= configSizeScreenDp && (cfg.ScreenWidthDp != 0 || cfg.ScreenHeightDp != 0) {
		parts = append(parts, fmt.Sprintf("%dx%ddp", cfg.ScreenWidthDp, cfg.ScreenHeightDp))
	}
	if cfg.Density != 0 {
		parts = append(parts, fmt.Sprintf("%ddpi", cfg.Density))
	}
	if cfg.Orientation != 0 {
		parts = append(parts, fmt.Sprintf("orient%d", cfg.Orientation))
	}
	if cfg.SDKVersion != 0 {
		parts = append(parts, fmt.Sprintf("v%d", cfg.SDKVersion))
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, "-")
}
