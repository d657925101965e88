package arsc

import (
	"fmt"
	"math"
	"strconv"
)

// ResourceValueType tags the 4-byte payload of a ResourceValue (spec.md
// §3 "ResourceValue"). Values match androidfw's ResValue::DataType.
type ResourceValueType uint8

const (
	ResValueNull               ResourceValueType = 0x00
	ResValueReference          ResourceValueType = 0x01
	ResValueAttribute          ResourceValueType = 0x02
	ResValueString             ResourceValueType = 0x03
	ResValueFloat              ResourceValueType = 0x04
	ResValueDimension          ResourceValueType = 0x05
	ResValueFraction           ResourceValueType = 0x06
	ResValueDynamicReference   ResourceValueType = 0x07
	ResValueDynamicAttribute   ResourceValueType = 0x08
	ResValueIntDec             ResourceValueType = 0x10
	ResValueIntHex             ResourceValueType = 0x11
	ResValueIntBoolean         ResourceValueType = 0x12
	ResValueIntColorARGB8      ResourceValueType = 0x1c
	ResValueIntColorRGB8       ResourceValueType = 0x1d
	ResValueIntColorARGB4      ResourceValueType = 0x1e
	ResValueIntColorRGB4       ResourceValueType = 0x1f
)

func (t ResourceValueType) String() string {
	switch t {
	case ResValueNull:
		return "NULL"
	case ResValueReference:
		return "REFERENCE"
	case ResValueAttribute:
		return "ATTRIBUTE"
	case ResValueString:
		return "STRING"
	case ResValueFloat:
		return "FLOAT"
	case ResValueDimension:
		return "DIMENSION"
	case ResValueFraction:
		return "FRACTION"
	case ResValueDynamicReference:
		return "DYNAMIC_REFERENCE"
	case ResValueDynamicAttribute:
		return "DYNAMIC_ATTRIBUTE"
	case ResValueIntDec:
		return "INT_DEC"
	case ResValueIntHex:
		return "INT_HEX"
	case ResValueIntBoolean:
		return "INT_BOOLEAN"
	case ResValueIntColorARGB8:
		return "INT_COLOR_ARGB8"
	case ResValueIntColorRGB8:
		return "INT_COLOR_RGB8"
	case ResValueIntColorARGB4:
		return "INT_COLOR_ARGB4"
	case ResValueIntColorRGB4:
		return "INT_COLOR_RGB4"
	default:
		return fmt.Sprintf("TYPE(0x%02x)", uint8(t))
	}
}

// ResourceValue is the format's 8-byte tagged scalar (spec.md §3).
// Size is typically 8 and Reserved is typically 0; both are preserved
// verbatim on round-trip since the format doesn't document them further.
type ResourceValue struct {
	Size     uint16
	Reserved uint8
	Type     ResourceValueType
	Data     uint32
}

const resourceValueSize = 8

func newResourceValue(t ResourceValueType, data uint32) ResourceValue {
	return ResourceValue{Size: resourceValueSize, Type: t, Data: data}
}

func parseResourceValue(c *cursor) (ResourceValue, error) {
	var v ResourceValue
	size, err := c.u16()
	if err != nil {
		return v, err
	}
	reserved, err := c.u8()
	if err != nil {
		return v, err
	}
	typ, err := c.u8()
	if err != nil {
		return v, err
	}
	data, err := c.u32()
	if err != nil {
		return v, err
	}
	return ResourceValue{Size: size, Reserved: reserved, Type: ResourceValueType(typ), Data: data}, nil
}

func (v ResourceValue) write(w *writer) {
	w.u16(v.Size)
	w.u8(v.Reserved)
	w.u8(uint8(v.Type))
	w.u32(v.Data)
}

// Describe renders the value's own bits to a human string, the way
// avast/apkparser's binxml.go attribute formatter does for attribute
// values: it never resolves a REFERENCE/ATTRIBUTE, it only reports what
// the raw bits say (spec.md explicitly forbids interpreting a resource
// value further than this).
func (v ResourceValue) Describe() string {
	switch v.Type {
	case ResValueNull:
		return ""
	case ResValueReference, ResValueDynamicReference:
		return ResourceID(v.Data).String()
	case ResValueAttribute, ResValueDynamicAttribute:
		return fmt.Sprintf("?%s", ResourceID(v.Data).String())
	case ResValueString:
		return fmt.Sprintf("string#%d", v.Data)
	case ResValueFloat:
		return strconv.FormatFloat(float64(math.Float32frombits(v.Data)), 'g', -1, 32)
	case ResValueIntBoolean:
		return strconv.FormatBool(v.Data != 0)
	case ResValueIntHex:
		return fmt.Sprintf("0x%x", v.Data)
	case ResValueIntColorARGB8, ResValueIntColorRGB8, ResValueIntColorARGB4, ResValueIntColorRGB4:
		return fmt.Sprintf("#%08x", v.Data)
	case ResValueIntDec:
		return strconv.FormatInt(int64(int32(v.Data)), 10)
	default:
		return strconv.FormatInt(int64(int32(v.Data)), 10)
	}
}
