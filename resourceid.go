package arsc

import "fmt"

// ResourceID is a packed 0xPPTTEEEE resource identifier: package id
// (top byte), type id (next byte, 1-based), entry index (low 16 bits).
// Spec.md §3 "Resource identifier".
type ResourceID uint32

// MakeResourceID packs a (package, type, entry) triple. pkg and typ must
// each fit in a byte.
func MakeResourceID(pkg, typ uint8, entry uint16) ResourceID {
	return ResourceID(uint32(pkg)<<24 | uint32(typ)<<16 | uint32(entry))
}

// Package returns the packed identifier's package id (top 8 bits).
func (r ResourceID) Package() uint8 { return uint8(r >> 24) }

// Type returns the packed identifier's 1-based type id.
func (r ResourceID) Type() uint8 { return uint8(r >> 16) }

// Entry returns the packed identifier's 0-based entry index.
func (r ResourceID) Entry() uint16 { return uint16(r) }

func (r ResourceID) String() string {
	return fmt.Sprintf("0x%08x", uint32(r))
}
