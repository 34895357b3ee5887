// Package key implements the extended-key encoding and binding table
// of spec §4.5: each keystroke, plus whatever prefix bits accumulated
// while reading it, is packed into a single ExtKey value that is both
// the binding-table lookup key and the unit the macro engine records.
package key

// ExtKey packs a raw key code (low byte) with prefix flags (upper
// bits), following the layout of original_source/src/bind.c's
// "extended key": a plain ASCII or control character in the low byte,
// with Ctrl/Meta/Shift/FKey/Prefix-N recorded as separate bits so a
// single binding slot can be selected without re-parsing the key.
type ExtKey uint16

const (
	Ctrl  ExtKey = 0x0100
	Meta  ExtKey = 0x0200
	Pref1 ExtKey = 0x0400
	Pref2 ExtKey = 0x0800
	Pref3 ExtKey = 0x1000
	Shift ExtKey = 0x2000
	FKey  ExtKey = 0x4000

	// Prefix is every bit that names a binding-table slot other than
	// the root slot.
	Prefix = Meta | Pref1 | Pref2 | Pref3

	codeMask ExtKey = 0x00FF
)

// Code returns the raw key byte, stripped of prefix/modifier bits.
func (k ExtKey) Code() byte { return byte(k & codeMask) }

// Slot identifies which of the five binding-table slots (spec §4.5
// "Five slots") an ExtKey belongs in, mirroring bindSlot's switch on
// extKey&Prefix.
type Slot int

const (
	SlotRoot Slot = iota
	SlotMeta
	SlotPrefix1
	SlotPrefix2
	SlotPrefix3
	slotCount
)

// SlotOf returns the binding-table slot for k.
func SlotOf(k ExtKey) Slot {
	switch k & Prefix {
	case 0:
		return SlotRoot
	case Meta:
		return SlotMeta
	case Pref1:
		return SlotPrefix1
	case Pref2:
		return SlotPrefix2
	default:
		return SlotPrefix3
	}
}

// ordinalCount is the size of one binding slot's dense array: 128
// plain/control codes, S-TAB, 94 function keys, and 94 shifted
// function keys (ektoc's "extend" range).
const ordinalCount = 128 + 1 + 94 + 94

// Ordinal maps k to a small contiguous integer suitable for indexing a
// dense per-slot array, collapsing the Ctrl flag back into the
// control-character range and spreading function keys into their own
// bands, per ektoc(extKey, true).
func Ordinal(k ExtKey) int {
	code := k & (Ctrl | codeMask)
	if code == Ctrl|' ' {
		return 0 // Ctrl-Space is NUL
	}
	if k&(Shift|Ctrl|codeMask) == Shift|Ctrl|'I' {
		return 128 + 94 // S-TAB
	}

	c := int(k & codeMask)
	if k&Ctrl != 0 {
		return c ^ 0x40
	}
	if k&FKey != 0 {
		if k&Shift != 0 {
			return c + (128 + 94 + 1 - 33)
		}
		return c + (128 - 33)
	}
	return c
}
