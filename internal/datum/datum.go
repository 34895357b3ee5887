// Package datum implements the tagged dynamic value described in spec
// §3: nil, bool, int, real, string, array, or blob, plus the StringFab
// builder used by every message and datum-to-string conversion.
//
// The source (include/pldatum.h) carries this as a C union with a
// bitmask discriminant. Per the §9 design note ("Tagged variant instead
// of a type-tag field") this is a Go struct with a Kind discriminant
// instead — the payload fields for inactive kinds just sit unused,
// which is cheaper to reason about than hand-maintaining a union.
package datum

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the active payload of a Datum.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindReal
	KindString
	KindArray
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindBlob:
		return "blob"
	}
	return "?"
}

// Datum is a tagged dynamic value. The zero value is nil.
type Datum struct {
	kind Kind
	b    bool
	i    int64
	r    float64
	s    string
	arr  *Array // shared: assigning a Datum copies the pointer, not the slice
	blob []byte
}

// Array is the backing store for an array Datum. Arrays are
// reference-like (spec §3): copying a Datum that holds one shares this
// struct; Deepcopy is the only way to get an independent array.
type Array struct {
	Items []Datum
}

func Nil() Datum                { return Datum{kind: KindNil} }
func Bool(b bool) Datum         { return Datum{kind: KindBool, b: b} }
func Int(i int64) Datum         { return Datum{kind: KindInt, i: i} }
func Real(r float64) Datum      { return Datum{kind: KindReal, r: r} }
func String(s string) Datum     { return Datum{kind: KindString, s: s} }
func Blob(b []byte) Datum       { return Datum{kind: KindBlob, blob: b} }
func NewArray(items ...Datum) Datum {
	return Datum{kind: KindArray, arr: &Array{Items: items}}
}

func (d Datum) Kind() Kind   { return d.kind }
func (d Datum) IsNil() bool  { return d.kind == KindNil }
func (d Datum) Bool() bool   { return d.b }
func (d Datum) Int() int64   { return d.i }
func (d Datum) Real() float64 { return d.r }
func (d Datum) Str() string  { return d.s }
func (d Datum) Blob() []byte { return d.blob }
func (d Datum) Array() *Array { return d.arr }

// IsTrue reports the Datum's truthiness the way the script engine's
// conditionals see it: nil and false are false; the integer/real zero
// values and the empty string are false; everything else, including an
// empty array, is true.
func (d Datum) IsTrue() bool {
	switch d.kind {
	case KindNil:
		return false
	case KindBool:
		return d.b
	case KindInt:
		return d.i != 0
	case KindReal:
		return d.r != 0
	case KindString:
		return d.s != ""
	default:
		return true
	}
}

// Deepcopy returns an independent copy: arrays are cloned recursively
// rather than sharing their backing Array (spec §3: "a deep-copy
// operation is explicit").
func (d Datum) Deepcopy() Datum {
	if d.kind != KindArray {
		return d
	}
	items := make([]Datum, len(d.arr.Items))
	for i, it := range d.arr.Items {
		items[i] = it.Deepcopy()
	}
	return Datum{kind: KindArray, arr: &Array{Items: items}}
}

// Equal reports value equality. Two arrays are equal if same length and
// elementwise equal; self-referential arrays are handled by ToString, not
// here, since equality comparison of a self-referential array against
// itself by identity is handled via the arr pointer check.
func Equal(a, b Datum) bool {
	if a.arr != nil && a.arr == b.arr {
		return true
	}
	if a.kind != b.kind {
		// allow numeric cross-kind equality (int vs real)
		if (a.kind == KindInt || a.kind == KindReal) && (b.kind == KindInt || b.kind == KindReal) {
			return toReal(a) == toReal(b)
		}
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindReal:
		return a.r == b.r
	case KindString:
		return a.s == b.s
	case KindBlob:
		return string(a.blob) == string(b.blob)
	case KindArray:
		if len(a.arr.Items) != len(b.arr.Items) {
			return false
		}
		for i := range a.arr.Items {
			if !Equal(a.arr.Items[i], b.arr.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func toReal(d Datum) float64 {
	if d.kind == KindInt {
		return float64(d.i)
	}
	return d.r
}

// ToString renders a Datum for display, used by $Match-style reporting
// and the message line. viznil controls whether a nil value renders as
// the literal "nil" or the empty string.
func (d Datum) ToString(viznil bool) string {
	var sb strings.Builder
	writeDatum(&sb, d, viznil, make(map[*Array]bool))
	return sb.String()
}

func writeDatum(sb *strings.Builder, d Datum, viznil bool, seen map[*Array]bool) {
	switch d.kind {
	case KindNil:
		if viznil {
			sb.WriteString("nil")
		}
	case KindBool:
		if d.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(d.i, 10))
	case KindReal:
		sb.WriteString(strconv.FormatFloat(d.r, 'g', -1, 64))
	case KindString:
		sb.WriteString(d.s)
	case KindBlob:
		fmt.Fprintf(sb, "<blob:%d bytes>", len(d.blob))
	case KindArray:
		if seen[d.arr] {
			sb.WriteString("<endless recursion>")
			return
		}
		seen[d.arr] = true
		sb.WriteByte('[')
		for i, it := range d.arr.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeDatum(sb, it, true, seen)
		}
		sb.WriteByte(']')
		delete(seen, d.arr)
	}
}

// CoerceInt converts an int, real (truncated), bool (1/0) or string
// Datum to an int, returning (0, false) if a string does not parse or
// the kind has no integer form. Used by the script engine's string<->int
// coercion rule ("concatenation is &, not +").
func (d Datum) CoerceInt() (int64, bool) {
	switch d.kind {
	case KindInt:
		return d.i, true
	case KindReal:
		return int64(d.r), true
	case KindBool:
		if d.b {
			return 1, true
		}
		return 0, true
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(d.s), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// CoerceReal parses a Datum as a float64.
func (d Datum) CoerceReal() (float64, bool) {
	switch d.kind {
	case KindInt:
		return float64(d.i), true
	case KindReal:
		return d.r, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(d.s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
