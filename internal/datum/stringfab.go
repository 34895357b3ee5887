package datum

import (
	"errors"
	"strings"
)

// StringFab is a mutable builder that appends bytes forward and flushes
// into a string or blob Datum (spec §3). The source's DStrFab also
// supports prepending and a chunked work-buffer; a strings.Builder plus
// an explicit prepend buffer gives the same two append directions
// without hand-rolled chunk management.
type StringFab struct {
	fwd strings.Builder
	pre []byte // bytes prepended, kept in reverse-append order then flipped on Close
}

// Open returns a ready-to-use StringFab. Mirrors dopen's zero-argument
// open; there is no "append to caller's existing Datum" mode here since
// Go values aren't mutated in place — callers that want append-to
// semantics just write the prior value's bytes first.
func Open() *StringFab {
	return &StringFab{}
}

// WriteByte appends one byte at the end.
func (f *StringFab) WriteByte(b byte) error {
	return f.fwd.WriteByte(b)
}

// WriteString appends a string at the end.
func (f *StringFab) WriteString(s string) {
	f.fwd.WriteString(s)
}

// PrependByte inserts a byte at the front (sf_prepend mode in the
// source, used to build a string backward one unit at a time).
func (f *StringFab) PrependByte(b byte) {
	f.pre = append(f.pre, b)
}

// Len returns the number of bytes so far written (forward + prepended).
func (f *StringFab) Len() int {
	return f.fwd.Len() + len(f.pre)
}

// CloseType controls what Close is allowed to produce.
type CloseType int

const (
	// CloseString requires the result contain no NUL bytes.
	CloseString CloseType = iota
	// CloseAuto allows either a string or a blob result.
	CloseAuto
	// CloseBlob forces a blob result regardless of content.
	CloseBlob
)

// Close flushes the builder into a Datum per typ.
func (f *StringFab) Close(typ CloseType) (Datum, error) {
	// prepended bytes were appended in push order, so they must be
	// reversed to read front-to-back.
	rev := make([]byte, len(f.pre))
	for i, b := range f.pre {
		rev[len(f.pre)-1-i] = b
	}
	full := append(rev, []byte(f.fwd.String())...)

	switch typ {
	case CloseBlob:
		return Blob(full), nil
	case CloseString:
		for _, b := range full {
			if b == 0 {
				return Datum{}, errors.New("string-fab result contains a null byte")
			}
		}
		return String(string(full)), nil
	default: // CloseAuto
		for _, b := range full {
			if b == 0 {
				return Blob(full), nil
			}
		}
		return String(string(full)), nil
	}
}
