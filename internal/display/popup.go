package display

import (
	"mightemacs/internal/buffer"
	"mightemacs/internal/key"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
)

// KeyReader is the minimal keystroke source Popup pages with.
// *term.Terminal satisfies it.
type KeyReader interface {
	ReadKey() (key.ExtKey, error)
}

// Popup renders buf as a temporary read-only overlay occupying the
// whole screen body, paged by SPC/f (forward page), b (backward
// page), d/u (half page down/up), g/G (top/bottom), ? (help, a no-op
// placeholder), q/ESC (dismiss) -- spec §4.7 "Pop-up display": "the
// bpop helper renders a buffer in a temporary read-only overlay."  Any
// key it does not recognize is returned to the caller to reinject into
// the main key stream ("Any unhandled key is unread into the main key
// stream").
func (d *Display) Popup(r KeyReader, buf *buffer.Buffer) (key.ExtKey, status.Status) {
	store := buf.Store()
	top := store.First()
	bodyRows := d.Back.Rows - 1

	for {
		d.paintPopup(store, top, bodyRows, buf.Name)
		d.moveCursor(0, 0)
		if st := d.flush(); st.IsError() {
			return 0, st
		}

		k, err := r.ReadKey()
		if err != nil {
			return 0, status.New(status.OSError, "display: popup: %v", err)
		}
		if k == key.Ctrl|'[' {
			return 0, status.OK // ESC
		}
		if k != key.ExtKey(k.Code()) {
			return k, status.OK // any modified key is not a paging key
		}
		switch k.Code() {
		case ' ', 'f':
			top = advanceLines(store, top, bodyRows)
		case 'b':
			top = retreatLines(store, top, bodyRows)
		case 'd':
			top = advanceLines(store, top, bodyRows/2)
		case 'u':
			top = retreatLines(store, top, bodyRows/2)
		case 'g':
			top = store.First()
		case 'G':
			top = lastPageTop(store, bodyRows)
		case '?':
			// Help is a placeholder in this overlay; nothing to show.
		case 'q', 0x1b:
			return 0, status.OK
		default:
			return k, status.OK
		}
	}
}

func (d *Display) paintPopup(store *text.Store, top text.LineID, bodyRows int, title string) {
	line := top
	valid := store.Valid(line)
	for row := 0; row < bodyRows; row++ {
		d.paintRow(row, valid, store, line, 0, false)
		if valid {
			line = store.Next(line)
			valid = store.Valid(line)
		}
	}
	d.MsgLine = title + " (SPC/f b d u g G ? q)"
	d.paintMessageLine()
}

func advanceLines(store *text.Store, from text.LineID, n int) text.LineID {
	id := from
	for i := 0; i < n; i++ {
		next := store.Next(id)
		if !store.Valid(next) {
			break
		}
		id = next
	}
	return id
}

func retreatLines(store *text.Store, from text.LineID, n int) text.LineID {
	id := from
	for i := 0; i < n; i++ {
		prev := store.Prev(id)
		if !store.Valid(prev) {
			break
		}
		id = prev
	}
	return id
}

func lastPageTop(store *text.Store, bodyRows int) text.LineID {
	last := store.Last()
	return retreatLines(store, last, bodyRows-1)
}
