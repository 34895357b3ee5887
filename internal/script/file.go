package script

import (
	"mightemacs/internal/buffer"
	"mightemacs/internal/datum"
	"mightemacs/internal/fileio"
	"mightemacs/internal/session"
	"mightemacs/internal/status"
	"mightemacs/internal/text"
)

// LoadFile inserts name's lines at the start of buf, autodetecting the
// line delimiter (spec §6 "file I/O" external collaborator); existing
// contents are not removed; they follow the inserted text on its last
// line. The buffer's
// Changed flag is cleared afterward: loading isn't an edit.
func LoadFile(buf *buffer.Buffer, name string) status.Status {
	r, err := fileio.OpenRead(name)
	if err != nil {
		return status.New(status.OSError, "%v", err)
	}
	defer r.Close()

	buf.Point = text.Point{Line: buf.Store().First(), Offset: 0}
	first := true
	for {
		line, ok, err := r.GetLine()
		if err != nil {
			return status.New(status.OSError, "%v", err)
		}
		if !ok {
			break
		}
		if !first {
			if st := buf.InsertNewline(); st.IsError() {
				return st
			}
		}
		first = false
		if len(line) > 0 {
			if st := buf.InsertBytes(line); st.IsError() {
				return st
			}
		}
	}
	buf.Filename = name
	buf.Flags.Changed = false
	buf.Flags.Truncated = r.Truncated
	buf.Point = text.Point{Line: buf.Store().First(), Offset: 0}
	return status.OK
}

// SaveFile writes buf's full text to its associated filename, one
// store line per output line (spec §6: "saved files").
func SaveFile(buf *buffer.Buffer) status.Status {
	if buf.Filename == "" {
		return status.New(status.Failure, "buffer %q has no associated file", buf.Name)
	}
	w, err := fileio.OpenWrite(buf.Filename, fileio.DelimNL)
	if err != nil {
		return status.New(status.OSError, "%v", err)
	}
	defer w.Close()

	store := buf.Store()
	for id := store.First(); store.Valid(id); id = store.Next(id) {
		if err := w.PutLine(store.Bytes(id)); err != nil {
			return status.New(status.OSError, "%v", err)
		}
	}
	buf.Flags.Changed = false
	return status.OK
}

// RegisterFileCommands adds the visit-file/save-file pair to cmds,
// kept separate from RegisterBuiltins because they're the only
// commands that reach outside the session into the filesystem.
func RegisterFileCommands(cmds *Table) {
	cmds.Register(&Command{Name: "visitFile", MinArgs: 1, MaxArgs: 1, Fn: cmdVisitFile})
	cmds.Register(&Command{Name: "saveFile", MinArgs: 0, MaxArgs: 0, Fn: cmdSaveFile})
}

func cmdVisitFile(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	path := args[0].Str()
	name := path
	if b, ok := sess.Buffers[name]; ok {
		sess.Current.Current().SetBuffer(b)
		return datum.Nil(), status.OK
	}
	buf, st := sess.CreateBuffer(name)
	if st.IsError() {
		return datum.Nil(), st
	}
	if st := LoadFile(buf, path); st.IsError() {
		sess.DeleteBuffer(name)
		return datum.Nil(), st
	}
	sess.Current.Current().SetBuffer(buf)
	return datum.Nil(), status.OK
}

func cmdSaveFile(sess *session.Session, n int, hasN bool, args []datum.Datum) (datum.Datum, status.Status) {
	_, buf := current(sess)
	return datum.Nil(), SaveFile(buf)
}
