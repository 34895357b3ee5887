package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mightemacs/internal/buffer"
	"mightemacs/internal/config"
	"mightemacs/internal/datum"
	"mightemacs/internal/display"
	"mightemacs/internal/key"
	"mightemacs/internal/mode"
	"mightemacs/internal/script"
	"mightemacs/internal/session"
	"mightemacs/internal/status"
	"mightemacs/internal/term"
)

const usage = `usage: mightemacs [switches] [file ...]
  -?, -h              print this help and exit
  -V                  print the version and exit
  -C                  disable color
  -d dir              change to dir before editing
  -D modes            set/clear (^) default buffer modes
  -G modes            set/clear (^) global modes
  -e stmt             run a script statement before the first redisplay
  -g spec | +line     go to line[:col] in the first file
  -i delim            input line delimiter override
  -N                  don't read the first file
  -n                  don't read a startup file
  -R, -r              following files are read-write / read-only
  -S                  treat the first filespec as a shebang script
  -s text             initial search text
  -X path             prepend path to the script search path
  @scriptfile         run scriptfile, then enter the editor unless it exits
-C, -g, +line, -i, -S, -s and -X are parsed and otherwise ignored.`

func main() {
	cfg, st := config.Parse(os.Args[1:])
	if st.IsError() {
		fmt.Fprintln(os.Stderr, st.Error())
		os.Exit(1)
	}
	if cfg.Help {
		fmt.Println(usage)
		return
	}
	if cfg.Version {
		fmt.Println("mightemacs 1.0")
		return
	}
	if cfg.ChDir != "" {
		if err := os.Chdir(cfg.ChDir); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	cmds := script.NewTable()
	script.RegisterBuiltins(cmds)
	script.RegisterFileCommands(cmds)

	t, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer t.Close()
	signals := term.WatchSignals()
	defer signals.Stop()

	rows, cols, err := t.Size()
	if err != nil || rows < 2 || cols < 1 {
		rows, cols = 24, 80
	}

	sess := session.New(rows-1, cols)
	sess.Modes.Hook = func(bufName string, oldModes []string) {}
	mode.RegisterDefaults(sess.Modes)
	key.DefaultBindings(sess.Keys)

	for _, m := range cfg.GlobalModes {
		action := mode.Set
		if m.Clear {
			action = mode.Clear
		}
		sess.Modes.Change(m.Name, action, nil)
	}

	disp := display.New(t, rows, cols)

	loadInitialFiles(sess, cfg)
	for _, m := range cfg.DefaultModes {
		action := mode.Set
		if m.Clear {
			action = mode.Clear
		}
		sess.Modes.Change(m.Name, action, sess.Current.Current().Buf.Modes)
	}

	sc := script.NewScope()
	abortPressed := false
	runStatement := func(src string) status.Status {
		ip, err := script.NewInterp(src, sc, cmds, sess)
		if err != nil {
			return status.New(status.Failure, "%v", err)
		}
		ip.UserAbort = func() bool { return abortPressed }
		return ip.Run()
	}

	for _, stmt := range cfg.Statements {
		if st := runStatement(stmt); st.IsError() {
			sess.SetStatus(st)
		}
	}

	if cfg.RunScriptFile != "" {
		src, err := os.ReadFile(cfg.RunScriptFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		st := runStatement(string(src))
		if st.Code == status.ScriptExit || st.Code == status.UserExit {
			return
		}
		if st.IsError() {
			fmt.Fprintln(os.Stderr, st.Error())
			os.Exit(1)
		}
	}

	runDispatchLoop(sess, cmds, t, disp, signals, &abortPressed)
}

// loadInitialFiles opens every trailing filespec into its own buffer
// (spec §6 CLI: filespecs are opened read-write unless -R/-r changed
// the mode in effect), making the first one current. With -N the first
// file's buffer is created and named after it, but the file is not read.
func loadInitialFiles(sess *session.Session, cfg *config.Config) {
	first := true
	for _, fa := range cfg.Files {
		name := filepath.Base(fa.Path)
		buf, st := sess.CreateBuffer(name)
		if st.IsError() {
			continue
		}
		if first && cfg.NoFirstFile {
			buf.Filename = fa.Path
		} else if st := script.LoadFile(buf, fa.Path); st.IsError() {
			continue
		}
		buf.Flags.ReadOnly = fa.ReadOnly
		if first {
			sess.Current.Current().SetBuffer(buf)
			first = false
		}
	}
}

// runDispatchLoop is the single cooperative loop spec §5/§9 describes:
// read one keystroke (the only unconditional block), resolve it
// through the numeric-argument DFA, macro recorder, and binding table,
// run the resolved command, then redisplay. SIGWINCH/SIGTSTP are
// polled here, never pre-empting a command in progress.
func runDispatchLoop(sess *session.Session, cmds *script.Table, t *term.Terminal, disp *display.Display, signals *term.SignalFlags, abortPressed *bool) {
	var numArg key.NumArg

	for {
		sess.ClearStatus()

		if signals.TakeResized() {
			if rows, cols, err := t.Size(); err == nil && rows >= 2 && cols >= 1 {
				disp.Resize(sess, rows, cols)
			}
		}

		if st := disp.Redisplay(sess); st.IsError() {
			sess.SetStatus(st)
		}

		k, err := t.ReadKey()
		if err != nil {
			return
		}

		if k == (key.Ctrl | 'G') {
			*abortPressed = true
			numArg.Reset()
			sess.Macro.AbortRecord()
			sess.SetStatus(status.New(status.UserAbort, ""))
			continue
		}
		*abortPressed = false

		if class, digit, isNumArg := classifyNumArg(k); numArg.Active() || isNumArg {
			if numArg.Feed(class, digit) {
				continue
			}
		}
		n, hasN := numArg.Resolved(), numArg.Active()
		numArg.Reset()

		if sess.Macro.State == key.MacroRecording {
			sess.Macro.Record(k)
		}

		if st := dispatchKey(sess, cmds, k, n, hasN); st.Code == status.UserExit {
			return
		} else {
			sess.SetStatus(st)
		}
	}
}

// classifyNumArg reports how k looks to the numeric-argument DFA:
// C-u is the universal-argument key, a bare '-' is the sign, and
// digits 0-9 feed the accumulator (spec §4.5's numeric-argument
// reading loop).
func classifyNumArg(k key.ExtKey) (key.TokenClass, int, bool) {
	if k == (key.Ctrl | 'U') {
		return key.TokenUniversal, 0, true
	}
	if k == key.ExtKey('-') {
		return key.TokenMinus, 0, true
	}
	if c := k.Code(); k&(key.Ctrl|key.Meta|key.FKey) == 0 && c >= '0' && c <= '9' {
		return key.TokenDigit, int(c - '0'), true
	}
	return key.TokenOther, 0, false
}

// dispatchKey resolves k through the binding table and runs whatever
// it names, self-inserting unbound printable keys (spec §4.5: "if
// unbound and printable: self-insert").
func dispatchKey(sess *session.Session, cmds *script.Table, k key.ExtKey, n int, hasN bool) status.Status {
	if target, ok := sess.Keys.Lookup(k); ok {
		switch target.Kind {
		case key.TargetCommand:
			_, st := cmds.Call(sess, target.CommandName, n, hasN, nil)
			return st
		case key.TargetBuffer:
			buf, ok := sess.Buffers[target.BufferName]
			if !ok {
				return status.New(status.Failure, "no such buffer %q", target.BufferName)
			}
			sc := script.NewScope()
			ip, err := script.NewInterp(bufferText(buf), sc, cmds, sess)
			if err != nil {
				return status.New(status.Failure, "%v", err)
			}
			return ip.Run()
		}
	}

	c := k.Code()
	if k&(key.Ctrl|key.Meta|key.FKey) == 0 && c >= 0x20 && c < 0x7f {
		_, st := cmds.Call(sess, "selfInsert", n, hasN, []datum.Datum{datum.String(string(rune(c)))})
		return st
	}
	return status.OK
}

// bufferText joins every line of buf with '\n', reconstructing the
// source text of an executable "@"-prefixed command/function buffer
// (spec §3: the buffer's Line list never stores the delimiters).
func bufferText(buf *buffer.Buffer) string {
	store := buf.Store()
	last := store.Last()
	var b strings.Builder
	for id := store.First(); store.Valid(id); id = store.Next(id) {
		b.Write(store.Bytes(id))
		if id != last {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
