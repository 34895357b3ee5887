// Package config parses the CLI entry program's argument line (spec
// §6 "CLI") and reads the handful of environment variables the editor
// depends on.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"

	"mightemacs/internal/status"
)

// ModeEdit is one -D/-G argument: a mode name plus whether it should
// be set or cleared (the "^" prefix).
type ModeEdit struct {
	Name  string
	Clear bool
}

// FileArg is one trailing filespec, with the read-only/read-write mode
// in effect when it was seen (spec: "-R following files open
// read-write", "-r ... read-only").
type FileArg struct {
	Path     string
	ReadOnly bool
}

// GotoSpec is a -g/+<line>[:col] initial-goto request.
type GotoSpec struct {
	Line, Col int
}

// Config is the fully parsed command line.
type Config struct {
	Help    bool // -?, -h: print usage and exit
	Version bool // -V
	NoColor bool // -C: disable color

	ChDir string // -d

	DefaultModes []ModeEdit // -D
	GlobalModes  []ModeEdit // -G

	Goto *GotoSpec // -g or +<line>

	InputDelim string // -i

	NoFirstFile   bool // -N
	NoStartupFile bool // -n

	Statements []string // -e, repeatable

	Script     bool   // -S: treat first filespec as a shebang script
	SearchText string // -s
	ScriptPath string // -X, prepended to script search path

	RunScriptFile string // @script-file

	Files []FileArg

	// Env carries the editor-relevant environment, read once at
	// startup (spec §6 "Environment").
	Env Environment
}

// Environment is the subset of the process environment the editor
// consults.
type Environment struct {
	Term   string
	Home   string
	MMPath string
	Shell  string
}

// ReadEnvironment reads TERM, HOME, MMPATH, and SHELL via
// github.com/xyproto/env/v2, the pack's environment-variable helper
// (spec §6 "Environment").
func ReadEnvironment() Environment {
	return Environment{
		Term:   env.Str("TERM", ""),
		Home:   env.Str("HOME", ""),
		MMPath: env.Str("MMPATH", ""),
		Shell:  env.Str("SHELL", "/bin/sh"),
	}
}

// Parse parses argv (excluding argv[0]) into a Config, following spec
// §6's exact switch set.
func Parse(argv []string) (*Config, status.Status) {
	cfg := &Config{Env: ReadEnvironment()}
	readWrite := false // current -R/-r mode for subsequent filespecs

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "-?" || arg == "-h":
			cfg.Help = true
			return cfg, status.OK
		case arg == "-C":
			cfg.NoColor = true
		case arg == "-V":
			cfg.Version = true
			return cfg, status.OK

		case arg == "-D":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.DefaultModes = append(cfg.DefaultModes, parseModeList(v)...)
		case arg == "-G":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.GlobalModes = append(cfg.GlobalModes, parseModeList(v)...)

		case arg == "-d":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.ChDir = v

		case arg == "-e":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.Statements = append(cfg.Statements, v)

		case arg == "-g" || (len(arg) > 1 && arg[0] == '+'):
			var spec string
			if arg == "-g" {
				v, st := takeValue(argv, &i, arg)
				if st.IsError() {
					return nil, st
				}
				spec = v
			} else {
				spec = arg[1:]
			}
			g, err := parseGoto(spec)
			if err != nil {
				return nil, status.New(status.Failure, "%v", err)
			}
			cfg.Goto = g

		case arg == "-i":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.InputDelim = v

		case arg == "-N":
			cfg.NoFirstFile = true
		case arg == "-n":
			cfg.NoStartupFile = true
		case arg == "-R":
			readWrite = false
		case arg == "-r":
			readWrite = true
		case arg == "-S":
			cfg.Script = true

		case arg == "-s":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.SearchText = v

		case arg == "-X":
			v, st := takeValue(argv, &i, arg)
			if st.IsError() {
				return nil, st
			}
			cfg.ScriptPath = v

		case strings.HasPrefix(arg, "@"):
			cfg.RunScriptFile = arg[1:]

		default:
			cfg.Files = append(cfg.Files, FileArg{Path: arg, ReadOnly: readWrite})
		}
	}
	return cfg, status.OK
}

func takeValue(argv []string, i *int, flag string) (string, status.Status) {
	if *i+1 >= len(argv) {
		return "", status.New(status.Failure, "%s requires an argument", flag)
	}
	*i++
	return argv[*i], status.OK
}

// parseModeList parses a comma-separated "[^]mode,..." list (spec
// §6 "-D", "-G").
func parseModeList(s string) []ModeEdit {
	if s == "" {
		return nil
	}
	var out []ModeEdit
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "^") {
			out = append(out, ModeEdit{Name: part[1:], Clear: true})
		} else {
			out = append(out, ModeEdit{Name: part})
		}
	}
	return out
}

// parseGoto parses "<line>[:col]".
func parseGoto(s string) (*GotoSpec, error) {
	line, col := s, ""
	if i := strings.IndexByte(s, ':'); i >= 0 {
		line, col = s[:i], s[i+1:]
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return nil, fmt.Errorf("invalid goto line %q", line)
	}
	g := &GotoSpec{Line: l}
	if col != "" {
		c, err := strconv.Atoi(col)
		if err != nil {
			return nil, fmt.Errorf("invalid goto column %q", col)
		}
		g.Col = c
	}
	return g, nil
}
