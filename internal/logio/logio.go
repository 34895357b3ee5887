// Package logio writes the editor's non-fatal diagnostics to stderr,
// in the same plain Fprintf style as the teacher's own warnings (e.g.
// tui/screen.go's raw-mode warning) — the session is never daemonized
// and has no log file, so there is nothing structured-logging-shaped
// to build.
package logio

import (
	"fmt"
	"os"
)

// Warn prints a non-fatal warning, matching "Warning: ...".
func Warn(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// Fatal prints a fatal/panic diagnostic to stderr (spec §7:
// "Fatal/Panic statuses are displayed on stderr, after closing the
// terminal cleanly").
func Fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
