// Package status implements the severity-ranked return status described
// in spec §7: every operation in the core returns one of these instead
// of a bare error, and a session-wide report only ever gets upgraded to
// a more severe status, never downgraded.
package status

import "fmt"

// Code is a severity level. Ordering matters: higher values are more
// severe, and Upgrade refuses to move a Status to a lower Code.
type Code int

const (
	Success Code = iota
	NotFound
	UserAbort
	Failure
	ScriptExit
	UserExit
	HelpExit
	OSError
	FatalError
	Panic
)

func (c Code) String() string {
	switch c {
	case Success:
		return "Success"
	case NotFound:
		return "NotFound"
	case UserAbort:
		return "UserAbort"
	case Failure:
		return "Failure"
	case ScriptExit:
		return "ScriptExit"
	case UserExit:
		return "UserExit"
	case HelpExit:
		return "HelpExit"
	case OSError:
		return "OSError"
	case FatalError:
		return "FatalError"
	case Panic:
		return "Panic"
	}
	return "Unknown"
}

// Status is the (code, message) pair threaded through every call in the
// core, mirroring the source's single session-wide ReturnStatus object.
type Status struct {
	Code Code
	Msg  string
}

// OK is the zero value: Success with no message.
var OK = Status{Code: Success}

// New builds a Status with a formatted message.
func New(c Code, format string, args ...interface{}) Status {
	return Status{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (s Status) Error() string {
	if s.Msg == "" {
		return s.Code.String()
	}
	return s.Msg
}

// IsError reports whether s is at or above Failure, i.e. the operation
// did not complete normally. NotFound and UserAbort are control-flow
// signals, not errors (§7).
func (s Status) IsError() bool {
	return s.Code >= Failure
}

// Upgrade returns the more severe of s and next, by Code. Ties keep s
// (the earlier status wins so the first failure's message is preserved).
func (s Status) Upgrade(next Status) Status {
	if next.Code > s.Code {
		return next
	}
	return s
}
