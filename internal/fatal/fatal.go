package fatal

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a terminal failure shown to the operator.
type Kind string

const (
	KindUsage           Kind = "usage"
	KindNotFound        Kind = "not_found"
	KindAmbiguous       Kind = "ambiguous"
	KindInvalidArgument Kind = "invalid_argument"
	KindMissingArgument Kind = "missing_argument"
	KindConfig          Kind = "config"
	KindIO              Kind = "io"
)

// Error is a classified, user-facing failure.
// Params: kind, one-line message, optional detail lines, wrapped cause.
// Returns: error printed verbatim by the CLI before exit.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

// Error returns the message followed by indented detail lines.
// Params: none.
// Returns: multi-line string representation.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if len(e.Details) == 0 {
		return msg
	}
	return msg + "\n" + strings.Join(e.Details, "\n")
}

// Unwrap exposes wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a classified failure.
// Params: kind and printf-style message.
// Returns: *Error without cause.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an existing error.
// Params: kind, source error, message prefix.
// Returns: *Error or nil when err is nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetails appends detail lines (for example the list of valid choices).
func (e *Error) WithDetails(lines ...string) *Error {
	e.Details = append(e.Details, lines...)
	return e
}

// KindOf reports the classification of err.
// Params: candidate error.
// Returns: kind and true when a classified error is in the chain.
func KindOf(err error) (Kind, bool) {
	var tagged *Error
	if !errors.As(err, &tagged) {
		return "", false
	}
	return tagged.Kind, true
}

// ExitCode maps an error to the process exit status.
// Params: run error, nil on success.
// Returns: 0 for nil, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
