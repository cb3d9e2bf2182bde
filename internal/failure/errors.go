package failure

import (
	"errors"
	"strings"
)

// Class markers. Every error that reaches the CLI is tagged with exactly one
// of these so the exit path can decide how to report it.
var (
	ErrUsage         = errors.New("usage error")
	ErrConfiguration = errors.New("configuration error")
	ErrResource      = errors.New("resource error")
	ErrAcquisition   = errors.New("build acquisition error")
	ErrInspection    = errors.New("inspection failure")
	ErrFormat        = errors.New("output format error")
)

// Error carries a class marker plus the component and operation that failed.
// Its text is the human message only; component and operation are kept for
// structured logging.
type Error struct {
	Class     error
	Component string
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Message)
	switch {
	case msg == "" && e.Err == nil:
		return buildDetail(e.Component, e.Operation, e.Class.Error())
	case msg == "":
		return e.Err.Error()
	case e.Err == nil:
		return msg
	default:
		return msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

// Wrap tags err with marker and records where it happened. An empty message
// reuses the text of err. A nil marker defaults to ErrResource.
func Wrap(marker error, component, operation, message string, err error) error {
	if marker == nil {
		marker = ErrResource
	}
	return &Error{
		Class:     marker,
		Component: strings.TrimSpace(component),
		Operation: strings.TrimSpace(operation),
		Message:   message,
		Err:       err,
	}
}

// Detail returns "component: operation" for err, or "" when err was not
// produced by Wrap.
func Detail(err error) string {
	var fe *Error
	if !errors.As(err, &fe) {
		return ""
	}
	return buildDetail(fe.Component, fe.Operation, "")
}

// NeedsHint reports whether the CLI should point the user at --help.
func NeedsHint(err error) bool {
	return errors.Is(err, ErrUsage)
}

// ExitCode maps err onto the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{component, operation, message} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ": ")
}
