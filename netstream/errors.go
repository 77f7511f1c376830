package netstream

import "fmt"

// ParseError is a recoverable bounded-input or enum-resolution failure:
// a read past the end of a stream, a malformed length prefix, or an
// unrecognized enum id. It carries a short diagnostic, never a stack trace
// — callers decide whether to abort or skip the offending frame.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "netstream: " + e.Msg
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}
