package tuning

import "fmt"

// ParseError reports a single token that could not be decoded.
type ParseError struct {
	Token string
	// Want names what the token was expected to be ("pitch value", "integer", ...)
	Want string
}

func (e *ParseError) Error() string {
	want := e.Want
	if want == "" {
		want = "pitch value"
	}
	return fmt.Sprintf("could not parse %s: %q", want, e.Token)
}

// FormatError reports a structural problem with a scale or keymap document:
// missing header lines, a bad header field, or a declared count that does not
// match the number of entries.
type FormatError struct {
	Msg  string
	Line int // 1-based source line, 0 when the error is not tied to a line
	Err  error
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
