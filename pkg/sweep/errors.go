package sweep

import "fmt"

// ParseError rejects a whole comma-separated batch. Error returns only the
// user-facing message; Token and Index locate the first offending element.
type ParseError struct {
	Msg   string
	Token string
	Index int
}

func (e *ParseError) Error() string { return e.Msg }

// Detail describes the offending token for logs.
func (e *ParseError) Detail() string {
	return fmt.Sprintf("%s (token %d: %q)", e.Msg, e.Index+1, e.Token)
}

// GenerationError is returned when a range or formula cannot produce values.
type GenerationError struct {
	Msg string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *GenerationError) Unwrap() error { return e.Err }
