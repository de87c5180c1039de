package core

import (
	"errors"
	"fmt"
)

// ErrUnparseable is wrapped by ParseError when a value matched no known layout.
var ErrUnparseable = errors.New("unrecognized value")

// ParseError reports a source value that could not be coerced to its column
// type. Row is the 1-based data row within Table (header excluded).
type ParseError struct {
	Table  string
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s.%s row %d: invalid value %q: %v", e.Table, e.Column, e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatError reports a currency-formatted field that still held non-numeric
// characters after symbols and separators were stripped.
type FormatError struct {
	Column  string
	Row     int
	Value   string
	Cleaned string
}

func (e *FormatError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("format %s row %d: %q is not a number after cleaning (%q)", e.Column, e.Row, e.Value, e.Cleaned)
	}
	return fmt.Sprintf("format: %q is not a number after cleaning (%q)", e.Value, e.Cleaned)
}

// JoinIntegrityError is returned in strict mode when a join key matches more
// than one right-side row.
type JoinIntegrityError struct {
	Join    string
	Key     string
	Matches int
}

func (e *JoinIntegrityError) Error() string {
	return fmt.Sprintf("join %s: key %s matched %d rows, expected at most 1", e.Join, e.Key, e.Matches)
}

// SinkError reports a failed sink write. Attempted and Committed let the
// caller decide whether a retry is safe.
type SinkError struct {
	Sink      string
	Target    string
	Attempted int
	Committed int
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s (%s): %d of %d rows committed: %v", e.Sink, e.Target, e.Committed, e.Attempted, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
