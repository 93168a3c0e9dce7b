package gitlog

import "fmt"

// MalformedCommitHeaderError is returned when a header line does not split into 7 or 8 fields.
type MalformedCommitHeaderError struct {
	Line   string
	Fields int
}

func (e *MalformedCommitHeaderError) Error() string {
	return fmt.Sprintf("malformed commit header with %d fields (expected 7 or 8): %q", e.Fields, e.Line)
}

// MalformedNumstatLineError is returned when a numstat line does not split into 3 tab fields.
type MalformedNumstatLineError struct {
	Commit string
	Line   string
	Fields int
}

func (e *MalformedNumstatLineError) Error() string {
	return fmt.Sprintf("malformed numstat line in commit %s with %d fields (expected 3): %q", e.Commit, e.Fields, e.Line)
}

// MalformedCommitDateError is returned when a header date cannot be parsed.
type MalformedCommitDateError struct {
	Commit string
	Value  string
	Err    error
}

func (e *MalformedCommitDateError) Error() string {
	return fmt.Sprintf("malformed date %q in commit %s: %v", e.Value, e.Commit, e.Err)
}

func (e *MalformedCommitDateError) Unwrap() error {
	return e.Err
}
