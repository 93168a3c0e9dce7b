package cloc

import (
	"errors"
	"fmt"
)

// ErrNoSumRow is returned when a cloc report has no trailing SUM row.
var ErrNoSumRow = errors.New("no SUM row found in cloc table")

// DuplicateEntryError is returned when a filename appears twice in one table.
type DuplicateEntryError struct {
	Filename string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate cloc entry for %q", e.Filename)
}

// EmptyFilenameError is returned for a data row whose filename column is blank.
type EmptyFilenameError struct {
	Row int
}

func (e *EmptyFilenameError) Error() string {
	return fmt.Sprintf("empty filename in cloc row %d", e.Row)
}

// MalformedRowError is returned for a data row that is not language,filename,blank,comment,code.
type MalformedRowError struct {
	Row  int
	Line string
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed cloc row %d %q: %v", e.Row, e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}
