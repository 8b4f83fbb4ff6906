package widget

import (
	"errors"
	"fmt"

	"tabfilter/internal/snapshot"
)

var (
	ErrNotTable      = errors.New("not a table element")
	ErrUnknownColumn = errors.New("column has no filter control")
	ErrUnknownOption = errors.New("value is not offered by the filter control")
)

// ResolutionError reports a selector that does not lead to a table.
type ResolutionError struct {
	Selector string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("attach %q: %v", e.Selector, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// MalformedRowError is returned by Attach when a body row is too short.
type MalformedRowError = snapshot.MalformedRowError
