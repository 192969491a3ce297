package backend

import (
	"errors"
	"fmt"
)

// Operation names carried by IoError
const (
	OpDraw       = "draw"
	OpHideCursor = "hide_cursor"
	OpShowCursor = "show_cursor"
	OpGetCursor  = "get_cursor"
	OpSetCursor  = "set_cursor"
	OpClear      = "clear"
	OpSize       = "size"
	OpFlush      = "flush"
)

// IoError is the single error kind returned by sinks
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *IoError for op
// A nil err stays nil and an existing *IoError is returned as is
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IoError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IoError{Op: op, Err: err}
}
