package importer

import (
	"errors"
	"fmt"
)

// ErrDuplicateDomain is returned for a file whose domain was already
// handled earlier in the same run.
var ErrDuplicateDomain = errors.New("already processed in this run")

// ReadError is returned when a zone file cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read failed: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ImportError is returned when the provider rejects a zone or cannot be
// reached. The zone file stays in the input directory.
type ImportError struct {
	Domain string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import failed: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// MoveError is returned when a zone was imported but its file could not be
// moved to the processed directory.
type MoveError struct {
	From, To string
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("moving %s to %s: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
