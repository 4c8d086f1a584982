package legacy

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned by a second Close of a Store. Nothing is released twice.
	ErrClosed = errors.New("legacy store already closed")
	// ErrTrailerTooLong is returned when a store file is shorter than the trailer written into it.
	ErrTrailerTooLong = errors.New("trailer longer than store file")
	// ErrTargetIsSource is returned when a copy would overwrite the legacy store it reads from.
	ErrTargetIsSource = errors.New("copy target is the source store")
)

// IOError is the single unrecoverable error category of this package. It
// does not tell corrupt legacy data from a failing disk.
//
// A copy that fails with an IOError leaves its target in an undefined state.
// Nothing is rolled back: discard the whole target and start again.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsUnrecoverable reports whether err, or any error it wraps, is an IOError.
func IsUnrecoverable(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

func ioError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
