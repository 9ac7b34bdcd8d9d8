package split

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidGridSpec     = errors.New("invalid grid spec")
	ErrSourceNotFound      = errors.New("source image not found")
	ErrImageDecode         = errors.New("cannot decode image")
	ErrOutputDirUnwritable = errors.New("output directory not writable")
)

// Error describes a failed split operation. Kind is one of the Err*
// sentinels above, Err is the underlying cause (may be nil).
type Error struct {
	Op   string
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Kind != nil {
		msg += ": " + e.Kind.Error()
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return e.Kind != nil && target == e.Kind }

func newError(op string, kind error, path string, err error) *Error {
	return &Error{Op: op, Kind: kind, Path: path, Err: err}
}
