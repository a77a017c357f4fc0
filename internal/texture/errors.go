package texture

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat is returned by Load for extensions no decoder handles.
	ErrUnknownFormat = errors.New("unknown texture format")
	// ErrTooLarge is returned by Load when a file or image exceeds its Limits.
	ErrTooLarge = errors.New("texture too large")
)

// DecodeError is the only failure a decode backend reports. Message
// describes the failure without the path.
type DecodeError struct {
	Path    string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("texture: decode %s: %s", e.Path, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AsDecodeError wraps err as a DecodeError for path unless it already is one.
func AsDecodeError(path string, err error) *DecodeError {
	var de *DecodeError
	if errors.As(err, &de) {
		return de
	}
	return &DecodeError{Path: path, Message: err.Error(), Err: err}
}
