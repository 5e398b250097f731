package nativefs

import (
	"errors"
	"io/fs"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrExist           = fs.ErrExist
	ErrNotExist        = fs.ErrNotExist
	ErrNotDir          = errors.New("not a directory")
	ErrDirNotEmpty     = errors.New("directory not empty")
	ErrVerifyFailed    = errors.New("copy verification failed")
)

// OpError records a failed facade operation and the path it ran against
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError wraps err with op and path. Returns nil if err is nil
func NewOpError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) && opErr.Path == path {
		return err
	}
	return &OpError{Op: op, Path: path, Err: err}
}
