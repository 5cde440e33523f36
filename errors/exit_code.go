package errors

import (
	"github.com/cockroachdb/errors"
)

// exitCoder wraps an error and specifies an exit code.
type exitCoder struct {
	cause error
	code  int
}

func (e *exitCoder) Error() string {
	return e.cause.Error()
}

func (e *exitCoder) Cause() error {
	return e.cause
}

func (e *exitCoder) Unwrap() error {
	return e.cause
}

// ExitCode returns the exit code.
func (e *exitCoder) ExitCode() int {
	return e.code
}

// WithExitCode attaches an exit code to an error.
// The exit code can be retrieved later using GetExitCode.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCoder{
		cause: err,
		code:  code,
	}
}

// GetExitCode extracts the exit code from an error chain.
// Returns 0 if err is nil, the attached exit code if there is one,
// ExitCodeConflict for unmanaged region conflicts, and ExitCodeGeneric otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ec *exitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	switch {
	case errors.Is(err, ErrUnmanagedRegionConflict):
		return ExitCodeConflict
	case errors.Is(err, ErrLoadConfig), errors.Is(err, ErrMissingOption), errors.Is(err, ErrInvalidArgument):
		return ExitCodeUsage
	}

	return ExitCodeGeneric
}
