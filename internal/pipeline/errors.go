package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors used to map a run outcome to an exit code. Fatal conditions
// abort before any output is written; a failed validation leaves no outputs
// either but signals a different exit status so callers can distinguish bad
// input from an undersized dataset.
var (
	ErrFatal            = errors.New("fatal")
	ErrValidationFailed = errors.New("validation failed")
)

func fatalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFatal, fmt.Sprintf(format, args...))
}

func fatalErr(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFatal, operation, err)
}
