package service

import "fmt"

// ValidationError is fatal to a settlement request, not to the process:
// the computation aborts before any transactions are produced.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
