package qris

import (
	"errors"
	"fmt"
)

// Error kinds carried by every failure of the codec.
const (
	KindValidation = "E422"
	KindDefault    = "E400"
)

var (
	// ErrValidation matches any *ValidationError with errors.Is.
	ErrValidation = errors.New("qris: validation failed")
	// ErrDefault matches any *DefaultError with errors.Is.
	ErrDefault = errors.New("qris: operation failed")
)

// ValidationError reports caller input that violates a precondition:
// malformed payload, bad checksum, out of range amount or fee.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", KindValidation, e.Message)
}

// Kind returns KindValidation.
func (e *ValidationError) Kind() string { return KindValidation }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DefaultError reports a failed post-condition or a lower level failure
// (image decoding, fetching a URL) that is not the caller's input.
type DefaultError struct {
	Message string
	Err     error
}

func (e *DefaultError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", KindDefault, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", KindDefault, e.Message)
}

// Kind returns KindDefault.
func (e *DefaultError) Kind() string { return KindDefault }

func (e *DefaultError) Is(target error) bool { return target == ErrDefault }

func (e *DefaultError) Unwrap() error { return e.Err }

func validationf(format string, a ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, a...)}
}

// Errorf returns a *DefaultError with a formatted message wrapping err.
func Errorf(err error, format string, a ...any) error {
	return &DefaultError{Message: fmt.Sprintf(format, a...), Err: err}
}

// KindOf returns the kind of a codec error, or "" for any other error.
func KindOf(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return ""
}
