package object

import (
	"errors"
	"fmt"
)

var (
	ErrObjectNotFound  = errors.New("object not found")
	ErrTypeMismatch    = errors.New("object type mismatch")
	ErrMalformedCommit = errors.New("malformed commit")
	ErrMalformedTree   = errors.New("malformed tree")

	// ErrIO marks failures of the underlying filesystem. It is joined with
	// the original error so both remain matchable with errors.Is.
	ErrIO = errors.New("i/o failure")
)

// TypeMismatchError is returned when an object is read with an expected type
// that differs from the stored one.
type TypeMismatchError struct {
	Hash Hash
	Got  ObjectType
	Want ObjectType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("object %s: type mismatch: got %q, want %q", e.Hash, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// ioError tags a filesystem failure with ErrIO while keeping the original
// error (and its os.ErrNotExist-style sentinels) in the chain.
type ioError struct {
	op  string
	err error
}

func (e *ioError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *ioError) Unwrap() []error {
	return []error{ErrIO, e.err}
}

// IOError wraps err so that errors.Is(result, ErrIO) holds. A nil err
// yields nil.
func IOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ioError{op: op, err: err}
}
