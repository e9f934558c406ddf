package tokenstore

import (
	"errors"
	"fmt"
)

// ErrStorage matches every *StorageError via errors.Is.
var ErrStorage = errors.New("token storage failure")

// ErrEmptyToken is returned by Write for an empty token.
var ErrEmptyToken = errors.New("token cannot be empty")

// StorageError reports a failed read or write of the persisted token.
type StorageError struct {
	Op  string // load, save, delete, open
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("token storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets callers test errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
