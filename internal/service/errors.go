package service

import (
	"errors"
	"fmt"
)

var (
	ErrContactExists = errors.New("contact with the same name and phone already exists")
	ErrBrandExists   = errors.New("brand already exists")
)

// ValidationError: input ditolak sebelum ada write apa pun.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

type TransactionCreateFailedError struct {
	Err error
}

func (e *TransactionCreateFailedError) Error() string {
	return "Failed to create transaction: " + e.Err.Error()
}

func (e *TransactionCreateFailedError) Unwrap() error { return e.Err }

type TransactionUpdateFailedError struct {
	Err error
}

func (e *TransactionUpdateFailedError) Error() string {
	return "Failed to update transaction: " + e.Err.Error()
}

func (e *TransactionUpdateFailedError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
