package models

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("not logged in")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSlotNotOwned       = errors.New("slot not found or not yours")
	ErrSlotUnavailable    = errors.New("slot is no longer available")
)

// ValidationError is bad client input; Field names the offending field
// when it is known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError is a persistence failure. Its detail is for logs only.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func StoreFailure(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// DuplicateError reports a unique index violation on an identity field.
type DuplicateError struct {
	Field IdentityField
}

func (e *DuplicateError) Error() string {
	return string(e.Field) + " already exists"
}
