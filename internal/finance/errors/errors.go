package errors

import (
	"errors"
	"fmt"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

var (
	ErrCategoryNameRequired    = NewValidationError("Category name must not be empty")
	ErrCategoryNameTooLong     = NewValidationError("Category name must be at most 255 characters")
	ErrNegativeOriginalValue   = NewValidationError("Original value must not be negative")
	ErrNonPositiveAmount       = NewValidationError("Amount spent must be greater than zero")
	ErrAmountOutOfRange        = NewValidationError("Amount spent must have at most 15 integer digits and 8 decimal places")
	ErrOriginalValueOutOfRange = NewValidationError("Original value must have at most 15 integer digits and 8 decimal places")
	ErrDescriptionRequired     = NewValidationError("Description must not be empty")
	ErrDescriptionTooLong      = NewValidationError("Description must be at most 200 characters")
	ErrInvalidTransactionDate  = NewValidationError("Date must be in YYYY-MM-DD format")
	ErrUserIDRequired          = NewValidationError("User ID must not be empty")
	ErrCategoryNameMissingPath = NewValidationError("Category name missing")
)

// NotFoundError reports a (user, category) pair with no stored row.
type NotFoundError struct {
	Category string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Budget category '%s' not found for user.", e.Category)
}

func NewNotFoundError(category string) error {
	return &NotFoundError{Category: category}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// StorageError wraps an unexpected failure of the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var storageError *StorageError
	return errors.As(err, &storageError)
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

// Err returns nil when nothing was collected.
func (ve *ValidationErrors) Err() error {
	switch len(ve.Errors) {
	case 0:
		return nil
	case 1:
		return ve.Errors[0]
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	ok := errors.As(err, &validationErrors)
	return ok
}
