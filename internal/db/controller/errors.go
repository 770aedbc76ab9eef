package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrTaken is the field error for a uniqueness violation.
	ErrTaken = errors.New("has already been taken")
	// ErrRequired is the field error for a missing value.
	ErrRequired = errors.New("is required")
	// ErrUnknownReference is the field error for an id that does not exist.
	ErrUnknownReference = errors.New("references a record that does not exist")
	// ErrNegative is the field error for a value below zero.
	ErrNegative = errors.New("must not be negative")
	// ErrTooLarge is the field error for an amount above the column range.
	ErrTooLarge = errors.New("may not be greater than 99999999.99")
	// ErrTooPrecise is the field error for an amount with more than two decimal places.
	ErrTooPrecise = errors.New("may not have more than 2 decimal places")
	// ErrDuplicateEntry is the field error for a repeated list entry.
	ErrDuplicateEntry = errors.New("contains duplicate entries")
	// ErrOutOfRange is the field error for a position below one.
	ErrOutOfRange = errors.New("must be at least 1")

	// ErrCategoryHasChildren blocks the deletion of a category with subcategories.
	ErrCategoryHasChildren = errors.New("cannot delete category with subcategories")
	// ErrRoleAssigned blocks the deletion of a role assigned to users.
	ErrRoleAssigned = errors.New("cannot delete role that is assigned to users")
	// ErrPermissionAssigned blocks the deletion of a permission assigned to roles.
	ErrPermissionAssigned = errors.New("cannot delete permission that is assigned to roles")
	// ErrDeleteSelf blocks users from deleting their own account.
	ErrDeleteSelf = errors.New("cannot delete your own account")
)

// FieldError is a validation failure attached to one input field.
type FieldError struct {
	Field string
	Err   error
}

// NewFieldError returns a *FieldError for field.
func NewFieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a delete that is blocked by dependent records.
type IntegrityError struct {
	Err error
}

// NewIntegrityError returns an *IntegrityError wrapping err.
func NewIntegrityError(err error) error {
	return &IntegrityError{Err: err}
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// AsFieldError returns the *FieldError in err's chain, if any.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}

	return nil, false
}

// AsIntegrityError returns the *IntegrityError in err's chain, if any.
func AsIntegrityError(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie, true
	}

	return nil, false
}
