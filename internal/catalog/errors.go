package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrSelfParent is returned when a category is assigned as its own parent.
	ErrSelfParent = errors.New("a category cannot be its own parent")

	// ErrCyclicParent is returned when a descendant of a category is assigned as its parent.
	ErrCyclicParent = errors.New("a category cannot have its descendant as a parent")

	// ErrParentNotFound is returned when the proposed parent is not part of the tree.
	ErrParentNotFound = errors.New("the selected parent category does not exist")
)

// ParentError describes a rejected parent assignment. It wraps one of the sentinel errors above.
type ParentError struct {
	CategoryID uint
	ParentID   uint
	Err        error
}

// Error implements the error interface.
func (e *ParentError) Error() string {
	return fmt.Sprintf("category %d: parent %d: %v", e.CategoryID, e.ParentID, e.Err)
}

// Unwrap returns the sentinel error.
func (e *ParentError) Unwrap() error {
	return e.Err
}
