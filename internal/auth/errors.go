package auth

import "errors"

var (
	// ErrUserNotFound is returned when a principal cannot be found in the database.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when the email or password is not valid.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
