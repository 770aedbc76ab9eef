package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")
)

// MsgInvalidCredentials is shown for an unknown email or a wrong password.
const MsgInvalidCredentials = "These credentials do not match our records."
