// Package controller holds the error types and helpers shared by the persistence controllers
// in its sub packages. Every mutation of a controller runs in one database transaction and
// reports expected failures as *FieldError (tied to an input field) or *IntegrityError
// (a blocked delete).
package controller
