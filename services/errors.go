package services

import "errors"

// ErrAuthenticationRequired is returned when an operation needs a signed-in
// user and none was supplied.
var ErrAuthenticationRequired = errors.New("authentication required")

// ValidationError marks bad input from the caller, rendered as HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(msg string) error { return &ValidationError{Msg: msg} }

// AuthorizationError marks a signed-in user acting on someone else's
// resource, rendered as HTTP 403.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

func forbiddenf(msg string) error { return &AuthorizationError{Msg: msg} }

// NotFoundError marks a missing or invisible resource, rendered as HTTP 404.
// Soft-deleted rows and other users' drafts surface this too, so callers
// cannot probe for their existence.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func notFoundf(msg string) error { return &NotFoundError{Msg: msg} }
