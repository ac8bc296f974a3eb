package application

import (
	"errors"
	"fmt"

	"github.com/linskybing/rfp-portal/internal/repository"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindConflict        ErrorKind = "conflict"
	KindAuthorization   ErrorKind = "authorization"
	KindNotFound        ErrorKind = "not_found"
	KindUpstream        ErrorKind = "upstream"
)

// Error is returned by every service. Message is safe to show to the caller;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Anything that is not an *Error is treated as an
// upstream failure.
func KindOf(err error) ErrorKind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// MessageOf returns the caller-facing message of err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictError(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func authorizationError(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func upstreamError(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// storeError maps a repository failure: a missing record becomes notFound,
// everything else is an upstream failure.
func storeError(err error, notFound *Error, action string) error {
	if errors.Is(err, repository.ErrNotFound) && notFound != nil {
		return notFound
	}
	return upstreamError("failed to "+action, err)
}

var (
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "invalid email or password"}
	ErrVendorNotFound     = &Error{Kind: KindNotFound, Message: "vendor not found"}
	ErrSubmissionNotFound = &Error{Kind: KindNotFound, Message: "submission not found"}
	ErrNotOwner           = authorizationError("submission does not belong to this vendor")
	ErrAccountNotApproved = authorizationError("account not approved")
	ErrAdminRequired      = authorizationError("admin privileges required")
	ErrInvalidStep        = validationError("step must be one of step2, step3, step4")
)
