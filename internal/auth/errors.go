package auth

import (
	"errors"
	"fmt"
)

var (
	// Authentication errors
	ErrInvalidCredential = errors.New("auth: invalid credentials")
	ErrUnavailable       = errors.New("auth: credential store unavailable")

	// Authorization errors
	ErrForbidden = errors.New("auth: access denied")

	// Registration errors
	ErrConflict = errors.New("auth: username already taken")

	// Startup errors
	ErrConfiguration = errors.New("auth: invalid configuration")
)

// Rejection reasons. They are kept for logs and never shown to callers.
const (
	ReasonMissing       = "missing"
	ReasonMalformed     = "malformed"
	ReasonSignature     = "signature"
	ReasonExpired       = "expired"
	ReasonIssuer        = "issuer"
	ReasonSubject       = "subject"
	ReasonUnknownUser   = "unknown_user"
	ReasonWrongPassword = "wrong_password"
	ReasonNoIdentity    = "no_identity"
)

// RejectionError records why a credential was refused. It matches
// ErrInvalidCredential so every reason collapses to the same kind at the boundary.
type RejectionError struct {
	Reason string
	Cause  error
}

func (e *RejectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth: invalid credentials (%s): %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("auth: invalid credentials (%s)", e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.Cause
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrInvalidCredential
}

func reject(reason string, cause error) error {
	return &RejectionError{Reason: reason, Cause: cause}
}

// RejectionReason extracts the internal reason from a credential error, or "" if err
// is not a rejection.
func RejectionReason(err error) string {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Reason
	}
	return ""
}

// ForbiddenError describes an authenticated identity whose role is not in the set a
// route requires.
type ForbiddenError struct {
	Username string
	Role     string
	Allowed  []string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("auth: access denied: user=%q role=%q allowed=%v", e.Username, e.Role, e.Allowed)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}
