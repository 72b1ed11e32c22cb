package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)

// AuthReason classifies authentication failures. Every failure in the
// session layer carries exactly one reason; commands surface it to
// stderr and exit non-zero without retrying.
type AuthReason string

const (
	// AuthNotLoggedIn indicates no login was performed and no manual
	// token is present in the environment.
	AuthNotLoggedIn AuthReason = "not logged in"

	// AuthInvalidCredentials indicates the identity endpoint rejected
	// the supplied client id/secret/tenant.
	AuthInvalidCredentials AuthReason = "invalid credentials"

	// AuthNetworkFailure indicates the token exchange could not reach
	// the identity endpoint.
	AuthNetworkFailure AuthReason = "network failure"

	// AuthNoInteractiveSession indicates no ambient Azure CLI session
	// is available to acquire a token from.
	AuthNoInteractiveSession AuthReason = "no interactive session"

	// AuthManualTokenInvalid indicates the environment-supplied token
	// is present but unusable.
	AuthManualTokenInvalid AuthReason = "manual token invalid"
)

// AuthError is an authentication failure with a classified reason.
// The session layer never swallows or retries these; they propagate
// unmodified to the CLI boundary.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError wraps err with an authentication reason. err may be nil.
func NewAuthError(reason AuthReason, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

// AuthReasonOf extracts the reason from an error chain. Returns the
// empty string when the error is not an AuthError.
func AuthReasonOf(err error) AuthReason {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	return ""
}

// IsNotLoggedIn checks if the error indicates no active session.
func IsNotLoggedIn(err error) bool {
	return AuthReasonOf(err) == AuthNotLoggedIn
}

// IsInvalidCredentials checks if the error indicates rejected credentials.
func IsInvalidCredentials(err error) bool {
	return AuthReasonOf(err) == AuthInvalidCredentials
}

// IsNetworkFailure checks if the error indicates an unreachable identity endpoint.
func IsNetworkFailure(err error) bool {
	return AuthReasonOf(err) == AuthNetworkFailure
}

// IsNoInteractiveSession checks if the error indicates a missing Azure CLI session.
func IsNoInteractiveSession(err error) bool {
	return AuthReasonOf(err) == AuthNoInteractiveSession
}
