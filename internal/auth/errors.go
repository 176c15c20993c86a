package auth

import "errors"

var (
	// ErrAuthenticationFailed covers both a wrong password and a
	// not-yet-verified account; login reports them identically.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidToken         = errors.New("invalid token")
	// ErrNotAuthenticated is returned when token issuance is attempted
	// for an account that is not active.
	ErrNotAuthenticated = errors.New("this account is not authenticated")
)
