package services

import "errors"

// Sentinel errors shared by all services. Handlers map them to HTTP statuses
// with errors.Is; services wrap them via fmt.Errorf("%w: ...") to add detail.
var (
	// ErrValidation marks bad or missing input (HTTP 400).
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials marks a failed login attempt (HTTP 401). Kept
	// generic so the response never reveals whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken marks a malformed or badly signed token (HTTP 401).
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired marks a token past its expiry (HTTP 401).
	ErrTokenExpired = errors.New("token expired")
	// ErrForbidden marks an authenticated caller with the wrong role or not
	// owning the target resource (HTTP 403).
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a missing referenced entity (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness clash such as a duplicate email (HTTP 409).
	ErrConflict = errors.New("conflict")
)
