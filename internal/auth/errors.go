package auth

import (
	"errors"
	"fmt"

	"pastebin/internal/store"
)

// ErrUnauthenticated is wrapped by every credential or token failure, so
// callers can treat the whole family alike with errors.Is.
var ErrUnauthenticated = errors.New("unauthenticated")

var (
	ErrMissing            = fmt.Errorf("%w: missing token", ErrUnauthenticated)
	ErrMalformed          = fmt.Errorf("%w: malformed token", ErrUnauthenticated)
	ErrExpired            = fmt.Errorf("%w: token expired", ErrUnauthenticated)
	ErrSignatureInvalid   = fmt.Errorf("%w: invalid token signature", ErrUnauthenticated)
	ErrUnknownSubject     = fmt.Errorf("%w: token subject no longer exists", ErrUnauthenticated)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", ErrUnauthenticated)
)

var (
	ErrRegistrationDisabled = errors.New("registration is disabled")
	ErrUsernameTaken        = fmt.Errorf("username already exists: %w", store.ErrConflict)
	ErrInvalidUsername      = errors.New("username must be 3-30 characters (letters, numbers, _, -)")
	ErrInvalidPassword      = errors.New("password must be 1-72 bytes")
)
