// Package errs defines the error taxonomy shared by the sign-in and session flow.
// Components wrap one of these sentinels so callers can classify failures with errors.Is.
package errs

import "errors"

var (
	// ErrConfiguration reports a missing signing secret or trusted audience.
	// It is fatal for the operation that needs the setting and is meant for operators.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidCredential reports an external identity token that failed verification.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrMissingClaim reports a verified external token without a subject or email.
	ErrMissingClaim = errors.New("missing claim")

	// ErrInvalidSession reports a session token that is malformed, tampered with or expired.
	ErrInvalidSession = errors.New("invalid session")
)
