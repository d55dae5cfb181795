package auth

import (
	"errors"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrCredentialNotFound is returned when the Authorization header is
	// missing or is not of the form "Bearer <token>".
	ErrCredentialNotFound = errors.New("token not found in request header")
	// ErrInvalidToken is matched by every token verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSigningSecretMissing means the process was started without a signing secret.
	ErrSigningSecretMissing = errors.New("token signing secret is not configured")

	errClaimsIncomplete = errors.New("claims must contain id, sub and exp")
)

// FailureReason classifies why a token was refused.
type FailureReason string

const (
	ReasonInvalidSignature FailureReason = "invalid_signature"
	ReasonMalformed        FailureReason = "malformed_payload"
	ReasonExpired          FailureReason = "expired"
)

// VerificationError is returned by ParseToken. Callers that only need to
// reject can test errors.Is(err, ErrInvalidToken); Reason is kept for logs.
type VerificationError struct {
	Reason FailureReason
	Err    error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("invalid token (%s): %v", e.Reason, e.Err)
}

func (e *VerificationError) Unwrap() []error {
	return []error{ErrInvalidToken, e.Err}
}

func newVerificationError(err error) *VerificationError {
	return &VerificationError{Reason: classify(err), Err: err}
}

// classify maps golang-jwt validation errors onto the three failure kinds.
// The parser checks the signature before the claims, so an expired token
// with a bad signature reports invalid_signature.
func classify(err error) FailureReason {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonMalformed
	}
}

// ReasonOf extracts the failure reason from a verification error. Errors
// that are not verification errors, such as ErrCredentialNotFound, report
// ok=false.
func ReasonOf(err error) (FailureReason, bool) {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Reason, true
	}
	return "", false
}
