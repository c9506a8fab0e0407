package domain

import "errors"

// Authentication and authorization failures. All are terminal for the request.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoToken            = errors.New("missing authorization header")
	ErrMalformedHeader    = errors.New("malformed authorization header")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// IsTokenFailure reports whether err is one of the failures rendered as a generic 401.
func IsTokenFailure(err error) bool {
	return errors.Is(err, ErrNoToken) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenInvalid)
}

var (
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrIdentityExists       = errors.New("identity already exists")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("access forbidden")
	ErrPetNotFound          = errors.New("pet not found")
	ErrVaccineNotFound      = errors.New("vaccine not found")
	ErrConsultationNotFound = errors.New("consultation not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrPrescriptionClosed   = errors.New("prescription already completed")
)
