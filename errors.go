package enrollment

import (
	"net/http"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeDuplicateEmail = "DUPLICATE_EMAIL"
	TextCodeForbidden      = "FORBIDDEN"
	TextCodeUnauthorized   = "UNAUTHORIZED"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password
var ErrInvalidCredentials = errors.New("Invalid credentials", errors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(errors.TextCodeInvalidCredentials)

// ErrAccountDeactivated is returned for students with IsActive set to false
var ErrAccountDeactivated = errors.New("Account is deactivated", errors.CategoryAuth).
	WithCode(http.StatusForbidden).
	WithTextCode(errors.TextCodeAccountDisabled)

// ErrDuplicateEmail is returned when registering an email already in use
var ErrDuplicateEmail = errors.New("Email already registered", errors.CategoryConflict).
	WithCode(http.StatusBadRequest).
	WithTextCode(TextCodeDuplicateEmail)

// ErrUnauthorized is returned when a request carries no usable token
var ErrUnauthorized = errors.New("Authentication required", errors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(TextCodeUnauthorized)

// ErrForbidden is returned when the token role or subject does not grant access
var ErrForbidden = errors.New("Access denied", errors.CategoryAuthz).
	WithCode(http.StatusForbidden).
	WithTextCode(TextCodeForbidden)

// ErrTokenExpired is returned for tokens at or past their expiry
var ErrTokenExpired = errors.New("Token has expired", errors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(errors.TextCodeTokenExpired)

// ErrTokenInvalid is returned for tokens with a bad signature or structure
var ErrTokenInvalid = errors.New("Invalid token", errors.CategoryAuth).
	WithCode(http.StatusUnauthorized).
	WithTextCode(errors.TextCodeTokenMalformed)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(http.StatusBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == errors.TextCodeTokenExpired
	}
	return false
}

// IsAuthError reports whether err should be answered with 401 or 403
func IsAuthError(err error) bool {
	return errors.IsAuth(err) || errors.IsCategory(err, errors.CategoryAuthz)
}
