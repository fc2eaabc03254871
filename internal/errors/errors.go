package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the given uid or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailConflict is returned when a create violates the email or uid uniqueness constraint.
	ErrEmailConflict = errors.New("user with this email already exists")
	// ErrProvider wraps any failure reported by the identity provider.
	ErrProvider = errors.New("identity provider error")
	// ErrUnauthorized is returned when a bearer token is missing, invalid or expired.
	ErrUnauthorized = errors.New("invalid authentication credentials")
)

// ErrorResponse is the error body returned to clients.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	return e.Detail
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, detail string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Detail:     detail,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Detail: e.Detail}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Provider failures are
// deliberately opaque: whatever the provider said is surfaced as a 400.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailConflict):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProvider):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
