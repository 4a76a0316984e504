package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input fails field constraints.
	ErrValidation = errors.New("invalid input")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("user already exists")
	// ErrInvalidCredentials is returned for unknown email or wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when a mutation is attempted by a non-owner,
	// or when the resource carries no owner reference at all (fail closed).
	ErrForbidden = errors.New("not authorized to modify this resource")
	// ErrUserNotFound is returned when a token subject no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrBlogNotFound is returned when a blog lookup misses.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrCommentNotFound is returned when a comment lookup misses.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrStoreUnavailable is returned when the data store cannot be reached.
	// Distinguished from auth failures so a store outage never reads as a bad token.
	ErrStoreUnavailable = errors.New("service temporarily unavailable")
)

// ErrorResponse is the body of every failure response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Duplicate email is
// surfaced as 400 rather than 409 to preserve the public API contract.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, "Invalid credentials", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrBlogNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BLOG_NOT_FOUND")
	case errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COMMENT_NOT_FOUND")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
