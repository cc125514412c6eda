package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when a PIN does not match any profile.
	ErrInvalidCredentials = errors.New("invalid PIN")
	// ErrRemoteUnavailable is returned when the remote data gateway cannot be reached.
	ErrRemoteUnavailable = errors.New("remote backend unavailable")
	// ErrLastProfile is returned when deleting the last remaining profile.
	ErrLastProfile = errors.New("cannot delete the last profile")
	// ErrProfileNotFound is returned when a profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrJobNotFound is returned when a job does not exist for the given owner.
	ErrJobNotFound = errors.New("job not found")
	// ErrPINTaken is returned when another profile already uses the PIN.
	ErrPINTaken = errors.New("PIN already in use")
	// ErrFileTooLarge is returned when an attachment exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrFileNameTooLong is returned when an attachment name exceeds the limit.
	ErrFileNameTooLong = errors.New("file name too long")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrLastProfile):
		return NewHTTPError(http.StatusConflict, err.Error(), "LAST_PROFILE")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrJobNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "JOB_NOT_FOUND")
	case errors.Is(err, ErrPINTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "PIN_TAKEN")
	case errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusRequestEntityTooLarge, err.Error(), "FILE_TOO_LARGE")
	case errors.Is(err, ErrFileNameTooLong):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "FILE_NAME_TOO_LONG")
	case errors.Is(err, ErrRemoteUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "REMOTE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
