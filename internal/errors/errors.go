package errors

import (
	"errors"
	"net/http"
)

// Sentinel errors of the credential workflow. The messages double as the
// response bodies of the original API, so they are not reworded here.
var (
	// ErrEmailInUse is returned when signing up with an already registered email.
	ErrEmailInUse = errors.New("Email already in use")
	// ErrUserNotFound is returned when no record matches the email or id.
	ErrUserNotFound = errors.New("User not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrMissingToken is returned for an absent or malformed Authorization header.
	ErrMissingToken = errors.New("Missing or invalid token")
	// ErrInvalidToken is returned when token verification fails.
	ErrInvalidToken = errors.New("Invalid token")
)

// ErrorResponse is the error body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HTTPError pairs a status code with the response body for a failed request.
type HTTPError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Response converts the error to its JSON body.
func (e *HTTPError) Response() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Details: e.Details,
	}
}

// tokenError marks a failed token verification while keeping the verifier's
// message for the response details.
type tokenError struct {
	cause error
}

func (e *tokenError) Error() string {
	return ErrInvalidToken.Error() + ": " + e.cause.Error()
}

func (e *tokenError) Is(target error) bool {
	return target == ErrInvalidToken
}

func (e *tokenError) Unwrap() error {
	return e.cause
}

// TokenInvalid wraps a token verification failure.
func TokenInvalid(cause error) error {
	return &tokenError{cause: cause}
}

// MapToHTTP maps a workflow error to status code and body. fallback names the
// failed operation and becomes the message of any unrecognized (infrastructure)
// error, with the underlying text in details.
func MapToHTTP(err error, fallback string) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailInUse):
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: ErrEmailInUse.Error()}
	case errors.Is(err, ErrUserNotFound):
		return &HTTPError{StatusCode: http.StatusNotFound, Message: ErrUserNotFound.Error()}
	case errors.Is(err, ErrInvalidCredentials):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: ErrInvalidCredentials.Error()}
	case errors.Is(err, ErrMissingToken):
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: ErrMissingToken.Error()}
	case errors.Is(err, ErrInvalidToken):
		details := ""
		if cause := errors.Unwrap(err); cause != nil {
			details = cause.Error()
		}
		return &HTTPError{StatusCode: http.StatusUnauthorized, Message: ErrInvalidToken.Error(), Details: details}
	default:
		return &HTTPError{StatusCode: http.StatusInternalServerError, Message: fallback, Details: err.Error()}
	}
}
