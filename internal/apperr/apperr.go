package apperr

import "fmt"

// Error codes
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
)

// Error is an application error carrying an error code and HTTP status.
type Error struct {
	Code    string // machine-readable code (e.g. "NOT_FOUND")
	Message string // human-readable message
	Status  int    // HTTP status code
	Err     error  // wrapped underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound creates a NOT_FOUND error.
func NotFound(resource string, id any) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// Validation creates a VALIDATION_ERROR.
func Validation(field, reason string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  422,
	}
}

// Unauthorized creates an UNAUTHORIZED error. Writes attempted without a
// signed-in user are rejected with this before the store is touched.
func Unauthorized(message string) *Error {
	return &Error{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

// Internal wraps an unexpected error as INTERNAL_ERROR.
func Internal(err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// BadRequest creates a BAD_REQUEST error.
func BadRequest(message string) *Error {
	return &Error{
		Code:    CodeBadRequest,
		Message: message,
		Status:  400,
	}
}
