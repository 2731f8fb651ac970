package errs

import (
	"net/http"
)

// NewStatusError builds an HTTPError whose code is derived from the status text.
func NewStatusError(status int, message string, override bool) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Override: override,
	}
}

// NewForbiddenError creates a 403 Forbidden HTTPError.
//
// code is optional; nil keeps the default "FORBIDDEN".
func NewForbiddenError(message string, override bool, code *string) *HTTPError {
	err := NewStatusError(http.StatusForbidden, message, override)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code, errors and action are optional:
//   - code: custom code (nil keeps "BAD_REQUEST")
//   - errors: field-level errors
//   - action: client instruction
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	err := NewStatusError(http.StatusBadRequest, message, override)
	if code != nil {
		err.Code = *code
	}
	err.Errors = errors
	err.Action = action
	return err
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	err := NewStatusError(http.StatusNotFound, message, override)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError(message string) *HTTPError {
	return NewStatusError(http.StatusTooManyRequests, message, true)
}

// NewInternalServerError creates a generic 500 HTTPError.
//
// The message is always the status text; internal details stay in the logs.
func NewInternalServerError() *HTTPError {
	return NewStatusError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), false)
}
