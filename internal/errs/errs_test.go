package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatusErrorDerivesCode(t *testing.T) {
	err := NewStatusError(http.StatusUnsupportedMediaType, "nope", false)

	assert.Equal(t, "UNSUPPORTED_MEDIA_TYPE", err.Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, err.Status)
	assert.Equal(t, "nope", err.Error())
}

func TestCustomCodes(t *testing.T) {
	code := "COURSE_NOT_FOUND"

	assert.Equal(t, code, NewNotFoundError("Course not found", true, &code).Code)
	assert.Equal(t, "NOT_FOUND", NewNotFoundError("x", false, nil).Code)
	assert.Equal(t, "FORBIDDEN", NewForbiddenError("x", false, nil).Code)

	bad := NewBadRequestError("Validation failed", true, nil, []FieldError{{Field: "id", Error: "is required"}}, nil)
	assert.Equal(t, "BAD_REQUEST", bad.Code)
	assert.Len(t, bad.Errors, 1)
}

func TestInternalServerErrorIsGeneric(t *testing.T) {
	err := NewInternalServerError()

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "Internal Server Error", err.Message)
	assert.False(t, err.Override)
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewTooManyRequestsError("slow down"))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))
	assert.False(t, errors.Is(errors.New("plain"), &HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
}
