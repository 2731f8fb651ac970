package dberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/platform-api/internal/errs"
	"github.com/deppfellow/platform-api/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleErrorPassesHTTPErrorsThrough(t *testing.T) {
	original := errs.NewForbiddenError("nope", false, nil)

	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorNotFound(t *testing.T) {
	err := &repository.DocumentError{Collection: "certificateRequests", ID: "abc", Err: repository.ErrNotFound}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("update: %w", err)))

	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "CERTIFICATE_REQUEST_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "Certificate Request not found", httpErr.Message)
}

func TestHandleErrorEmptyUpdate(t *testing.T) {
	err := &repository.DocumentError{Collection: "courses", ID: "abc", Err: repository.ErrEmptyUpdate}

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "EMPTY_UPDATE", httpErr.Code)
}

func TestHandleErrorPostgres(t *testing.T) {
	t.Run("payload problem is a bad request", func(t *testing.T) {
		err := &repository.DocumentError{
			Collection: "courses",
			ID:         "abc",
			Err:        &pgconn.PgError{Code: "22P05", Message: "unsupported Unicode escape sequence"},
		}

		httpErr := asHTTPError(t, HandleError(err))

		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Equal(t, "COURSE_INVALID", httpErr.Code)
		assert.NotContains(t, httpErr.Message, "Unicode")
	})

	t.Run("server problem stays generic", func(t *testing.T) {
		err := fmt.Errorf("list: %w", &pgconn.PgError{Code: "42P01", Message: `relation "documents" does not exist`})

		httpErr := asHTTPError(t, HandleError(err))

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), httpErr.Message)
	})
}

func TestHandleErrorGRPC(t *testing.T) {
	notFound := &repository.DocumentError{
		Collection: "announcements",
		ID:         "abc",
		Err:        status.Error(codes.NotFound, "no entity to update"),
	}
	assert.Equal(t, http.StatusNotFound, asHTTPError(t, HandleError(notFound)).Status)

	invalid := fmt.Errorf("create: %w", status.Error(codes.InvalidArgument, "bad value"))
	assert.Equal(t, http.StatusBadRequest, asHTTPError(t, HandleError(invalid)).Status)

	unavailable := status.Error(codes.Unavailable, "connection refused")
	assert.Equal(t, http.StatusInternalServerError, asHTTPError(t, HandleError(unavailable)).Status)
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("dial tcp: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", httpErr.Code)
	assert.NotContains(t, httpErr.Message, "dial")
}

func TestEntityName(t *testing.T) {
	tests := map[string]string{
		"courses":             "Course",
		"announcements":       "Announcement",
		"registrations":       "Registration",
		"certificateRequests": "Certificate Request",
		"":                    "Document",
	}

	for collection, want := range tests {
		assert.Equal(t, want, EntityName(collection), collection)
	}
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.True(t, MapCode("22P02").IsClientError())
	assert.False(t, MapCode("08006").IsClientError())
	assert.Equal(t, Other, MapCode("XX000"))
}
