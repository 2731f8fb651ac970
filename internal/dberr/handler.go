package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/platform-api/internal/errs"
	"github.com/deppfellow/platform-api/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// entityNames holds singular names for store collections whose name is not
// a plain "<singular>s".
var entityNames = map[string]string{
	"certificateRequests": "certificate_request",
}

// EntityName turns a store collection name into a singular, human readable
// entity name.
//
//	"courses"             -> "Course"
//	"certificateRequests" -> "Certificate Request"
func EntityName(collection string) string {
	if collection == "" {
		return "Document"
	}

	entity, ok := entityNames[collection]
	if !ok {
		entity = collection
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
	}

	return humanizeText(entity)
}

// humanizeText converts snake_case into Title Case.
func humanizeText(text string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// entityCode builds machine codes such as COURSE_NOT_FOUND.
func entityCode(collection, action string) string {
	return errs.MakeUpperCaseWithUnderscores(EntityName(collection)) + "_" + action
}

// HandleError converts a store error into an application-level error.
//
// Output:
//   - *errs.HTTPError: returned unchanged
//   - repository.ErrNotFound: 404 naming the entity
//   - repository.ErrEmptyUpdate: 400
//   - *pgconn.PgError: 400 for payload problems, 500 otherwise
//   - gRPC NotFound / InvalidArgument (Firestore): 404 / 400
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	collection := ""
	var docErr *repository.DocumentError
	if errors.As(err, &docErr) {
		collection = docErr.Collection
	}

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		code := entityCode(collection, "NOT_FOUND")
		return errs.NewNotFoundError(fmt.Sprintf("%s not found", EntityName(collection)), true, &code)

	case errors.Is(err, repository.ErrEmptyUpdate):
		code := "EMPTY_UPDATE"
		return errs.NewBadRequestError("At least one field must be provided", true, &code, nil, nil)
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		dbCode := MapCode(pgerr.Code)
		if !dbCode.IsClientError() {
			return errs.NewInternalServerError()
		}
		code := entityCode(collection, "INVALID")
		return errs.NewBadRequestError(
			fmt.Sprintf("The %s could not be stored as sent", strings.ToLower(EntityName(collection))),
			true, &code, nil, nil,
		)
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			code := entityCode(collection, "NOT_FOUND")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", EntityName(collection)), true, &code)
		case codes.InvalidArgument:
			code := entityCode(collection, "INVALID")
			return errs.NewBadRequestError(
				fmt.Sprintf("The %s could not be stored as sent", strings.ToLower(EntityName(collection))),
				true, &code, nil, nil,
			)
		}
	}

	return errs.NewInternalServerError()
}
