package model

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrNotAnObject is returned when a document body is valid JSON but not an object.
var ErrNotAnObject = errors.New("request body must be a JSON object")

// DocumentBody decodes a raw JSON object into Fields. Any shape is
// accepted as long as the top level is an object.
type DocumentBody struct {
	Fields Fields
}

// UnmarshalJSON accepts exactly one JSON object; null stays empty.
func (b *DocumentBody) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		b.Fields = Fields{}
	case map[string]any:
		b.Fields = Fields(v)
	default:
		return ErrNotAnObject
	}
	return nil
}

// ListDocumentsRequest carries nothing: list has no parameters.
type ListDocumentsRequest struct{}

func (r *ListDocumentsRequest) Validate() error {
	return nil
}

// CreateDocumentRequest is the body of POST /api/<collection>.
type CreateDocumentRequest struct {
	DocumentBody
}

func (r *CreateDocumentRequest) Validate() error {
	return nil
}

// UpdateDocumentRequest is PATCH /api/<collection>/:id.
type UpdateDocumentRequest struct {
	DocumentBody
	ID string `param:"id" json:"-" validate:"required"`
}

func (r *UpdateDocumentRequest) Validate() error {
	return validate.Struct(r)
}

// DeleteDocumentRequest is DELETE /api/<collection>/:id. The id only ever
// comes from the path; a request body cannot retarget the delete.
type DeleteDocumentRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (r *DeleteDocumentRequest) Validate() error {
	return validate.Struct(r)
}
