package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentBodyAcceptsObjects(t *testing.T) {
	var req CreateDocumentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Intro","tags":["a"]}`), &req))

	assert.Equal(t, Fields{"title": "Intro", "tags": []any{"a"}}, req.Fields)
}

func TestDocumentBodyNullIsEmpty(t *testing.T) {
	var req CreateDocumentRequest
	require.NoError(t, json.Unmarshal([]byte(`null`), &req))

	assert.Equal(t, Fields{}, req.Fields)
}

func TestDocumentBodyRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"text"`, `42`, `true`} {
		var req CreateDocumentRequest
		err := json.Unmarshal([]byte(body), &req)
		assert.ErrorIs(t, err, ErrNotAnObject, body)
	}
}

func TestUpdateDocumentRequestKeepsID(t *testing.T) {
	req := UpdateDocumentRequest{ID: "abc"}
	require.NoError(t, json.Unmarshal([]byte(`{"id":"other","title":"New"}`), &req))

	assert.Equal(t, "abc", req.ID)
	assert.Equal(t, Fields{"id": "other", "title": "New"}, req.Fields)
	assert.NoError(t, req.Validate())
}

func TestRequestsRequireID(t *testing.T) {
	assert.Error(t, (&UpdateDocumentRequest{}).Validate())
	assert.Error(t, (&DeleteDocumentRequest{}).Validate())
	assert.NoError(t, (&DeleteDocumentRequest{ID: "abc"}).Validate())
}
