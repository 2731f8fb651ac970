package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCertificateRequestDataSortsFields(t *testing.T) {
	data := NewCertificateRequestData("req-1", "2024-05-01T10:00:00Z", map[string]any{
		"student": "Ada",
		"course":  "Intro",
		"status":  "pending",
		"score":   92.5,
	})

	require.Len(t, data.Fields, 4)
	assert.Equal(t, "req-1", data.ID)
	assert.Equal(t, []Field{
		{Key: "course", Value: "Intro"},
		{Key: "score", Value: "92.5"},
		{Key: "status", Value: "pending"},
		{Key: "student", Value: "Ada"},
	}, data.Fields)
}

func TestRenderCertificateRequest(t *testing.T) {
	data := NewCertificateRequestData("req-1", "2024-05-01T10:00:00Z", map[string]any{
		"student": "<b>Ada</b>",
		"course":  "Intro",
	})

	html, err := Render(TemplateCertificateRequest, data)
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>req-1</strong>")
	assert.Contains(t, html, "on 2024-05-01T10:00:00Z")
	assert.Less(t, strings.Index(html, "course"), strings.Index(html, "student"))
	// Field values are escaped.
	assert.Contains(t, html, "&lt;b&gt;Ada&lt;/b&gt;")
}

func TestRenderWithoutRequestDate(t *testing.T) {
	html, err := Render(TemplateCertificateRequest, NewCertificateRequestData("req-2", "", nil))
	require.NoError(t, err)
	assert.NotContains(t, html, " on ")
	assert.NotContains(t, html, "<table")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render(Template("welcome"), nil)
	assert.Error(t, err)
}
