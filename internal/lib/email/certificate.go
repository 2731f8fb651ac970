package email

import (
	"context"
	"fmt"
	"sort"
)

// Field is one document field rendered as a table row.
type Field struct {
	Key   string
	Value string
}

// CertificateRequestData feeds templates/certificate_request.html.
type CertificateRequestData struct {
	ID          string
	RequestDate string
	Fields      []Field
}

// NewCertificateRequestData flattens a stored document into template rows,
// sorted by key so the email layout is stable.
func NewCertificateRequestData(id, requestDate string, fields map[string]any) CertificateRequestData {
	rows := make([]Field, 0, len(fields))
	for key, value := range fields {
		rows = append(rows, Field{Key: key, Value: fmt.Sprint(value)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	return CertificateRequestData{ID: id, RequestDate: requestDate, Fields: rows}
}

// SendCertificateRequestEmail tells staff a new certificate request is pending.
func (c *Client) SendCertificateRequestEmail(ctx context.Context, data CertificateRequestData) error {
	return c.SendEmail(
		ctx,
		fmt.Sprintf("New certificate request %s", data.ID),
		TemplateCertificateRequest,
		data,
	)
}
