// Package email renders and sends staff notification emails.
//
// It uses Resend (resend-go) as the email provider. HTML templates are
// embedded in the binary and parsed once at package init.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/deppfellow/platform-api/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template names an embedded HTML template (without the extension).
type Template string

const (
	// TemplateCertificateRequest corresponds to templates/certificate_request.html
	TemplateCertificateRequest Template = "certificate_request"
)

// Client wraps the Resend client with the configured sender and recipient.
type Client struct {
	client *resend.Client
	from   string
	to     string
	logger *zerolog.Logger
}

// NewClient creates an email Client from the notification config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		client: resend.NewClient(cfg.Notification.ResendAPIKey),
		from:   cfg.Notification.From,
		to:     cfg.Notification.To,
		logger: logger,
	}
}

// Render executes the named template with data.
func Render(name Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to the configured
// staff address.
func (c *Client) SendEmail(ctx context.Context, subject string, templateName Template, data any) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{c.to},
		Subject: subject,
		Html:    html,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().Str("template", string(templateName)).Str("to", c.to).Msg("email sent")

	return nil
}
