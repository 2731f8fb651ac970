package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/platform-api/internal/config"
	"github.com/deppfellow/platform-api/internal/lib/email"
	"github.com/deppfellow/platform-api/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Notifier delivers staff notifications. *email.Client implements it.
type Notifier interface {
	SendCertificateRequestEmail(ctx context.Context, data email.CertificateRequestData) error
}

// InitHandlers builds the dependencies the task handlers need.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.SetNotifier(email.NewClient(cfg, logger))
}

// SetNotifier replaces the notification backend.
func (j *JobService) SetNotifier(notifier Notifier) {
	j.notifier = notifier
}

// handleCertificateRequestedTask emails staff about a new certificate request.
//
// Returning an error makes Asynq mark the task failed and schedule a retry.
// A payload that cannot be decoded is never retried.
func (j *JobService) handleCertificateRequestedTask(ctx context.Context, t *asynq.Task) error {
	var p CertificateRequestedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal certificate request payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskCertificateRequested).
		Str("certificate_request_id", p.ID).
		Msg("Processing certificate request notification")

	requestDate := ""
	if value, ok := p.Fields[model.CertificateRequests.SortField]; ok {
		requestDate = fmt.Sprint(value)
	}

	data := email.NewCertificateRequestData(p.ID, requestDate, p.Fields)
	if err := j.notifier.SendCertificateRequestEmail(ctx, data); err != nil {
		j.logger.Error().
			Str("type", TaskCertificateRequested).
			Str("certificate_request_id", p.ID).
			Err(err).
			Msg("Failed to send certificate request notification")
		return err
	}

	j.logger.Info().
		Str("type", TaskCertificateRequested).
		Str("certificate_request_id", p.ID).
		Msg("Successfully sent certificate request notification")

	return nil
}
