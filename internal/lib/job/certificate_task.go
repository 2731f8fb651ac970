package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/platform-api/internal/model"
	"github.com/hibiken/asynq"
)

const (
	// TaskCertificateRequested is the job type name stored in Redis.
	// Asynq uses task type strings to route to handlers.
	TaskCertificateRequested = "certificate:requested"
)

// CertificateRequestedPayload is the JSON payload of a certificate request
// notification: the document as it was stored.
type CertificateRequestedPayload struct {
	ID     string       `json:"id"`
	Fields model.Fields `json:"fields"`
}

// NewCertificateRequestedTask constructs the notification task for doc.
//
// Options:
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("default")
//   - Timeout(30s): kill the task if the handler runs longer
func NewCertificateRequestedTask(doc model.Document) (*asynq.Task, error) {
	payload, err := json.Marshal(CertificateRequestedPayload{
		ID:     doc.ID,
		Fields: doc.Fields,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskCertificateRequested,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueCertificateRequested schedules the staff notification for doc.
func (j *JobService) EnqueueCertificateRequested(ctx context.Context, doc model.Document) error {
	task, err := NewCertificateRequestedTask(doc)
	if err != nil {
		return fmt.Errorf("failed to build certificate request task: %w", err)
	}
	return j.Enqueue(ctx, task)
}
