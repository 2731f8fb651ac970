package service

import (
	"context"

	"github.com/deppfellow/platform-api/internal/middleware"
	"github.com/deppfellow/platform-api/internal/model"
	"github.com/deppfellow/platform-api/internal/repository"
)

// CertificateNotifier schedules the staff notification for a new
// certificate request. *job.JobService implements it.
type CertificateNotifier interface {
	EnqueueCertificateRequested(ctx context.Context, doc model.Document) error
}

// DocumentService runs the four collection operations. Each one is a
// single repository call; the service only adds collection defaults and
// the optional notification.
type DocumentService struct {
	repo     repository.DocumentRepository
	notifier CertificateNotifier
}

// NewDocumentService wires the service. notifier may be nil.
func NewDocumentService(repo repository.DocumentRepository, notifier CertificateNotifier) *DocumentService {
	return &DocumentService{repo: repo, notifier: notifier}
}

// List returns every document of c in its declared order. Never nil, so
// an empty collection serializes as [].
func (s *DocumentService) List(ctx context.Context, c model.Collection) ([]model.Document, error) {
	docs, err := s.repo.List(ctx, c)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// Create stores a copy of fields with the collection defaults applied.
//
// For certificate requests a notification is enqueued afterwards; a
// failed enqueue is logged and does not fail the create.
func (s *DocumentService) Create(ctx context.Context, c model.Collection, fields model.Fields) (model.Document, error) {
	doc, err := s.repo.Create(ctx, c, c.Prepare(fields))
	if err != nil {
		return model.Document{}, err
	}

	if c.IsCertificateRequests() && s.notifier != nil {
		if err := s.notifier.EnqueueCertificateRequested(ctx, doc); err != nil {
			logger := middleware.LoggerFromContext(ctx)
			logger.Error().
				Err(err).
				Str("certificate_request_id", doc.ID).
				Msg("failed to enqueue certificate request notification")
		}
	}

	return doc, nil
}

// Update shallow-merges fields into document id. The returned document
// holds only the supplied fields; the store is not read back.
func (s *DocumentService) Update(ctx context.Context, c model.Collection, id string, fields model.Fields) (model.Document, error) {
	if err := s.repo.Update(ctx, c, id, fields); err != nil {
		return model.Document{}, err
	}
	return model.Document{ID: id, Fields: fields.Clone()}, nil
}

// Delete removes document id. Missing documents are not an error.
func (s *DocumentService) Delete(ctx context.Context, c model.Collection, id string) error {
	return s.repo.Delete(ctx, c, id)
}

// Ping checks that the document store answers.
func (s *DocumentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
