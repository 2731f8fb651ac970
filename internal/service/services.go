package service

import (
	"github.com/deppfellow/platform-api/internal/repository"
	"github.com/deppfellow/platform-api/internal/server"
)

// Services is the container for every service instance.
type Services struct {
	Documents *DocumentService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	// A nil *JobService must not become a non-nil interface.
	var notifier CertificateNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Documents: NewDocumentService(repos.Documents, notifier),
	}, nil
}
