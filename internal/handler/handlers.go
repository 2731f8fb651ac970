package handler

import (
	"github.com/deppfellow/platform-api/internal/model"
	"github.com/deppfellow/platform-api/internal/server"
	"github.com/deppfellow/platform-api/internal/service"
)

// Handlers groups every HTTP handler so router setup passes one object
// around.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler

	// Documents holds one handler per collection, in routing order.
	Documents []*DocumentHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	collections := model.Collections()

	documents := make([]*DocumentHandler, 0, len(collections))
	for _, c := range collections {
		documents = append(documents, NewDocumentHandler(s, c, services.Documents))
	}

	return &Handlers{
		Health:    NewHealthHandler(s, services.Documents),
		OpenAPI:   NewOpenAPIHandler(s),
		Documents: documents,
	}
}
