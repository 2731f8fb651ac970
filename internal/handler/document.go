package handler

import (
	"net/http"

	"github.com/deppfellow/platform-api/internal/model"
	"github.com/deppfellow/platform-api/internal/server"
	"github.com/deppfellow/platform-api/internal/service"
	"github.com/labstack/echo/v4"
)

// DocumentHandler serves the CRUD routes of one collection.
type DocumentHandler struct {
	Handler
	collection model.Collection
	documents  *service.DocumentService
}

func NewDocumentHandler(s *server.Server, c model.Collection, documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		Handler:    NewHandler(s),
		collection: c,
		documents:  documents,
	}
}

// Collection returns the collection this handler serves.
func (h *DocumentHandler) Collection() model.Collection {
	return h.collection
}

func (h *DocumentHandler) List(c echo.Context, _ *model.ListDocumentsRequest) ([]model.Document, error) {
	return h.documents.List(c.Request().Context(), h.collection)
}

func (h *DocumentHandler) Create(c echo.Context, req *model.CreateDocumentRequest) (model.Document, error) {
	return h.documents.Create(c.Request().Context(), h.collection, req.Fields)
}

func (h *DocumentHandler) Update(c echo.Context, req *model.UpdateDocumentRequest) (model.Document, error) {
	return h.documents.Update(c.Request().Context(), h.collection, req.ID, req.Fields)
}

func (h *DocumentHandler) Delete(c echo.Context, req *model.DeleteDocumentRequest) error {
	return h.documents.Delete(c.Request().Context(), h.collection, req.ID)
}

// ListRoute is GET /api/<collection>.
func (h *DocumentHandler) ListRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.List, http.StatusOK, &model.ListDocumentsRequest{})
}

// CreateRoute is POST /api/<collection>.
func (h *DocumentHandler) CreateRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Create, http.StatusCreated, &model.CreateDocumentRequest{})
}

// UpdateRoute is PATCH /api/<collection>/:id.
func (h *DocumentHandler) UpdateRoute() echo.HandlerFunc {
	return Handle(h.Handler, h.Update, http.StatusOK, &model.UpdateDocumentRequest{})
}

// DeleteRoute is DELETE /api/<collection>/:id.
func (h *DocumentHandler) DeleteRoute() echo.HandlerFunc {
	return HandleNoContent(h.Handler, h.Delete, http.StatusNoContent, &model.DeleteDocumentRequest{})
}
