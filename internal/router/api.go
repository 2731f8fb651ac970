package router

import (
	"github.com/deppfellow/platform-api/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes mounts /api/health and the CRUD routes of every
// collection. PATCH is only registered for patchable collections, so a
// PATCH on registrations is a 405 from the router.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api")

	api.GET("/health", h.Health.Alive)

	for _, documents := range h.Documents {
		collection := documents.Collection()
		group := api.Group("/" + collection.Path)

		group.GET("", documents.ListRoute())
		group.POST("", documents.CreateRoute())
		if collection.Patchable {
			group.PATCH("/:id", documents.UpdateRoute())
		}
		group.DELETE("/:id", documents.DeleteRoute())
	}
}
