// Package sources lists the registered scrape sources and their state.
package sources

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PNGURuckus/EasyInterns/internal/repositories/source"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Handler holds the source route dependencies.
type Handler struct {
	sources *source.Repository
}

// NewHandler creates the handler.
func NewHandler(sources *source.Repository) *Handler {
	return &Handler{sources: sources}
}

// Register registers source routes.
func Register(g *echo.Group, h *Handler) {
	g.GET("", h.List)
}

// List handles GET /sources: every registered source with enabled state,
// feature flag and last scrape time.
func (h *Handler) List(c echo.Context) error {
	items, err := h.sources.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.SourceListResponse{Items: items})
}
