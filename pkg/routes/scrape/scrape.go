// Package scrape serves run control: trigger, poll, list and cancel.
package scrape

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
	"github.com/PNGURuckus/EasyInterns/pkg/orchestrator"
)

// Handler holds the scrape route dependencies.
type Handler struct {
	orchestrator *orchestrator.Orchestrator
	validate     *validator.Validate
}

// NewHandler creates the handler.
func NewHandler(o *orchestrator.Orchestrator) *Handler {
	return &Handler{orchestrator: o, validate: validator.New()}
}

// Register registers scrape routes.
func Register(g *echo.Group, h *Handler) {
	g.POST("", h.Start)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/cancel", h.Cancel)
}

// Start handles POST /scrape. Accepted runs return 202 with the pending
// record; progress is polled via GET.
func (h *Handler) Start(c echo.Context) error {
	var req models.StartScrapeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scrape request")
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	run, err := h.orchestrator.StartRun(c.Request().Context(), req.Sources)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusAccepted, run)
}

// List handles GET /scrape?limit=N.
func (h *Handler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	runs, err := h.orchestrator.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, runs)
}

// Get handles GET /scrape/:id.
func (h *Handler) Get(c echo.Context) error {
	run, err := h.orchestrator.GetRun(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, run)
}

// Cancel handles POST /scrape/:id/cancel.
func (h *Handler) Cancel(c echo.Context) error {
	run, err := h.orchestrator.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, run)
}
