// Package postings serves posting reads: search, single fetch, contacts and
// ranked search.
package postings

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/PNGURuckus/EasyInterns/internal/repositories/contactemail"
	"github.com/PNGURuckus/EasyInterns/pkg/emails"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
	"github.com/PNGURuckus/EasyInterns/pkg/search"
)

// Handler holds the posting route dependencies.
type Handler struct {
	search    *search.Service
	contacts  *contactemail.Repository
	extractor *emails.Extractor
}

// NewHandler creates the handler.
func NewHandler(searchService *search.Service, contacts *contactemail.Repository, extractor *emails.Extractor) *Handler {
	return &Handler{search: searchService, contacts: contacts, extractor: extractor}
}

// Register registers posting routes.
func Register(g *echo.Group, h *Handler) {
	g.GET("", h.Search)
	g.POST("/ranked", h.SearchRanked)
	g.GET("/:id", h.Get)
	g.GET("/:id/contacts", h.Contacts)
}

// Search handles GET /postings with filter query params.
func (h *Handler) Search(c echo.Context) error {
	var query models.SearchQuery
	if err := c.Bind(&query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search query")
	}

	result, err := h.search.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// rankedRequest is the POST body for ranked search: the filters plus the
// profile to score against.
type rankedRequest struct {
	Query   models.SearchQuery      `json:"query"`
	Profile models.CandidateProfile `json:"profile"`
}

// SearchRanked handles POST /postings/ranked.
func (h *Handler) SearchRanked(c echo.Context) error {
	var req rankedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ranked search request")
	}

	result, err := h.search.SearchRanked(c.Request().Context(), req.Query, req.Profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /postings/:id.
func (h *Handler) Get(c echo.Context) error {
	posting, err := h.search.GetPosting(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posting)
}

// Contacts handles GET /postings/:id/contacts. Below-threshold contacts are
// withheld unless ?show_all=true.
func (h *Handler) Contacts(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	// 404 on unknown posting rather than an empty list.
	if _, err := h.search.GetPosting(ctx, id); err != nil {
		return err
	}

	showAll := c.QueryParam("show_all") == "true"
	minConfidence := h.extractor.Threshold()
	if showAll {
		minConfidence = 0
	}

	contacts, err := h.contacts.ListForPosting(ctx, id, minConfidence)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ContactListResponse{
		Items:     contacts,
		Threshold: h.extractor.Threshold(),
		ShowAll:   showAll,
	})
}
