package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/services/diavgeia"
)

// DiavgeiaHandler serves the decision cache and case-link endpoints.
type DiavgeiaHandler struct {
	Cache *diavgeia.Cache
	Links *diavgeia.LinkService
}

func NewDiavgeiaHandler(cache *diavgeia.Cache, links *diavgeia.LinkService) *DiavgeiaHandler {
	return &DiavgeiaHandler{Cache: cache, Links: links}
}

// Search handles GET /api/diavgeia/search. Cache mode unless a refresh
// is requested or an ADA filter is present, which both force the remote
// registry (every remote result is cached as a side effect).
func (h *DiavgeiaHandler) Search(c echo.Context) error {
	params := diavgeia.SearchParams{
		Q:        c.QueryParam("q"),
		ADA:      c.QueryParam("ada"),
		Subject:  c.QueryParam("subject"),
		Protocol: c.QueryParam("protocol"),
		Org:      c.QueryParam("org"),
		Type:     c.QueryParam("type"),
		FromDate: c.QueryParam("from_date"),
		ToDate:   c.QueryParam("to_date"),
		Status:   c.QueryParam("status"),
		Sort:     c.QueryParam("sort"),
	}
	params.Page, _ = strconv.Atoi(c.QueryParam("page"))
	params.Size, _ = strconv.Atoi(c.QueryParam("size"))
	refresh := c.QueryParam("refresh") == "true"

	if refresh || params.ADA != "" {
		result, err := h.Cache.SearchRemote(c.Request().Context(), params)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, result)
	}

	result, err := h.Cache.SearchCache(params)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetDecision handles GET /api/diavgeia/decisions/:ada
func (h *DiavgeiaHandler) GetDecision(c echo.Context) error {
	ada := c.Param("ada")
	refresh := c.QueryParam("refresh") == "true"

	decision, err := h.Cache.GetByADA(c.Request().Context(), ada, refresh)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, decision)
}

// Fetch handles POST /api/diavgeia/fetch/:ada
func (h *DiavgeiaHandler) Fetch(c echo.Context) error {
	decision, err := h.Cache.Fetch(c.Request().Context(), c.Param("ada"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, decision)
}

// Stats handles GET /api/diavgeia/stats
func (h *DiavgeiaHandler) Stats(c echo.Context) error {
	stats, err := h.Cache.Stats()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// CreateLink handles POST /api/cases/:id/diavgeia-links
func (h *DiavgeiaHandler) CreateLink(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		DecisionADA string `json:"decision_ada"`
		Notes       string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return apperrors.Validation("invalid request body")
	}

	link, err := h.Links.Create(id, body.DecisionADA, body.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, link)
}

// ListLinks handles GET /api/cases/:id/diavgeia-links
func (h *DiavgeiaHandler) ListLinks(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	links, err := h.Links.ListForCase(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, links)
}

// DeleteLink handles DELETE /api/cases/:id/diavgeia-links/:linkId
func (h *DiavgeiaHandler) DeleteLink(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	linkID, err := paramID(c, "linkId")
	if err != nil {
		return err
	}

	if err := h.Links.Delete(id, linkID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
