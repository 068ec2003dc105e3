package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

// SearchHandler handles site search and sitemaps
type SearchHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(services *service.Services, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		services: services,
		log:      log.With().Str("handler", "search").Logger(),
	}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.services.Search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Suggestions handles GET /api/search/suggestions?q=
func (h *SearchHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.services.Search.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// SitemapXML handles GET /api/sitemap.xml
func (h *SearchHandler) SitemapXML(c *gin.Context) {
	body, err := h.services.Sitemap.XML(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/xml", body)
}

// SitemapHTML handles GET /api/sitemap.html
func (h *SearchHandler) SitemapHTML(c *gin.Context) {
	body, err := h.services.Sitemap.HTML(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
