package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

// SEOHandler handles SEO settings and page meta endpoints
type SEOHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSEOHandler creates a new SEOHandler
func NewSEOHandler(services *service.Services, log zerolog.Logger) *SEOHandler {
	return &SEOHandler{
		services: services,
		log:      log.With().Str("handler", "seo").Logger(),
	}
}

// GetSettings handles GET /api/seo/settings
func (h *SEOHandler) GetSettings(c *gin.Context) {
	settings, err := h.services.SEO.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/seo/settings
func (h *SEOHandler) UpdateSettings(c *gin.Context) {
	var patch models.SEOSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	settings, err := h.services.SEO.UpdateSettings(c.Request.Context(), &patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetPageMeta handles GET /api/seo/meta/:page_type/:page_id. Pages without
// an override get an empty object.
func (h *SEOHandler) GetPageMeta(c *gin.Context) {
	meta, err := h.services.SEO.GetPageMeta(c.Request.Context(), c.Param("page_type"), c.Param("page_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if meta == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, meta)
}

// CreatePageMeta handles POST /api/seo/meta
func (h *SEOHandler) CreatePageMeta(c *gin.Context) {
	var req models.PageMetaCreate
	if !bindJSON(c, &req) {
		return
	}
	meta, err := h.services.SEO.CreatePageMeta(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// UpdatePageMeta handles PUT /api/seo/meta/:page_type/:page_id
func (h *SEOHandler) UpdatePageMeta(c *gin.Context) {
	var patch models.PageMetaPatch
	if !bindJSON(c, &patch) {
		return
	}
	meta, err := h.services.SEO.UpdatePageMeta(c.Request.Context(), c.Param("page_type"), c.Param("page_id"), &patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// Resolve handles GET /api/seo/resolve/:page_type/:page_id?page=
func (h *SEOHandler) Resolve(c *gin.Context) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	resolved, err := h.services.SEO.Resolve(c.Request.Context(), c.Param("page_type"), c.Param("page_id"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}
