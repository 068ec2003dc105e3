package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

// AnalyticsHandler handles view tracking and the admin reports
type AnalyticsHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(services *service.Services, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		services: services,
		log:      log.With().Str("handler", "analytics").Logger(),
	}
}

// TrackView handles POST /api/views/:page_type/:page_id
func (h *AnalyticsHandler) TrackView(c *gin.Context) {
	pv, err := h.services.Analytics.TrackView(c.Request.Context(), c.Param("page_type"), c.Param("page_id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pv)
}

// Popular handles GET /api/analytics/popular
func (h *AnalyticsHandler) Popular(c *gin.Context) {
	popular, err := h.services.Analytics.Popular(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, popular)
}

// Stats handles GET /api/analytics/stats
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	stats, err := h.services.Analytics.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
