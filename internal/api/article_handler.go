package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article and rating endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /api/articles?category=&page=&limit=
func (h *ArticleHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	list, err := h.services.Article.List(c.Request.Context(), c.Query("category"), page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.services.Article.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req models.ArticleCreate
	if !bindJSON(c, &req) {
		return
	}
	article, err := h.services.Article.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Update handles PUT /api/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	var patch models.ArticlePatch
	if !bindJSON(c, &patch) {
		return
	}
	article, err := h.services.Article.Update(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	deleted(c, "Article deleted")
}

// Rate handles POST /api/articles/:id/rate
func (h *ArticleHandler) Rate(c *gin.Context) {
	var req models.RatingSubmit
	if !bindJSON(c, &req) {
		return
	}
	rating, err := h.services.Rating.Submit(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Rating handles GET /api/articles/:id/rating
func (h *ArticleHandler) Rating(c *gin.Context) {
	rating, err := h.services.Rating.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
