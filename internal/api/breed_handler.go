package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/service"
	"github.com/rs/zerolog"
)

// BreedHandler handles breed endpoints
type BreedHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewBreedHandler creates a new BreedHandler
func NewBreedHandler(services *service.Services, log zerolog.Logger) *BreedHandler {
	return &BreedHandler{
		services: services,
		log:      log.With().Str("handler", "breed").Logger(),
	}
}

// List handles GET /api/breeds?species=&letter=&search=&page=&limit=
func (h *BreedHandler) List(c *gin.Context) {
	page, ok := pageRequest(c)
	if !ok {
		return
	}
	filter := models.BreedFilter{
		Species: c.Query("species"),
		Letter:  c.Query("letter"),
		Search:  c.Query("search"),
	}
	list, err := h.services.Breed.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /api/breeds/:id
func (h *BreedHandler) Get(c *gin.Context) {
	breed, err := h.services.Breed.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, breed)
}

// Create handles POST /api/breeds
func (h *BreedHandler) Create(c *gin.Context) {
	var req models.BreedCreate
	if !bindJSON(c, &req) {
		return
	}
	breed, err := h.services.Breed.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, breed)
}

// Update handles PUT /api/breeds/:id
func (h *BreedHandler) Update(c *gin.Context) {
	var patch models.BreedPatch
	if !bindJSON(c, &patch) {
		return
	}
	breed, err := h.services.Breed.Update(c.Request.Context(), c.Param("id"), &patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, breed)
}

// Delete handles DELETE /api/breeds/:id
func (h *BreedHandler) Delete(c *gin.Context) {
	if err := h.services.Breed.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	deleted(c, "Breed deleted")
}
