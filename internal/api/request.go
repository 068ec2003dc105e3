package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/models"
)

// intQuery reads an optional integer query parameter
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}

// pageRequest reads page and limit; range checks happen in the services
func pageRequest(c *gin.Context) (models.PageRequest, bool) {
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return models.PageRequest{}, false
	}
	limit, ok := intQuery(c, "limit", models.DefaultPageLimit)
	if !ok {
		return models.PageRequest{}, false
	}
	return models.PageRequest{Page: page, Limit: limit}, true
}

// bindJSON decodes the request body into dst
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "Invalid request body")
		return false
	}
	return true
}

func deleted(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}
