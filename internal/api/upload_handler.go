package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/service"
	"github.com/petslib-api/internal/upload"
	"github.com/rs/zerolog"
)

// multipartOverhead is the allowance for form fields and part headers on
// top of the file itself
const multipartOverhead = 1 << 20

// UploadHandler handles image upload endpoints
type UploadHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "upload").Logger(),
	}
}

// Upload handles POST /api/upload (multipart: file, folder)
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Upload.MaxUploadSize+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(c, fmt.Sprintf("file is too large, max size is %d MB", h.cfg.Upload.MaxUploadSize/(1024*1024)))
			return
		}
		badRequest(c, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "file could not be read")
		return
	}
	defer file.Close()

	folder := c.DefaultPostForm("folder", upload.DefaultFolder)

	h.log.Debug().
		Str("filename", header.Filename).
		Str("folder", folder).
		Int64("size", header.Size).
		Msg("Upload received")

	res, err := h.services.Upload.Upload(
		c.Request.Context(),
		folder,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /api/upload?file_path=
func (h *UploadHandler) Delete(c *gin.Context) {
	filePath := c.Query("file_path")
	if filePath == "" {
		badRequest(c, "file_path is required")
		return
	}
	if err := h.services.Upload.Delete(c.Request.Context(), filePath); err != nil {
		respondError(c, h.log, err)
		return
	}
	deleted(c, "File deleted")
}
