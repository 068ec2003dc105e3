package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/upload"
	"github.com/rs/zerolog"
)

// uploadService is the concrete implementation of UploadService
type uploadService struct {
	store *upload.Store
	log   zerolog.Logger
}

func newUploadService(store *upload.Store, log zerolog.Logger) *uploadService {
	return &uploadService{
		store: store,
		log:   log.With().Str("service", "upload").Logger(),
	}
}

func isRejection(err error) bool {
	return errors.Is(err, upload.ErrInvalidFolder) ||
		errors.Is(err, upload.ErrNotImage) ||
		errors.Is(err, upload.ErrInvalidExtension) ||
		errors.Is(err, upload.ErrTooLarge) ||
		errors.Is(err, upload.ErrInvalidPath)
}

// Upload stores an image. size is the length declared by the client, or
// -1 when unknown; oversized bodies are also caught while writing.
func (s *uploadService) Upload(ctx context.Context, folder, filename, contentType string, size int64, r io.Reader) (*models.UploadResult, error) {
	if s.store == nil {
		return nil, errors.New("uploads are not configured")
	}
	if size > s.store.MaxSize() {
		return nil, validationError("file is too large, max size is %d MB", s.store.MaxSize()/(1024*1024))
	}

	res, err := s.store.Save(folder, filename, contentType, r)
	if err != nil {
		if isRejection(err) {
			return nil, validationError("%s", err.Error())
		}
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return res, nil
}

// Delete removes a stored file
func (s *uploadService) Delete(ctx context.Context, filePath string) error {
	if s.store == nil {
		return errors.New("uploads are not configured")
	}
	removed, err := s.store.Delete(filePath)
	if err != nil {
		if isRejection(err) {
			return validationError("%s", err.Error())
		}
		return fmt.Errorf("delete upload: %w", err)
	}
	if !removed {
		return notFound("File")
	}
	return nil
}
