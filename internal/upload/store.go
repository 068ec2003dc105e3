// Package upload stores uploaded images on the local disk.
package upload

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/models"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"
)

// DefaultFolder is used when the client names no folder
const DefaultFolder = "general"

// Rejections reported to the client as validation errors
var (
	ErrInvalidFolder    = errors.New("folder may only contain lowercase letters, digits, '-' and '_'")
	ErrNotImage         = errors.New("File must be an image")
	ErrInvalidExtension = errors.New("file extension must be one of .jpg, .jpeg, .png, .gif, .webp")
	ErrTooLarge         = errors.New("file is too large")
	ErrInvalidPath      = errors.New("file path is outside the upload directory")
)

var (
	folderPattern     = regexp.MustCompile(`^[a-z0-9_-]+$`)
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
)

// Store writes images under a root directory and serves their public URLs
type Store struct {
	root         string
	publicPrefix string
	maxSize      int64
	log          zerolog.Logger
}

// NewStore creates the upload directory if needed
func NewStore(cfg config.UploadConfig, log zerolog.Logger) (*Store, error) {
	root, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		root:         root,
		publicPrefix: strings.TrimRight(cfg.PublicPrefix, "/"),
		maxSize:      cfg.MaxUploadSize,
		log:          log.With().Str("component", "upload").Logger(),
	}, nil
}

// Root returns the absolute upload directory
func (s *Store) Root() string {
	return s.root
}

// MaxSize returns the largest accepted file in bytes
func (s *Store) MaxSize() int64 {
	return s.maxSize
}

// Save validates and writes one image into folder under a generated name.
// The file is removed again if any check after writing fails.
func (s *Store) Save(folder, filename, contentType string, r io.Reader) (*models.UploadResult, error) {
	if folder == "" {
		folder = DefaultFolder
	}
	if !folderPattern.MatchString(folder) {
		return nil, ErrInvalidFolder
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrNotImage
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, ErrInvalidExtension
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(dir, name)

	size, err := s.write(path, r)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	width, height, format, err := inspect(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	s.log.Info().
		Str("folder", folder).
		Str("filename", name).
		Int64("size_bytes", size).
		Str("format", format).
		Msg("Image stored")

	return &models.UploadResult{
		Filename: name,
		Path:     folder + "/" + name,
		URL:      s.publicPrefix + "/" + folder + "/" + name,
		Width:    width,
		Height:   height,
		Format:   format,
		Size:     size,
	}, nil
}

func (s *Store) write(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write file: %w", err)
	}
	if n > s.maxSize {
		return 0, ErrTooLarge
	}
	return n, nil
}

// inspect sniffs the stored bytes and reads the image dimensions
func inspect(path string) (int, int, string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return 0, 0, "", fmt.Errorf("detect type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return 0, 0, "", ErrNotImage
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, "", ErrNotImage
	}
	return cfg.Width, cfg.Height, strings.ToUpper(format), nil
}

// Delete removes a stored file given its relative path or public URL.
// It reports false when there was nothing to remove.
func (s *Store) Delete(filePath string) (bool, error) {
	rel := strings.TrimPrefix(filePath, s.publicPrefix+"/")
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return false, ErrInvalidPath
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	within, err := filepath.Rel(s.root, full)
	if err != nil || within == "." || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return false, ErrInvalidPath
	}

	info, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, ErrInvalidPath
	}

	if err := os.Remove(full); err != nil {
		return false, err
	}

	s.log.Info().Str("path", rel).Msg("Image deleted")
	return true, nil
}
