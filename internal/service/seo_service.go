package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/validation"
	"github.com/rs/zerolog"
)

// seoService is the concrete implementation of SEOService
type seoService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newSEOService(repos *repository.Repositories, log zerolog.Logger) *seoService {
	return &seoService{
		repos: repos,
		log:   log.With().Str("service", "seo").Logger(),
	}
}

// GetSettings returns the saved settings, or the defaults before the first save
func (s *seoService) GetSettings(ctx context.Context) (*models.SEOSettings, error) {
	settings, err := s.repos.SEO.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get seo settings: %w", err)
	}
	if settings == nil {
		return models.DefaultSEOSettings(), nil
	}
	return settings, nil
}

// UpdateSettings merges the present fields into the settings
func (s *seoService) UpdateSettings(ctx context.Context, patch *models.SEOSettingsPatch) (*models.SEOSettings, error) {
	changes := patch.Changes()
	if len(changes) == 0 {
		return s.GetSettings(ctx)
	}

	settings, err := s.repos.SEO.UpdateSettings(ctx, changes, now())
	if err != nil {
		return nil, fmt.Errorf("update seo settings: %w", err)
	}

	s.log.Info().Int("fields", len(changes)).Msg("SEO settings updated")
	return settings, nil
}

// GetPageMeta returns the override of a page, or nil when it has none
func (s *seoService) GetPageMeta(ctx context.Context, pageType, pageID string) (*models.PageMeta, error) {
	meta, err := s.repos.SEO.GetPageMeta(ctx, pageType, pageID)
	if err != nil {
		return nil, fmt.Errorf("get page meta: %w", err)
	}
	return meta, nil
}

// CreatePageMeta adds an override for a page that has none yet
func (s *seoService) CreatePageMeta(ctx context.Context, req *models.PageMetaCreate) (*models.PageMeta, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repos.SEO.GetPageMeta(ctx, req.PageType, req.PageID)
	if err != nil {
		return nil, fmt.Errorf("check page meta: %w", err)
	}
	if existing != nil {
		return nil, conflict("Meta tags already exist for this page")
	}

	ts := now()
	meta := &models.PageMeta{
		ID:                uuid.New().String(),
		PageType:          req.PageType,
		PageID:            req.PageID,
		CustomTitle:       req.CustomTitle,
		CustomDescription: req.CustomDescription,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	}
	if err := s.repos.SEO.CreatePageMeta(ctx, meta); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Meta tags already exist for this page")
		}
		return nil, fmt.Errorf("create page meta: %w", err)
	}

	s.log.Info().
		Str("page_type", meta.PageType).
		Str("page_id", meta.PageID).
		Msg("Page meta created")

	return meta, nil
}

// UpdatePageMeta merges the present fields into an existing override
func (s *seoService) UpdatePageMeta(ctx context.Context, pageType, pageID string, patch *models.PageMetaPatch) (*models.PageMeta, error) {
	changes := patch.Changes()
	if len(changes) == 0 {
		meta, err := s.GetPageMeta(ctx, pageType, pageID)
		if err == nil && meta == nil {
			err = notFound("Meta tags")
		}
		return meta, err
	}

	meta, err := s.repos.SEO.UpdatePageMeta(ctx, pageType, pageID, changes, now())
	if err != nil {
		return nil, fmt.Errorf("update page meta: %w", err)
	}
	if meta == nil {
		return nil, notFound("Meta tags")
	}
	return meta, nil
}

// Resolve computes the title and description a page should render with.
// A page override wins over the templates; pageNumber above 1 applies the
// pagination templates to category pages.
func (s *seoService) Resolve(ctx context.Context, pageType, pageID string, pageNumber int) (*models.ResolvedMeta, error) {
	if !validation.IsMetaPageType(pageType) {
		return nil, validationError("Invalid page type")
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	var resolved models.ResolvedMeta
	switch pageType {
	case models.PageTypeArticle:
		article, err := s.repos.Article.GetByID(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("get article: %w", err)
		}
		if article == nil {
			return nil, notFound("Article")
		}
		values := map[string]string{
			"article_title":   article.Title,
			"article_excerpt": article.Excerpt,
		}
		resolved.Title = models.Render(settings.ArticleTitleTemplate, values)
		resolved.Description = models.Render(settings.ArticleDescriptionTemplate, values)

	case models.PageTypeBreed:
		breed, err := s.repos.Breed.GetByID(ctx, pageID)
		if err != nil {
			return nil, fmt.Errorf("get breed: %w", err)
		}
		if breed == nil {
			return nil, notFound("Breed")
		}
		values := map[string]string{"breed_name": breed.Name}
		resolved.Title = models.Render(settings.BreedTitleTemplate, values)
		resolved.Description = models.Render(settings.BreedDescriptionTemplate, values)

	case models.PageTypeCategory:
		title, description, ok := settings.CategoryMeta(pageID)
		if !ok {
			return nil, notFound("Category")
		}
		resolved.Title, resolved.Description = title, description
		if pageNumber > 1 {
			values := map[string]string{
				"page_title":       title,
				"page_description": description,
				"page_number":      strconv.Itoa(pageNumber),
			}
			resolved.Title = models.Render(settings.PaginationTitleTemplate, values)
			resolved.Description = models.Render(settings.PaginationDescriptionTemplate, values)
		}
	}

	meta, err := s.repos.SEO.GetPageMeta(ctx, pageType, pageID)
	if err != nil {
		return nil, fmt.Errorf("get page meta: %w", err)
	}
	if meta != nil {
		if meta.CustomTitle != nil && *meta.CustomTitle != "" {
			resolved.Title = *meta.CustomTitle
		}
		if meta.CustomDescription != nil && *meta.CustomDescription != "" {
			resolved.Description = *meta.CustomDescription
		}
	}
	return &resolved, nil
}
