package service

import (
	"context"
	"io"
	"time"

	"github.com/petslib-api/internal/auth"
	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/upload"
	"github.com/rs/zerolog"
)

// AuthService registers users, issues tokens and resolves bearer tokens
type AuthService interface {
	Register(ctx context.Context, req *models.UserCreate) (*models.User, error)
	CreateAdmin(ctx context.Context, req *models.UserCreate) (*models.User, error)
	Login(ctx context.Context, req *models.UserLogin) (*models.Token, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ArticleService defines article operations
type ArticleService interface {
	List(ctx context.Context, category string, page models.PageRequest) (*models.ArticleList, error)
	Get(ctx context.Context, id string) (*models.Article, error)
	Create(ctx context.Context, req *models.ArticleCreate) (*models.Article, error)
	Update(ctx context.Context, id string, patch *models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id string) error
}

// BreedService defines breed operations
type BreedService interface {
	List(ctx context.Context, filter models.BreedFilter, page models.PageRequest) (*models.BreedList, error)
	Get(ctx context.Context, id string) (*models.Breed, error)
	Create(ctx context.Context, req *models.BreedCreate) (*models.Breed, error)
	Update(ctx context.Context, id string, patch *models.BreedPatch) (*models.Breed, error)
	Delete(ctx context.Context, id string) error
}

// RatingService defines article rating operations
type RatingService interface {
	Submit(ctx context.Context, articleID string, req *models.RatingSubmit) (*models.ArticleRating, error)
	Get(ctx context.Context, articleID string) (*models.ArticleRating, error)
}

// AnalyticsService defines page view tracking and reports
type AnalyticsService interface {
	TrackView(ctx context.Context, pageType, pageID string) (*models.PageView, error)
	Popular(ctx context.Context) (*models.PopularContent, error)
	Stats(ctx context.Context) (*models.AnalyticsStats, error)
}

// SEOService defines SEO settings and per-page overrides
type SEOService interface {
	GetSettings(ctx context.Context) (*models.SEOSettings, error)
	UpdateSettings(ctx context.Context, patch *models.SEOSettingsPatch) (*models.SEOSettings, error)
	GetPageMeta(ctx context.Context, pageType, pageID string) (*models.PageMeta, error)
	CreatePageMeta(ctx context.Context, req *models.PageMetaCreate) (*models.PageMeta, error)
	UpdatePageMeta(ctx context.Context, pageType, pageID string, patch *models.PageMetaPatch) (*models.PageMeta, error)
	Resolve(ctx context.Context, pageType, pageID string, pageNumber int) (*models.ResolvedMeta, error)
}

// SearchService defines site search
type SearchService interface {
	Search(ctx context.Context, q string) ([]models.SearchResult, error)
	Suggestions(ctx context.Context, q string) ([]string, error)
}

// SitemapService renders sitemaps from live content
type SitemapService interface {
	XML(ctx context.Context) ([]byte, error)
	HTML(ctx context.Context) ([]byte, error)
}

// UploadService stores and removes uploaded images
type UploadService interface {
	Upload(ctx context.Context, folder, filename, contentType string, size int64, r io.Reader) (*models.UploadResult, error)
	Delete(ctx context.Context, filePath string) error
}

// Services holds all service interfaces
type Services struct {
	Auth      AuthService
	Article   ArticleService
	Breed     BreedService
	Rating    RatingService
	Analytics AnalyticsService
	SEO       SEOService
	Search    SearchService
	Sitemap   SitemapService
	Upload    UploadService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, tokens *auth.TokenManager, store *upload.Store, log zerolog.Logger) *Services {
	return &Services{
		Auth:      newAuthService(repos.User, tokens, cfg.Auth.AllowAdminRegistration, log),
		Article:   newArticleService(repos.Article, log),
		Breed:     newBreedService(repos.Breed, log),
		Rating:    newRatingService(repos.Rating, repos.Article, log),
		Analytics: newAnalyticsService(repos, log),
		SEO:       newSEOService(repos, log),
		Search:    newSearchService(repos.Article, repos.Breed),
		Sitemap:   newSitemapService(repos.Article, repos.Breed, cfg.Site),
		Upload:    newUploadService(store, log),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// checkPage validates the 1-based page number and page size
func checkPage(page models.PageRequest) error {
	if page.Page < 1 {
		return validationError("page must be at least 1")
	}
	if page.Limit < 1 || page.Limit > models.MaxPageLimit {
		return validationError("limit must be between 1 and %d", models.MaxPageLimit)
	}
	return nil
}
