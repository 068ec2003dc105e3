package service

import (
	"context"
	"fmt"
	"math"

	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/validation"
	"github.com/rs/zerolog"
)

// PopularLimit is the number of entries per page type in the popular report
const PopularLimit = 10

// analyticsService is the concrete implementation of AnalyticsService
type analyticsService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newAnalyticsService(repos *repository.Repositories, log zerolog.Logger) *analyticsService {
	return &analyticsService{
		repos: repos,
		log:   log.With().Str("service", "analytics").Logger(),
	}
}

// TrackView counts one view of an article or breed page
func (s *analyticsService) TrackView(ctx context.Context, pageType, pageID string) (*models.PageView, error) {
	if !validation.IsTrackedPageType(pageType) {
		return nil, validationError("Invalid page type")
	}
	if pageID == "" {
		return nil, validationError("page_id is required")
	}

	pv, err := s.repos.PageView.Increment(ctx, pageType, pageID, now())
	if err != nil {
		return nil, fmt.Errorf("track view: %w", err)
	}
	return pv, nil
}

// Popular returns the most viewed articles and breeds with their titles
// and names. Pages whose content is gone are listed without one.
func (s *analyticsService) Popular(ctx context.Context) (*models.PopularContent, error) {
	topArticles, err := s.repos.PageView.Top(ctx, models.PageTypeArticle, PopularLimit)
	if err != nil {
		return nil, fmt.Errorf("top articles: %w", err)
	}
	topBreeds, err := s.repos.PageView.Top(ctx, models.PageTypeBreed, PopularLimit)
	if err != nil {
		return nil, fmt.Errorf("top breeds: %w", err)
	}

	articles, err := s.repos.Article.GetByIDs(ctx, pageIDs(topArticles))
	if err != nil {
		return nil, fmt.Errorf("lookup articles: %w", err)
	}
	titles := make(map[string]string, len(articles))
	for _, a := range articles {
		titles[a.ID] = a.Title
	}

	breeds, err := s.repos.Breed.GetByIDs(ctx, pageIDs(topBreeds))
	if err != nil {
		return nil, fmt.Errorf("lookup breeds: %w", err)
	}
	names := make(map[string]string, len(breeds))
	for _, b := range breeds {
		names[b.ID] = b.Name
	}

	out := &models.PopularContent{
		Articles: make([]models.PopularItem, 0, len(topArticles)),
		Breeds:   make([]models.PopularItem, 0, len(topBreeds)),
	}
	for _, pv := range topArticles {
		out.Articles = append(out.Articles, models.PopularItem{PageView: *pv, Title: titles[pv.PageID]})
	}
	for _, pv := range topBreeds {
		out.Breeds = append(out.Breeds, models.PopularItem{PageView: *pv, Name: names[pv.PageID]})
	}
	return out, nil
}

func pageIDs(views []*models.PageView) []string {
	ids := make([]string, len(views))
	for i, pv := range views {
		ids[i] = pv.PageID
	}
	return ids
}

// Stats returns site-wide view and rating totals
func (s *analyticsService) Stats(ctx context.Context) (*models.AnalyticsStats, error) {
	totals, err := s.repos.PageView.TotalsByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("view totals: %w", err)
	}
	summary, err := s.repos.Rating.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}

	return &models.AnalyticsStats{
		TotalArticleViews: totals[models.PageTypeArticle],
		TotalBreedViews:   totals[models.PageTypeBreed],
		TotalRatings:      summary.TotalRatings,
		AverageRating:     math.Round(summary.AverageRating*100) / 100,
	}, nil
}
