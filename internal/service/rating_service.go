package service

import (
	"context"
	"fmt"

	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/rs/zerolog"
)

// ratingService is the concrete implementation of RatingService
type ratingService struct {
	ratings  repository.RatingRepository
	articles repository.ArticleRepository
	log      zerolog.Logger
}

func newRatingService(ratings repository.RatingRepository, articles repository.ArticleRepository, log zerolog.Logger) *ratingService {
	return &ratingService{
		ratings:  ratings,
		articles: articles,
		log:      log.With().Str("service", "rating").Logger(),
	}
}

// Submit records one 1-5 star rating for an existing article
func (s *ratingService) Submit(ctx context.Context, articleID string, req *models.RatingSubmit) (*models.ArticleRating, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, notFound("Article")
	}

	rating, err := s.ratings.Accumulate(ctx, articleID, req.Rating, now())
	if err != nil {
		return nil, fmt.Errorf("accumulate rating: %w", err)
	}

	s.log.Debug().
		Str("article_id", articleID).
		Int("rating", req.Rating).
		Int("total_ratings", rating.TotalRatings).
		Msg("Rating submitted")

	return rating, nil
}

// Get returns the rating record, or an empty one for unrated articles
func (s *ratingService) Get(ctx context.Context, articleID string) (*models.ArticleRating, error) {
	rating, err := s.ratings.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	if rating == nil {
		return &models.ArticleRating{ArticleID: articleID, UpdatedAt: now()}, nil
	}
	return rating, nil
}
