package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/petslib-api/internal/database"
	"github.com/petslib-api/internal/models"
)

// ratingRepo is the concrete implementation of RatingRepository
type ratingRepo struct {
	db *database.DB
}

// NewRatingRepo creates a new rating repository
func NewRatingRepo(db *database.DB) RatingRepository {
	return &ratingRepo{db: db}
}

// Get retrieves the rating record of an article
func (r *ratingRepo) Get(ctx context.Context, articleID string) (*models.ArticleRating, error) {
	query := `
		SELECT article_id, total_ratings, total_score, average_rating, updated_at
		FROM article_ratings WHERE article_id = $1
	`
	var rating models.ArticleRating
	err := r.db.QueryRowContext(ctx, query, articleID).Scan(
		&rating.ArticleID, &rating.TotalRatings, &rating.TotalScore, &rating.AverageRating, &rating.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Accumulate adds one rating. The conflict branch reads the current row
// under its row lock so concurrent submissions never lose an update.
func (r *ratingRepo) Accumulate(ctx context.Context, articleID string, rating int, now time.Time) (*models.ArticleRating, error) {
	query := `
		INSERT INTO article_ratings (article_id, total_ratings, total_score, average_rating, updated_at)
		VALUES ($1, 1, $2, $3, $4)
		ON CONFLICT (article_id) DO UPDATE SET
			total_ratings  = article_ratings.total_ratings + 1,
			total_score    = article_ratings.total_score + EXCLUDED.total_score,
			average_rating = ROUND(
				(article_ratings.total_score + EXCLUDED.total_score)::numeric
				/ (article_ratings.total_ratings + 1), 2)::double precision,
			updated_at     = EXCLUDED.updated_at
		RETURNING article_id, total_ratings, total_score, average_rating, updated_at
	`
	var out models.ArticleRating
	err := r.db.QueryRowContext(ctx, query, articleID, rating, float64(rating), now).Scan(
		&out.ArticleID, &out.TotalRatings, &out.TotalScore, &out.AverageRating, &out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary totals the rating counts and averages the per-article averages
func (r *ratingRepo) Summary(ctx context.Context) (*models.RatingSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_ratings), 0), COALESCE(AVG(average_rating), 0)
		FROM article_ratings
	`
	var summary models.RatingSummary
	if err := r.db.QueryRowContext(ctx, query).Scan(&summary.TotalRatings, &summary.AverageRating); err != nil {
		return nil, err
	}
	return &summary, nil
}
