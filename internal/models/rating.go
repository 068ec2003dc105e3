package models

import (
	"time"
)

// ArticleRating accumulates the star ratings of one article
type ArticleRating struct {
	ArticleID     string    `json:"article_id" bson:"article_id"`
	TotalRatings  int       `json:"total_ratings" bson:"total_ratings"`
	TotalScore    int       `json:"total_score" bson:"total_score"`
	AverageRating float64   `json:"average_rating" bson:"average_rating"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// RatingSubmit is the request body for rating an article
type RatingSubmit struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// RatingSummary aggregates every article rating
type RatingSummary struct {
	TotalRatings  int64
	AverageRating float64 // mean of per-article averages
}
