package models

import (
	"time"
)

// Page types that can be tracked
const (
	PageTypeArticle  = "article"
	PageTypeBreed    = "breed"
	PageTypeCategory = "category"
)

// PageView counts the views of one article or breed page
type PageView struct {
	ID        string    `json:"id" bson:"id"`
	PageType  string    `json:"page_type" bson:"page_type"`
	PageID    string    `json:"page_id" bson:"page_id"`
	Views     int64     `json:"views" bson:"views"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PopularItem is a page view enriched with the title or name of the page
type PopularItem struct {
	PageView
	Title string `json:"title,omitempty"`
	Name  string `json:"name,omitempty"`
}

// PopularContent is the response of the popular-content report
type PopularContent struct {
	Articles []PopularItem `json:"articles"`
	Breeds   []PopularItem `json:"breeds"`
}

// AnalyticsStats is the response of the aggregate stats report
type AnalyticsStats struct {
	TotalArticleViews int64   `json:"total_article_views"`
	TotalBreedViews   int64   `json:"total_breed_views"`
	TotalRatings      int64   `json:"total_ratings"`
	AverageRating     float64 `json:"average_rating"`
}
