package models

import (
	"time"
)

// Article represents a pet-care article
type Article struct {
	ID        string    `json:"id" bson:"id"`
	Title     string    `json:"title" bson:"title"`
	Category  string    `json:"category" bson:"category"`
	Excerpt   string    `json:"excerpt" bson:"excerpt"`
	Content   string    `json:"content" bson:"content"`
	Author    string    `json:"author" bson:"author"`
	Date      string    `json:"date" bson:"date"` // YYYY-MM-DD
	ReadTime  string    `json:"readTime" bson:"readTime"`
	ImageURL  *string   `json:"image_url" bson:"image_url"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// ArticleDateLayout is the layout of Article.Date
const ArticleDateLayout = "2006-01-02"

// ArticleCreate is the request body for creating an article
type ArticleCreate struct {
	Title    string  `json:"title" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Excerpt  string  `json:"excerpt" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Author   string  `json:"author" validate:"required"`
	ReadTime string  `json:"readTime" validate:"required"`
	ImageURL *string `json:"image_url"`
}

// ArticlePatch is the request body for updating an article; only the
// fields present in the body are written.
type ArticlePatch struct {
	Title    Optional[string] `json:"title"`
	Category Optional[string] `json:"category"`
	Excerpt  Optional[string] `json:"excerpt"`
	Content  Optional[string] `json:"content"`
	Author   Optional[string] `json:"author"`
	ReadTime Optional[string] `json:"readTime"`
	ImageURL Optional[string] `json:"image_url"`
}

// Changes lists the fields carried by the patch
func (p *ArticlePatch) Changes() []Change {
	var changes []Change
	changes = appendChange(changes, "title", p.Title)
	changes = appendChange(changes, "category", p.Category)
	changes = appendChange(changes, "excerpt", p.Excerpt)
	changes = appendChange(changes, "content", p.Content)
	changes = appendChange(changes, "author", p.Author)
	changes = appendChange(changes, "readTime", p.ReadTime)
	changes = appendChange(changes, "image_url", p.ImageURL)
	return changes
}

// ArticleFilter narrows an article listing
type ArticleFilter struct {
	Category string // empty means all categories
}

// ArticleList is the response of the article listing
type ArticleList struct {
	Articles   []*Article `json:"articles"`
	Pagination Pagination `json:"pagination"`
}
