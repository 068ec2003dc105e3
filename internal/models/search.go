package models

// Search result types
const (
	ResultTypeArticle = "article"
	ResultTypeBreed   = "breed"
)

// SearchResult is one hit of the site search
type SearchResult struct {
	Type      string  `json:"type"`
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Excerpt   string  `json:"excerpt"`
	Relevance float64 `json:"relevance"`
}
