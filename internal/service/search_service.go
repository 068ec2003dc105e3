package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
)

// Search limits
const (
	MinQueryLength      = 2
	SearchLimit         = 10
	SuggestionLimit     = 5
	MaxSuggestionsTotal = 10
)

// searchService is the concrete implementation of SearchService
type searchService struct {
	articles repository.ArticleRepository
	breeds   repository.BreedRepository
}

func newSearchService(articles repository.ArticleRepository, breeds repository.BreedRepository) *searchService {
	return &searchService{articles: articles, breeds: breeds}
}

func checkQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return "", validationError("q must be at least %d characters", MinQueryLength)
	}
	return q, nil
}

// Search matches articles then breeds. Every hit has the same relevance.
func (s *searchService) Search(ctx context.Context, q string) ([]models.SearchResult, error) {
	q, err := checkQuery(q)
	if err != nil {
		return nil, err
	}

	articles, err := s.articles.Search(ctx, q, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	breeds, err := s.breeds.Search(ctx, q, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search breeds: %w", err)
	}

	results := make([]models.SearchResult, 0, len(articles)+len(breeds))
	for _, a := range articles {
		results = append(results, models.SearchResult{
			Type:      models.ResultTypeArticle,
			ID:        a.ID,
			Title:     a.Title,
			Excerpt:   truncate(plainText(a.Excerpt), ExcerptLength),
			Relevance: 1.0,
		})
	}
	for _, b := range breeds {
		results = append(results, models.SearchResult{
			Type:      models.ResultTypeBreed,
			ID:        b.ID,
			Title:     b.Name,
			Excerpt:   truncate(plainText(b.History), ExcerptLength),
			Relevance: 1.0,
		})
	}
	return results, nil
}

// Suggestions returns article titles then breed names starting with q
func (s *searchService) Suggestions(ctx context.Context, q string) ([]string, error) {
	q, err := checkQuery(q)
	if err != nil {
		return nil, err
	}

	titles, err := s.articles.TitlesWithPrefix(ctx, q, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("article suggestions: %w", err)
	}
	names, err := s.breeds.NamesWithPrefix(ctx, q, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("breed suggestions: %w", err)
	}

	suggestions := append(titles, names...)
	if len(suggestions) > MaxSuggestionsTotal {
		suggestions = suggestions[:MaxSuggestionsTotal]
	}
	return suggestions, nil
}
