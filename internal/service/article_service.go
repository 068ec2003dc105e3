package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/rs/zerolog"
)

// CategoryAll disables the category filter
const CategoryAll = "all"

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles repository.ArticleRepository
	log      zerolog.Logger
}

func newArticleService(articles repository.ArticleRepository, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// List returns one page of articles, newest first
func (s *articleService) List(ctx context.Context, category string, page models.PageRequest) (*models.ArticleList, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}

	filter := models.ArticleFilter{}
	if category != "" && !strings.EqualFold(category, CategoryAll) {
		filter.Category = category
	}

	articles, total, err := s.articles.List(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return &models.ArticleList{
		Articles:   articles,
		Pagination: models.NewPagination(page, total),
	}, nil
}

// Get returns an article by ID
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, notFound("Article")
	}
	return article, nil
}

// Create stores a new article dated today
func (s *articleService) Create(ctx context.Context, req *models.ArticleCreate) (*models.Article, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ts := now()
	article := &models.Article{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Category:  req.Category,
		Excerpt:   req.Excerpt,
		Content:   sanitizeRichText(req.Content),
		Author:    req.Author,
		Date:      ts.Format(models.ArticleDateLayout),
		ReadTime:  req.ReadTime,
		ImageURL:  req.ImageURL,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("Article already exists")
		}
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("category", article.Category).
		Msg("Article created")

	return article, nil
}

// Update writes the fields present in the patch
func (s *articleService) Update(ctx context.Context, id string, patch *models.ArticlePatch) (*models.Article, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}
	if patch.Content.Set {
		patch.Content.Value = sanitizeRichText(patch.Content.Value)
	}

	changes := patch.Changes()
	if len(changes) == 0 {
		return s.Get(ctx, id)
	}

	article, err := s.articles.Update(ctx, id, changes, now())
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	if article == nil {
		return nil, notFound("Article")
	}

	s.log.Info().
		Str("article_id", id).
		Int("fields", len(changes)).
		Msg("Article updated")

	return article, nil
}

// Delete removes an article
func (s *articleService) Delete(ctx context.Context, id string) error {
	removed, err := s.articles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if !removed {
		return notFound("Article")
	}

	s.log.Info().Str("article_id", id).Msg("Article deleted")
	return nil
}
