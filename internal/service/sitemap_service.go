package service

import (
	"context"
	"fmt"

	"github.com/petslib-api/internal/config"
	"github.com/petslib-api/internal/models"
	"github.com/petslib-api/internal/repository"
	"github.com/petslib-api/internal/sitemap"
)

// sitemapService is the concrete implementation of SitemapService
type sitemapService struct {
	articles repository.ArticleRepository
	breeds   repository.BreedRepository
	site     config.SiteConfig
}

func newSitemapService(articles repository.ArticleRepository, breeds repository.BreedRepository, site config.SiteConfig) *sitemapService {
	return &sitemapService{articles: articles, breeds: breeds, site: site}
}

type contentSnapshot struct {
	articles []*models.Article
	breeds   []*models.Breed
}

func (s *sitemapService) content(ctx context.Context) (*contentSnapshot, error) {
	articles, err := s.articles.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	breeds, err := s.breeds.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list breeds: %w", err)
	}
	return &contentSnapshot{articles: articles, breeds: breeds}, nil
}

// XML renders the sitemaps.org document
func (s *sitemapService) XML(ctx context.Context) ([]byte, error) {
	c, err := s.content(ctx)
	if err != nil {
		return nil, err
	}
	return sitemap.RenderXML(c.articles, c.breeds, s.site.FrontendURL, now())
}

// HTML renders the human-readable sitemap
func (s *sitemapService) HTML(ctx context.Context) ([]byte, error) {
	c, err := s.content(ctx)
	if err != nil {
		return nil, err
	}
	return sitemap.RenderHTML(c.articles, c.breeds, s.site.FrontendURL, s.site.Name)
}
